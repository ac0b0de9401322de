// Package reembed loads the community catalog and rebuilds its vectors.
//
// Seeder imports communities (and optionally members with their recent
// activity) from a JSON seed file, embeds them and writes both the catalog
// and the vector index. Reembedder recomputes every community vector after
// an embedding model change, in batches, with retry and exponential backoff,
// progress reporting, and a checkpoint so an interrupted run resumes where it
// stopped.
package reembed
