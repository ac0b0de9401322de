// Package search implements hybrid community retrieval.
//
// Engine runs two phases per query:
//
//   - Phase A, a structured filter: community ids whose city and timezone
//     exactly match the user's.
//   - Phase B, a cosine similarity search over community vectors, restricted
//     to the Phase A ids. If Phase A is empty the search runs unrestricted so
//     users in underserved locations still get ranked results; the result is
//     flagged as a fallback.
//
// Results carry scores in [-1, 1], ordered by score and then community id.
// A Monitor can observe each phase, and results may be cached in the
// query-result namespace for fifteen minutes.
package search
