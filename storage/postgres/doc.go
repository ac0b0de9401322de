// Package postgres implements the relational repositories (tasks,
// communities and memberships) over a pgx connection pool.
//
// It is the shared-database alternative to storage/badger for deployments
// that run several matchmaker processes against one catalog. The one-active
// task per user rule is enforced by a partial unique index, and every status
// transition is a single conditional UPDATE.
package postgres
