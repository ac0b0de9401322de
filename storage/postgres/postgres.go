package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of *pgxpool.Pool used by the store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// Store bundles the Postgres-backed repositories over one pool.
type Store struct {
	db          DB
	closeFn     func()
	tasks       *TaskRepository
	communities *CommunityRepository
	memberships *MembershipRepository
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, connString string, poolCfg *PoolConfig) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 1
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			cfg.MaxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			cfg.MinConns = poolCfg.MinConns
		}
	}
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	s := New(pool)
	s.closeFn = pool.Close
	return s, nil
}

// New builds the repositories over db. The caller keeps ownership of db.
func New(db DB) *Store {
	return &Store{
		db:          db,
		tasks:       &TaskRepository{db: db},
		communities: &CommunityRepository{db: db},
		memberships: &MembershipRepository{db: db},
	}
}

// Close releases the pool if the store opened it.
func (s *Store) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *Store) Tasks() *TaskRepository             { return s.tasks }
func (s *Store) Communities() *CommunityRepository  { return s.communities }
func (s *Store) Memberships() *MembershipRepository { return s.memberships }

const schema = `
CREATE TABLE IF NOT EXISTS match_tasks (
	task_id      TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	status       TEXT NOT NULL,
	phase        TEXT NOT NULL DEFAULT '',
	steps        JSONB NOT NULL DEFAULT '{}'::jsonb,
	result       JSONB,
	error        JSONB,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ
);

CREATE UNIQUE INDEX IF NOT EXISTS match_tasks_one_active_per_user
	ON match_tasks (user_id) WHERE status IN ('pending', 'processing');

CREATE INDEX IF NOT EXISTS match_tasks_status ON match_tasks (status, created_at);

CREATE TABLE IF NOT EXISTS communities (
	community_id TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	category     TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	member_count INTEGER NOT NULL DEFAULT 0 CHECK (member_count >= 0),
	city         TEXT NOT NULL DEFAULT '',
	timezone     TEXT NOT NULL DEFAULT '',
	embedding_id TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS communities_location ON communities (city, timezone);

CREATE TABLE IF NOT EXISTS community_members (
	community_id TEXT NOT NULL REFERENCES communities (community_id),
	user_id      TEXT NOT NULL,
	joined_at    TIMESTAMPTZ NOT NULL,
	auto_joined  BOOLEAN NOT NULL DEFAULT false,
	task_id      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (community_id, user_id)
);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

// uniqueViolation is the SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
