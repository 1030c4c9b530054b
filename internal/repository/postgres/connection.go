package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain/repositories"
)

// RepositoryConfig holds shared configuration for repository
// implementations.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds environment-prefixed table names.
type TableNames struct {
	Notes        string
	Notebooks    string
	Tags         string
	NoteTags     string
	Attachments  string
	SharedLinks  string
	Templates    string
	NoteVersions string
}

// NewTableNames creates table names with the given prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Notes:        prefix + "notes",
		Notebooks:    prefix + "notebooks",
		Tags:         prefix + "tags",
		NoteTags:     prefix + "note_tags",
		Attachments:  prefix + "attachments",
		SharedLinks:  prefix + "shared_links",
		Templates:    prefix + "templates",
		NoteVersions: prefix + "note_versions",
	}
}

// CreateConnectionPool creates a pgx connection pool. Connection poolers
// in transaction mode don't support prepared statements, so when one is
// detected (port 6543) the pool falls back to cached statement
// descriptions, which still gives proper JSONB encoding.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for pooler compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction bound to the context if present,
// otherwise the pool, so repositories automatically participate in
// transactions.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
