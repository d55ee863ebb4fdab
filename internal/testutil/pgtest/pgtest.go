package pgtest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/require"
)

// Connect creates a new database connection for testing. Tests that need a
// database are skipped when TEST_DATABASE is unset.
func Connect(ctx context.Context, t testing.TB) *pgx.Conn {
	dsn := os.Getenv("TEST_DATABASE")
	if dsn == "" {
		t.Skip("TEST_DATABASE not set")
	}

	config, err := pgx.ParseConfig(dsn)
	require.NoError(t, err)

	config.OnNotice = func(_ *pgconn.PgConn, n *pgconn.Notice) {
		t.Logf("PostgreSQL %s: %s", n.Severity, n.Message)
	}

	conn, err := pgx.ConnectConfig(ctx, config)
	require.NoError(t, err)

	t.Cleanup(func() {
		Close(t, conn)
	})

	return conn
}

// Close safely closes a database connection
func Close(t testing.TB, conn *pgx.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, conn.Close(ctx))
}

// WithConn provides a database connection to a test function and handles cleanup
func WithConn(t testing.TB, fn func(*pgx.Conn)) {
	ctx := context.Background()
	conn := Connect(ctx, t)
	fn(conn)
}

// CreateChunkTable creates a chunk-table fixture in the shape the tools read,
// dropping any previous copy, and registers a cleanup drop. Requires the
// vector extension on the test database.
func CreateChunkTable(ctx context.Context, t testing.TB, conn *pgx.Conn, table string, dims int) {
	_, err := conn.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
	require.NoError(t, err)

	_, err = conn.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE %s (
			id BIGINT PRIMARY KEY GENERATED BY DEFAULT AS IDENTITY,
			chunk_id TEXT NOT NULL,
			source TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d),
			created_at TIMESTAMPTZ DEFAULT now()
		)`, table, dims))
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = conn.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
	})
}

// InsertChunk inserts one chunk row. The vector is passed in its text form so
// the fixture works on connections without the pgvector codec registered.
func InsertChunk(ctx context.Context, t testing.TB, conn *pgx.Conn, table, chunkID, source, content string, embedding []float32) {
	_, err := conn.Exec(ctx,
		fmt.Sprintf("INSERT INTO %s (chunk_id, source, content, embedding) VALUES ($1, $2, $3, $4::vector)", table),
		chunkID, source, content, pgvector.NewVector(embedding).String(),
	)
	require.NoError(t, err)
}
