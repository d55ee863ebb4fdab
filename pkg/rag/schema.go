package rag

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// RequiredColumns are the chunk table columns the tools depend on.
var RequiredColumns = []string{"chunk_id", "source", "content", "embedding"}

// SchemaReport describes what a schema inspection found. The tools report
// findings and leave fixing the schema to the service's own migrations.
type SchemaReport struct {
	VectorExtension bool
	TableExists     bool
	MissingColumns  []string
}

// OK reports whether the schema is usable as-is.
func (r SchemaReport) OK() bool {
	return r.VectorExtension && r.TableExists && len(r.MissingColumns) == 0
}

// Problems lists what a failed inspection found, one finding per entry.
func (r SchemaReport) Problems() []string {
	var problems []string
	if !r.VectorExtension {
		problems = append(problems, "vector extension is not installed")
	}
	if !r.TableExists {
		problems = append(problems, "chunk table does not exist")
	}
	if len(r.MissingColumns) > 0 {
		problems = append(problems, fmt.Sprintf("missing columns: %s", strings.Join(r.MissingColumns, ", ")))
	}
	return problems
}

// CheckSchema inspects the vector extension, the chunk table and its columns.
// It never creates or alters anything.
func (c *Client) CheckSchema(ctx context.Context) (SchemaReport, error) {
	var report SchemaReport

	if c.conn == nil {
		return report, errNoDatabase
	}

	c.logger.Debug("Checking schema", zap.String("table", c.Config.TableName))

	extensionExists, err := c.extensionExists(ctx, "vector")
	if err != nil {
		return report, fmt.Errorf("failed to check for vector extension: %w", err)
	}
	report.VectorExtension = extensionExists

	tableExists, err := c.tableExists(ctx, c.Config.TableName)
	if err != nil {
		return report, fmt.Errorf("failed to check if table exists: %w", err)
	}
	report.TableExists = tableExists

	if !tableExists {
		// Column checks against a missing table would all come back false;
		// the table finding already covers them.
		return report, nil
	}

	schema, table := splitSchemaTableName(c.Config.TableName)
	for _, column := range RequiredColumns {
		var exists bool
		err := c.conn.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_schema=$1 AND table_name=$2 AND column_name=$3)",
			schema, table, column,
		).Scan(&exists)
		if err != nil {
			return report, fmt.Errorf("failed to check for %s column: %w", column, err)
		}
		c.logger.Debug("Column check", zap.String("column", column), zap.Bool("exists", exists))
		if !exists {
			report.MissingColumns = append(report.MissingColumns, column)
		}
	}

	return report, nil
}

// extensionExists checks if a Postgres extension is installed.
func (c *Client) extensionExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := c.conn.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = $1)", name,
	).Scan(&exists)
	return exists, err
}

// tableExists checks if the table exists
func (c *Client) tableExists(ctx context.Context, tableName string) (bool, error) {
	schema, table := splitSchemaTableName(tableName)

	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = $1
			AND table_name = $2
		)`

	err := c.conn.QueryRow(ctx, query, schema, table).Scan(&exists)
	return exists, err
}

// splitSchemaTableName splits a schema-qualified table name into schema and table parts
func splitSchemaTableName(tableName string) (string, string) {
	parts := strings.Split(tableName, ".")
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return "public", tableName
}
