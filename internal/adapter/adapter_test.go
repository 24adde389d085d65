package adapter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry/pkg/core"
)

func TestRegistry(t *testing.T) {
	names := Available()
	assert.Contains(t, names, "duckdb")
	assert.Contains(t, names, "postgres")

	a, err := New("duckdb")
	require.NoError(t, err)
	assert.Equal(t, "duckdb", a.Name())

	_, err = New("oracle")
	assert.Error(t, err)
}

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   core.AdapterConfig
		expected string
	}{
		{
			name: "basic connection",
			config: core.AdapterConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "testdb",
				Username: "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable user=user password=pass",
		},
		{
			name: "with custom sslmode",
			config: core.AdapterConfig{
				Host:     "prod.example.com",
				Port:     5432,
				Database: "proddb",
				Username: "admin",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=prod.example.com port=5432 dbname=proddb sslmode=require user=admin",
		},
		{
			name: "defaults",
			config: core.AdapterConfig{
				Database: "mydb",
			},
			expected: "host=localhost port=5432 dbname=mydb sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildPostgresDSN(tt.config))
		})
	}
}

func TestBaseAdapter_ListTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT table_name`).
		WithArgs("staging").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).
			AddRow("drafts").
			AddRow("orders"))

	a := &baseSQLAdapter{db: db}
	tables, err := a.ListTables(context.Background(), "staging")
	require.NoError(t, err)
	assert.Equal(t, []string{"drafts", "orders"}, tables)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseAdapter_ListSchemas(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT DISTINCT table_schema`).
		WillReturnRows(sqlmock.NewRows([]string{"table_schema"}).
			AddRow("main").
			AddRow("staging").
			AddRow("  "))

	a := &baseSQLAdapter{db: db}
	schemas, err := a.ListSchemas(context.Background())
	require.NoError(t, err)

	// Blank schema names from odd catalogs are skipped.
	assert.Equal(t, []string{"main", "staging"}, schemas)
}

func TestBaseAdapter_GetTableMetadata(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT column_name, data_type`).
		WithArgs("staging", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}).
			AddRow("id", "BIGINT", "NO", 1).
			AddRow("note", "VARCHAR", "YES", 2))

	a := &baseSQLAdapter{db: db}
	meta, err := a.GetTableMetadata(context.Background(), "staging.orders")
	require.NoError(t, err)

	require.Len(t, meta.Columns, 2)
	assert.Equal(t, "staging", meta.Schema)
	assert.Equal(t, "orders", meta.Name)
	assert.False(t, meta.Columns[0].Nullable)
	assert.True(t, meta.Columns[1].Nullable)
}

func TestBaseAdapter_NotConnected(t *testing.T) {
	a := &baseSQLAdapter{}

	_, err := a.ListSchemas(context.Background())
	assert.Error(t, err)

	_, err = a.ListTables(context.Background(), "main")
	assert.Error(t, err)
}
