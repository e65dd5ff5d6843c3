package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInitialSchema(t *testing.T) {
	schema, err := GetInitialSchema()
	require.NoError(t, err)

	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS tenants")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS scheduled_messages")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS clients")
}

func TestGetInitialSchemaMissingDir(t *testing.T) {
	original := MigrationsDir
	MigrationsDir = "nonexistent/migrations"
	defer func() { MigrationsDir = original }()

	_, err := GetInitialSchema()
	assert.Error(t, err)
}
