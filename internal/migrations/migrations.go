package migrations

import (
	"fmt"
	"os"
	"path/filepath"
)

const schemaFile = "001_initial_schema.sql"

// MigrationsDir can be overridden in tests or by the application
var MigrationsDir = "scripts/migrations"

// GetInitialSchema returns the initial database schema. The schema file is
// resolved relative to the working directory, which differs between the
// binary and package tests.
func GetInitialSchema() (string, error) {
	searchPaths := []string{
		filepath.Join(MigrationsDir, schemaFile),
		filepath.Join("..", MigrationsDir, schemaFile),
		filepath.Join("..", "..", MigrationsDir, schemaFile),
	}

	for _, path := range searchPaths {
		content, err := os.ReadFile(path)
		if err == nil {
			return string(content), nil
		}
	}

	return "", fmt.Errorf("could not find %s under %s", schemaFile, MigrationsDir)
}
