package store

import "strings"

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

// DBConfig selects and opens the archive. An empty Type means DetectType(DSN).
type DBConfig struct {
	DSN           string
	Type          DatabaseType
	MigrationsDir string
}

// DetectType picks the driver from the DSN scheme.
func DetectType(dsn string) DatabaseType {
	if strings.HasPrefix(dsn, "postgres") {
		return DBTypePostgres
	}
	return DBTypeSQLite
}
