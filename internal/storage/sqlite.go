package storage

import (
	_ "github.com/mattn/go-sqlite3"

	"visitorlog/internal/config"
)

type SQLiteProvider struct {
	SQLProvider
}

func NewSQLiteProvider(config *config.Storage) *SQLiteProvider {
	sqlProvider := NewSQLProvider(config, "sqlite3", config.SQLite.Path)
	if sqlProvider == nil {
		return nil
	}
	return &SQLiteProvider{
		SQLProvider: *sqlProvider,
	}
}
