package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	// import sqlite driver.
	_ "github.com/mattn/go-sqlite3"

	"github.com/GustavoCaso/movienight/internal/config"
	"github.com/GustavoCaso/movienight/internal/storage"
)

const memorySource = ":memory:"

type sqliteStorage struct {
	db *sql.DB
}

// New opens the database holding presets and login sessions, creating its
// directory when needed. The pragmas are passed in the DSN so every pooled
// connection gets them.
func New(dbConfig config.DBConfig) (storage.Storage, error) {
	if err := ensureDir(dbConfig.Source); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dataSource(dbConfig))
	if err != nil {
		return nil, err
	}

	if dbConfig.MaxOpenConns > 0 {
		db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	}
	if dbConfig.MaxIdleConns > 0 {
		db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	}
	if dbConfig.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)
	}

	if err = db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", dbConfig.Source, err)
	}

	return &sqliteStorage{db: db}, nil
}

// dataSource appends the go-sqlite3 connection parameters to the source.
func dataSource(dbConfig config.DBConfig) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	if dbConfig.JournalMode != "" {
		params.Set("_journal_mode", dbConfig.JournalMode)
	}
	if dbConfig.BusyTimeout > 0 {
		params.Set("_busy_timeout", strconv.Itoa(dbConfig.BusyTimeout))
	}

	separator := "?"
	if strings.Contains(dbConfig.Source, "?") {
		separator = "&"
	}
	return dbConfig.Source + separator + params.Encode()
}

func ensureDir(source string) error {
	if source == "" || source == memorySource || strings.HasPrefix(source, "file:") {
		return nil
	}

	dir := filepath.Dir(source)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}

func (s *sqliteStorage) Close() error {
	return s.db.Close()
}
