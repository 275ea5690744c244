package main

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/tasktrail-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrationsRejectsUnknownCommand(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, log := logger.NewTestLogger(t)
	err = runMigrations(context.Background(), db, "drop-everything", log)
	assert.EqualError(t, err, `unsupported migration command "drop-everything"`)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestSlogGooseLogger(t *testing.T) {
	logBuf, log := logger.NewTestLogger(t)
	l := &slogGooseLogger{logger: log}

	l.Printf("OK   %s (%s)\n", "20250101000001_create_users.sql", "12ms")
	l.Fatalf("failed to run migration: %v", "boom")

	logger.AssertLogField(t, logBuf, "msg", "OK   20250101000001_create_users.sql (12ms)")
	logger.AssertLogField(t, logBuf, "level", "ERROR")
	logger.AssertLogContains(t, logBuf, "failed to run migration: boom")
}
