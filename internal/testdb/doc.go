//go:build integration

// Package testdb provides Postgres helpers for integration tests.
//
// Tests that only need isolation run inside WithTx, which rolls back when the
// test finishes. Tests that exercise concurrency across connections commit
// real data and call ResetTables first.
//
// The database is taken from DATABASE_URL (or TASKTRAIL_TEST_DATABASE_URL);
// tests are skipped when neither is set.
package testdb
