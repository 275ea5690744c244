// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
// It handles query execution, row locking, SQLSTATE translation and data
// mapping between domain entities and database records.
//
// The schema lives in the migrations subpackage and is applied with goose.
package postgres
