// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Every store exposes WithTx so a service can compose several stores inside
// one transaction opened through RunInTransaction or
// RunInTransactionWithOptions.
package store
