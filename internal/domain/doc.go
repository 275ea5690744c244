// Package domain contains the core business entities of the task tracker:
// users, tasks with their parent/child hierarchy, and the immutable audit
// records that capture every task revision. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
