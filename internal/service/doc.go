// Package service contains the task-management use cases. It orchestrates the
// stores defined in internal/store inside explicit transactions and owns the
// concurrency rules of the core:
//
//   - task creation validates the parent hierarchy before any row is written
//   - updates are optimistic conditional writes keyed on the task version
//   - assignments take an exclusive row lock inside a serializable transaction
//   - every version bump writes exactly one audit record in the same transaction
//   - user history is read from a single repeatable-read snapshot
//
// Services receive their dependencies through constructor injection and hold
// no mutable state, so one instance is shared by all requests.
package service
