// Package store defines the persistence interfaces for the vocabulary
// catalog, per-user schedules, and study statistics, together with the
// shared error values and transaction helpers their implementations use.
package store
