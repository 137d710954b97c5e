// Package domain contains the core business entities of the vocabulary
// scheduler: catalog items, per-user schedule state, daily statistics and
// progress summaries. It is independent of any storage or delivery mechanism.
package domain
