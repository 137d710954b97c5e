// Package vocabulary implements saving, listing, reviewing and deleting the
// words a user studies. It computes schedules with the srs package, persists
// them through store.VocabularyStore and publishes study events for progress
// tracking once a write has committed.
package vocabulary
