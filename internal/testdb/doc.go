// Package testdb provides utilities for database integration tests.
//
// Each test runs in its own transaction, which is rolled back when the test
// completes, so tests can share one database and run in parallel:
//
//	func TestMyFeature(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.Open(t) // skips when SCRY_TEST_DATABASE_URL is not set
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        vocab := postgres.NewPostgresVocabularyStore(tx, nil)
//	        // ...
//	    })
//	}
//
// Open applies the embedded migrations before returning.
package testdb
