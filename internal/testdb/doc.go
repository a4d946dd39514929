//go:build integration

// Package testdb provides helpers for tests that run against a real
// PostgreSQL database.
//
// Each test runs inside its own transaction, which is rolled back when the
// test finishes, so tests can use t.Parallel() without cleaning up:
//
//	func TestSomething(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, bcrypt.MinCost, nil)
//	        // ...
//	    })
//	}
//
// The database URL is read from BMI_TEST_DATABASE_URL, then DATABASE_URL.
// Tests are skipped when neither is set.
package testdb
