// Package pg wires PostgreSQL into bluebird through a pgx connection pool.
//
// Connect opens and pings a pool with retries. Migrate applies the embedded
// goose migrations. Healthcheck feeds the readiness probe. The error helpers
// classify pgx and SQLSTATE errors so repositories can map them to domain
// errors without importing pgconn:
//
//	if pg.IsDuplicateKeyError(err) {
//	    return user.ErrUsernameTaken
//	}
package pg
