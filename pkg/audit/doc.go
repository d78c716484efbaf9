// Package audit records security-relevant account events.
//
// A Logger stamps each event with an id, time, request id and client
// address taken from the context, then hands it to a Storage. Events are
// append-only; PostgresStorage writes them to the auth_events table and
// MemoryStorage keeps them in process for tests.
//
//	trail := audit.NewLogger(audit.NewPostgresStorage(pool),
//		audit.WithRequestIDExtractor(requestid.FromContext),
//		audit.WithIPExtractor(clientip.FromContext),
//	)
//	_ = trail.Log(ctx, audit.ActionLogin, audit.WithUserID(u.ID))
package audit
