// Package clientip resolves the address of the client behind a request.
//
// The direct peer address is used unless it belongs to a trusted proxy, in
// which case CF-Connecting-IP, X-Forwarded-For and X-Real-IP are consulted
// in that order. Middleware stores the result in the request context and
// LoggerExtractor attaches it to log records:
//
//	resolver, err := clientip.New("10.0.0.0/8")
//	r.Use(resolver.Middleware)
//	log := logger.New(logger.WithContextExtractors(clientip.LoggerExtractor()))
package clientip
