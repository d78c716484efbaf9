// Package logger builds the process-wide *slog.Logger and holds the attribute
// constructors used across bluebird so keys stay consistent.
//
// New takes functional options. WithEnvironment picks text/debug output for
// development and JSON/info output for staging and production. Context
// extractors registered with WithContextExtractors or WithContextValue add
// request-scoped attributes such as the request id at log time.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, cfg.Name),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "user logged in", logger.UserID(id))
//
// Attribute helpers that take an error or an id return an empty slog.Attr for
// nil or empty input, so callers can pass them without a nil check.
package logger
