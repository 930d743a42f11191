// Package logger builds *slog.Logger instances with environment presets,
// attribute helpers and attributes injected from context.Context.
//
// New applies Option functions; NewFromConfig does the same from a Config
// populated through pkg/config (LOG_LEVEL, LOG_FORMAT, APP_ENV, SERVICE_NAME).
// When extractors are registered the handler runs each of them per record,
// e.g. to add the request id.
//
// # Usage
//
//	log, err := logger.NewFromConfig(cfg,
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	if err != nil {
//	    panic(err)
//	}
//	logger.SetAsDefault(log)
//
//	log.WarnContext(ctx, "session auto-touch failed",
//	    logger.SessionID(id),
//	    logger.Error(err),
//	)
//
// Attribute helpers keep key names consistent. Error and Errors return an
// empty attribute for nil errors, so they need no nil check at the call site.
// SessionID only writes a prefix of the id.
package logger
