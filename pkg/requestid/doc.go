// Package requestid propagates a per-request identifier through the X-Request-ID
// header and the request context.
//
// Incoming ids are kept when they are at most 128 characters of [a-zA-Z0-9_-];
// anything else is replaced with a fresh UUID. The id is echoed in the response
// and LoggerExtractor adds it to every record logged with the request context:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	router.Use(requestid.Middleware)
package requestid
