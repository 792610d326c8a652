// Package logger builds the *slog.Logger used across bindkit and provides
// attribute helpers that keep log keys consistent.
//
// New creates a logger from functional options: output format (json or
// text), minimum level, static attributes, and ContextExtractor callbacks
// that copy values out of the context passed to each log call.
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatText),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	log.WarnContext(ctx, "field skipped",
//	    logger.Component("convert"),
//	    logger.Field("user.address"),
//	    logger.Error(err),
//	)
//
// Error and Errors return an empty attribute for nil errors, so callers do
// not need a nil check. Nop returns a logger that discards everything and is
// the default for components constructed without one.
package logger
