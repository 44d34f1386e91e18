// Package logger provides structured logging utilities built on Go's standard slog package.
//
// New builds a *slog.Logger from options:
//
//	log := logger.New(
//		logger.WithDevelopment("grapetree"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log := logger.New(
//		logger.WithProduction("grapetree"),
//		logger.WithOutput(os.Stderr),
//	)
//
// Discard returns a logger that drops everything; libraries use it as their default.
//
// # Attribute Helpers
//
// Attribute helpers return an empty slog.Attr for nil or empty input, which slog
// omits from the record. This allows calls without explicit nil checks:
//
//	log.Info("transition done",
//		logger.Path(cur),
//		logger.From(prev),
//		logger.Duration(time.Since(start)),
//		logger.Error(err), // dropped when err is nil
//	)
//
// Routing helpers (Path, From, Stage, Segment, Distance, Depth) share keys across
// the router and the CLI so log records can be filtered uniformly.
package logger
