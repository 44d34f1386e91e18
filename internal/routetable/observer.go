package routetable

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/grapetree"
	"github.com/dmitrymomot/grapetree/core/logger"
)

// LogObserver logs every hook at info level.
type LogObserver struct {
	Logger *slog.Logger
}

func (o LogObserver) Entered(ctx context.Context, name string, parent any, params []grapetree.Token) {
	o.Logger.InfoContext(ctx, "enter",
		logger.Key("route", name),
		slog.Any("parent", parent),
		slog.Any("params", params))
}

func (o LogObserver) Exited(ctx context.Context, name string, parent any, distance int) {
	o.Logger.InfoContext(ctx, "exit",
		logger.Key("route", name),
		slog.Any("parent", parent),
		logger.Distance(distance))
}

func (o LogObserver) Caught(ctx context.Context, name string, err error, info grapetree.ErrorInfo) {
	o.Logger.WarnContext(ctx, "caught",
		logger.Key("route", name),
		logger.Stage(string(info.Stage)),
		logger.Segment(info.Location),
		logger.Error(err))
}
