package analyticsobs

import (
	"context"
	"strings"

	"trading-journal/internal/interfaces"
	"trading-journal/internal/logger"
	"trading-journal/internal/metrics"
	"trading-journal/internal/trace"
	"trading-journal/internal/types"
)

// observableEngine wraps an Engine with logging, tracing and metrics.
type observableEngine struct {
	engine interfaces.Engine
}

// Compile-time interface check
var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Stats(ctx context.Context, trades []types.Trade) (*types.TradingStats, error) {
	ctx, span := trace.StartSpan(ctx, "analytics.Stats")
	defer span.End()

	const op = "stats"
	metrics.RecomputationsTotal.WithLabelValues(op).Inc()
	timer := logger.StartOperation(ctx, "analytics.Stats.compute", "trades", len(trades))

	stats, err := oe.engine.Stats(timer.Context(), trades)
	metrics.RecomputeDuration.WithLabelValues(op).Observe(timer.Elapsed().Seconds())
	if err != nil {
		timer.EndWithError(err)
		logger.ErrorWithErrSkip(ctx, 1, "Stats computation failed", err, "trades", len(trades))
		return nil, err
	}
	timer.End()

	if stats == nil {
		metrics.EmptyResultsTotal.WithLabelValues(op).Inc()
		logger.InfoSkip(ctx, 1, "No closed trades, stats not available", "trades", len(trades))
		return nil, nil
	}

	logger.InfoSkip(ctx, 1, "Stats computed",
		"closed_trades", stats.TotalTrades,
		"net_pnl", stats.AllTime.PnL,
		"max_drawdown", stats.MaxDrawdown,
		"consistency_score", stats.Consistency.Score,
		"grade", string(stats.Consistency.Grade),
	)
	return stats, nil
}

func (oe *observableEngine) View(ctx context.Context, trades []types.Trade, filter types.FilterSpec) (*types.FilteredView, error) {
	ctx, span := trace.StartSpan(ctx, "analytics.View")
	defer span.End()

	const op = "view"
	metrics.RecomputationsTotal.WithLabelValues(op).Inc()
	timer := logger.StartOperation(ctx, "analytics.View.compute",
		"period", string(filter.Period),
		"tags", strings.Join(filter.Tags, ","),
	)

	view, err := oe.engine.View(timer.Context(), trades, filter)
	metrics.RecomputeDuration.WithLabelValues(op).Observe(timer.Elapsed().Seconds())
	if err != nil {
		timer.EndWithError(err)
		logger.ErrorWithErrSkip(ctx, 1, "Filtered view failed", err, "period", string(filter.Period))
		return nil, err
	}
	timer.End("points", len(view.Data))

	if view.TradeCount == 0 {
		metrics.EmptyResultsTotal.WithLabelValues(op).Inc()
	}
	logger.InfoSkip(ctx, 1, "Filtered view computed",
		"period", string(filter.Period),
		"granularity", string(view.Granularity),
		"trades", view.TradeCount,
		"points", len(view.Data),
		"starting_equity", view.StartingEquity,
		"net_pnl", view.NetPnL,
	)
	return view, nil
}
