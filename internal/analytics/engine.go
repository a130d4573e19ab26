package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/shopspring/decimal"

	"trading-journal/internal/interfaces"
	"trading-journal/internal/ledger"
	"trading-journal/internal/metrics"
	"trading-journal/internal/types"
)

const defaultCacheSize = 64

// Engine computes journal analytics as a memoized pure function of
// (closed trades, filter, weights, starting equity, today). It is safe for
// concurrent use; results handed out are copies of what is cached.
type Engine struct {
	mu    sync.Mutex
	cache *lru.Cache

	now            func() time.Time
	loc            *time.Location
	startingEquity decimal.Decimal
	weights        types.ConsistencyWeights
}

var _ interfaces.Engine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the zone whose calendar decides "today".
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithCacheSize bounds the number of memoized results. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		if n <= 0 {
			e.cache = nil
			return
		}
		e.cache = lru.New(n)
	}
}

func WithStartingEquity(equity decimal.Decimal) Option {
	return func(e *Engine) { e.startingEquity = equity }
}

func WithWeights(w types.ConsistencyWeights) Option {
	return func(e *Engine) { e.weights = w }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		cache:          lru.New(defaultCacheSize),
		now:            time.Now,
		loc:            time.Local,
		startingEquity: decimal.Zero,
		weights:        types.DefaultConsistencyWeights(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today is the current calendar day in the engine's location.
func (e *Engine) Today() types.Date {
	return types.DateOf(e.now().In(e.loc))
}

func (e *Engine) StartingEquity() decimal.Decimal { return e.startingEquity }

func (e *Engine) Weights() types.ConsistencyWeights { return e.weights }

// Stats returns lifetime statistics, or nil when trades holds no CLOSED trade.
func (e *Engine) Stats(ctx context.Context, trades []types.Trade) (*types.TradingStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	closed := ledger.Partition(trades).Closed
	today := e.Today()
	key := memoKey(opStats, closed, nil, e.startingEquity, e.weights, today)
	if v, ok := e.lookup(key); ok {
		return cloneStats(v.(*types.TradingStats)), nil
	}

	stats := ComputeStats(closed, e.startingEquity, e.weights, today)
	e.store(key, stats)
	return cloneStats(stats), nil
}

// View returns the equity curve of the window selected by filter.
func (e *Engine) View(ctx context.Context, trades []types.Trade, filter types.FilterSpec) (*types.FilteredView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	closed := ledger.Partition(trades).Closed
	today := e.Today()
	key := memoKey(opView, closed, &filter, e.startingEquity, e.weights, today)
	if v, ok := e.lookup(key); ok {
		return cloneView(v.(*types.FilteredView)), nil
	}

	res, err := Resolve(closed, filter, e.startingEquity, today)
	if err != nil {
		return nil, err
	}
	curve := BuildEquityCurve(res.Filtered, res.BaselineEquity, res.Granularity)
	view := &types.FilteredView{
		Period:         filter.Period,
		Granularity:    res.Granularity,
		Data:           curve.Points,
		DateRange:      res.DateRange,
		TradeCount:     len(res.Filtered),
		StartingEquity: res.BaselineEquity.InexactFloat64(),
		EndingEquity:   curve.EndingEquity.InexactFloat64(),
		NetPnL:         curve.EndingEquity.Sub(res.BaselineEquity).InexactFloat64(),
	}
	e.store(key, view)
	return cloneView(view), nil
}

func (e *Engine) lookup(key any) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cache == nil {
		return nil, false
	}
	v, ok := e.cache.Get(key)
	if ok {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	}
	return v, ok
}

func (e *Engine) store(key, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cache != nil {
		e.cache.Add(key, value)
	}
}

// TradesFor returns the closed trades behind an equity point, narrowed by the
// asset and tag selectors of filter. A per-trade point resolves to its trade;
// other points resolve to every trade whose effective date falls in the
// point's span.
func TradesFor(trades []types.Trade, point types.EquityDataPoint, filter types.FilterSpec) []types.Trade {
	candidates := filterByAssetAndTags(closedOnly(trades), filter.Assets, filter.Tags)
	out := make([]types.Trade, 0)
	span := point.Span()
	for _, t := range candidates {
		if point.TradeID != "" {
			if t.ID == point.TradeID {
				out = append(out, t)
			}
			continue
		}
		if span.Contains(t.EffectiveDate()) {
			out = append(out, t)
		}
	}
	sortChronological(out)
	return out
}

func cloneStats(s *types.TradingStats) *types.TradingStats {
	if s == nil {
		return nil
	}
	c := *s
	c.EquityCurve = clonePoints(s.EquityCurve)
	if s.MaxDrawdownDate != nil {
		d := *s.MaxDrawdownDate
		c.MaxDrawdownDate = &d
	}
	return &c
}

func cloneView(v *types.FilteredView) *types.FilteredView {
	c := *v
	c.Data = clonePoints(v.Data)
	if v.DateRange != nil {
		r := *v.DateRange
		c.DateRange = &r
	}
	return &c
}

func clonePoints(points []types.EquityDataPoint) []types.EquityDataPoint {
	out := make([]types.EquityDataPoint, len(points))
	copy(out, points)
	for i := range out {
		if out[i].DateEnd != nil {
			d := *out[i].DateEnd
			out[i].DateEnd = &d
		}
	}
	return out
}
