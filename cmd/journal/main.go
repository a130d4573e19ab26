package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"trading-journal/internal/ledger"
	"trading-journal/internal/logger"
	"trading-journal/internal/report"
	"trading-journal/internal/store"
	"trading-journal/internal/trace"
	"trading-journal/internal/types"
)

func must(ctx context.Context, msg string, err error) {
	if err != nil {
		logger.ErrorWithErr(ctx, msg, err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
		os.Exit(1)
	}
}

func main() {
	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		_ = trace.Shutdown(shutdownCtx)
	}()

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "add" {
		runAdd(ctx, args[1:])
		return
	}
	if len(args) > 0 && args[0] == "report" {
		args = args[1:]
	}
	runReport(ctx, args)
}

// reportOptions are the command line selectors of a report run.
type reportOptions struct {
	period      string
	tags        string
	assets      string
	from, to    string
	daysBack    int
	tradesBack  int
	granularity string
}

func runReport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	csvOut := fs.String("csv", "", "write the window's equity curve to this CSV file (\"auto\" for the report dir)")
	jsonOut := fs.String("json", "", "write lifetime stats to this JSON file")
	metricsAddr := fs.String("metrics", "", "serve Prometheus metrics on this address until interrupted")
	var opts reportOptions
	fs.StringVar(&opts.period, "period", "all", "all, ytd, mtd, wtd, daily or custom")
	fs.StringVar(&opts.tags, "tags", "", "comma separated tags; trades must carry all of them")
	fs.StringVar(&opts.assets, "assets", "", "comma separated asset types; trades may match any")
	fs.StringVar(&opts.from, "from", "", "custom range start YYYY-MM-DD")
	fs.StringVar(&opts.to, "to", "", "custom range end YYYY-MM-DD")
	fs.IntVar(&opts.daysBack, "days", -1, "custom window: last N days")
	fs.IntVar(&opts.tradesBack, "trades", -1, "custom window: last N trades")
	fs.StringVar(&opts.granularity, "granularity", "", "trade, day, week or month")
	_ = fs.Parse(args)

	cfg, err := loadConfig(ctx, *configPath)
	must(ctx, "load config", err)
	if *metricsAddr == "" {
		*metricsAddr = cfg.Metrics.Addr
	}
	serveMetrics(ctx, *metricsAddr)

	filter, err := buildFilter(opts)
	must(ctx, "invalid filter", err)

	src, closeLedger, err := openLedger(ctx, cfg)
	must(ctx, "open ledger", err)
	defer closeLedger()

	trades, err := src.LoadTrades(ctx)
	must(ctx, "load trades", err)

	eng, err := initializeEngine(cfg)
	must(ctx, "initialize engine", err)

	stats, err := eng.Stats(ctx, trades)
	must(ctx, "compute stats", err)
	view, err := eng.View(ctx, trades, filter)
	must(ctx, "compute view", err)

	report.Summary(os.Stdout, stats, view)

	if *csvOut != "" {
		path := *csvOut
		if path == "auto" {
			loc, _ := cfg.Location()
			path = report.EquityCSVPath(cfg.Report.Dir, filter.Period, types.DateOf(time.Now().In(loc)))
		}
		must(ctx, "write equity csv", report.WriteEquityCSV(path, view))
		logger.Info(ctx, "Equity CSV written", "path", path)
	}
	if *jsonOut != "" {
		must(ctx, "write stats json", report.WriteStatsJSON(*jsonOut, stats))
		logger.Info(ctx, "Stats JSON written", "path", *jsonOut)
	}

	if *metricsAddr != "" {
		<-ctx.Done()
	}
}

// buildFilter turns command line selectors into a validated FilterSpec.
func buildFilter(o reportOptions) (types.FilterSpec, error) {
	period, err := types.ParsePeriod(o.period)
	if err != nil {
		return types.FilterSpec{}, err
	}
	f := types.FilterSpec{Period: period, Tags: splitList(o.tags)}
	for _, a := range splitList(o.assets) {
		at, ok := types.ParseAssetType(a)
		if !ok {
			return f, fmt.Errorf("%w: unknown asset type %q", types.ErrInvalidFilter, a)
		}
		f.Assets = append(f.Assets, at)
	}
	if o.granularity != "" {
		g, err := types.ParseGranularity(o.granularity)
		if err != nil {
			return f, err
		}
		f.Granularity = g
	}

	if o.from != "" || o.to != "" {
		start, err := types.ParseDate(o.from)
		if err != nil {
			return f, fmt.Errorf("%w: -from: %v", types.ErrInvalidFilter, err)
		}
		end, err := types.ParseDate(o.to)
		if err != nil {
			return f, fmt.Errorf("%w: -to: %v", types.ErrInvalidFilter, err)
		}
		f.DateRange = &types.DateRange{Start: start, End: end}
	}
	if o.daysBack >= 0 {
		n := o.daysBack
		f.DaysBack = &n
	}
	if o.tradesBack >= 0 {
		n := o.tradesBack
		f.TradesBack = &n
	}
	if f.Period != types.PeriodCustom && (f.DateRange != nil || f.DaysBack != nil || f.TradesBack != nil) {
		f.Period = types.PeriodCustom
	}
	return f, f.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// runAdd appends a trade to the JSONL journal.
func runAdd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	date := fs.String("date", "", "open date YYYY-MM-DD (default today)")
	closeDate := fs.String("close", "", "close date YYYY-MM-DD for swing trades")
	at := fs.String("time", "", "intraday time HH:MM")
	ticker := fs.String("ticker", "", "symbol")
	direction := fs.String("direction", "LONG", "LONG or SHORT")
	asset := fs.String("asset", "STOCK", "STOCK, OPTIONS, FUTURES, CRYPTO or FOREX")
	pnl := fs.String("pnl", "", "realized profit/loss; leave empty for an open trade")
	tags := fs.String("tags", "", "comma separated tags")
	notes := fs.String("notes", "", "free text")
	_ = fs.Parse(args)

	cfg, err := loadConfig(ctx, *configPath)
	must(ctx, "load config", err)
	if cfg.Ledger.Source != store.SourceJSONL {
		must(ctx, "add trade", fmt.Errorf("adding trades needs a JSONL ledger, configured source is %s", cfg.Ledger.Source))
	}

	t := types.Trade{
		Time:      *at,
		Ticker:    strings.ToUpper(*ticker),
		Direction: types.Direction(strings.ToUpper(*direction)),
		Tags:      splitList(*tags),
		Notes:     *notes,
		Status:    types.StatusOpen,
	}
	loc, _ := cfg.Location()
	t.Date = types.DateOf(time.Now().In(loc))
	if *date != "" {
		t.Date, err = types.ParseDate(*date)
		must(ctx, "parse -date", err)
	}
	if *closeDate != "" {
		cd, err := types.ParseDate(*closeDate)
		must(ctx, "parse -close", err)
		t.CloseDate = &cd
	}
	a, ok := types.ParseAssetType(*asset)
	if !ok {
		must(ctx, "parse -asset", fmt.Errorf("unknown asset type %q", *asset))
	}
	t.AssetType = a
	if *pnl != "" {
		t.PnL, err = decimal.NewFromString(*pnl)
		must(ctx, "parse -pnl", err)
		t.Status = types.StatusClosed
	}

	saved, err := ledger.NewJSONLFile(cfg.Ledger.Path).Append(ctx, t)
	must(ctx, "append trade", err)
	fmt.Printf("Recorded %s %s %s (%s)\n", saved.ID, saved.Ticker, saved.Status, saved.EffectiveDate())
}
