package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/xtding233/craft-odds/internal/config"
	"github.com/xtding233/craft-odds/internal/craft"
	"github.com/xtding233/craft-odds/internal/export"
	"github.com/xtding233/craft-odds/internal/refdata"
	"github.com/xtding233/craft-odds/internal/service"
	"github.com/xtding233/craft-odds/internal/storage"
)

type calcConfig struct {
	DataDir string `env:"CRAFTODDS_DATA_DIR" envDefault:"data"`
	DBPath  string `env:"CRAFTODDS_DB"`
	Verbose bool   `env:"CRAFTODDS_VERBOSE"`

	Selections selectionFlag
	Ranks      string
	Options    bool
	Levels     string
	Verify     int
	Seed       uint64
	XLSX       string
}

// selectionFlag collects repeated -select option=level values.
type selectionFlag []craft.Selection

func (s *selectionFlag) String() string {
	parts := make([]string, len(*s))
	for i, sel := range *s {
		parts[i] = sel.Option + "=" + sel.Level
	}
	return strings.Join(parts, ",")
}

func (s *selectionFlag) Set(v string) error {
	i := strings.LastIndex(v, "=")
	if i <= 0 || i == len(v)-1 {
		return fmt.Errorf("want option=level, got %q", v)
	}
	*s = append(*s, craft.Selection{
		Option: strings.TrimSpace(v[:i]),
		Level:  strings.TrimSpace(v[i+1:]),
	})
	return nil
}

func parseConfig(args []string) (calcConfig, error) {
	var cfg calcConfig
	if err := config.ParseEnv(&cfg); err != nil {
		return calcConfig{}, err
	}
	fs := flag.NewFlagSet("craftcalc", flag.ContinueOnError)
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "reference data directory holding tools.yaml")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "read the snapshot from this SQLite file instead")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")
	fs.Var(&cfg.Selections, "select", "wanted option as option=level; repeat up to 3 times")
	fs.StringVar(&cfg.Ranks, "ranks", "", `comma separated ranks to show, or "all"`)
	fs.BoolVar(&cfg.Options, "options", false, "list every option and exit")
	fs.StringVar(&cfg.Levels, "levels", "", "list the levels of an option and exit")
	fs.IntVar(&cfg.Verify, "verify", 0, "cross-check each row with this many simulated trials")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "seed for -verify; 0 uses a crypto random source")
	fs.StringVar(&cfg.XLSX, "xlsx", "", "also write the results to this xlsx file")
	if err := config.ParseArgs(fs, args); err != nil {
		return calcConfig{}, err
	}
	if cfg.Verify < 0 {
		return calcConfig{}, fmt.Errorf("-verify must be >= 0")
	}
	return cfg, nil
}

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		config.Exitf("craftcalc: %v", err)
	}
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(context.Background(), cfg, logger, os.Stdout); err != nil {
		config.Exitf("craftcalc: %v", err)
	}
}

func run(ctx context.Context, cfg calcConfig, logger *slog.Logger, out io.Writer) error {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	odds := service.New(refdata.NewHolder(store), logger)

	if cfg.Options {
		opts, err := odds.ListOptions(ctx)
		if err != nil {
			return err
		}
		for _, o := range opts {
			fmt.Fprintln(out, o)
		}
		return nil
	}
	if cfg.Levels != "" {
		levels, err := odds.ListLevels(ctx, cfg.Levels)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, strings.Join(levels, " "))
		return nil
	}

	sels := []craft.Selection(cfg.Selections)
	if !craft.Selections(sels).Complete() {
		return fmt.Errorf("nothing to compute: pass at least one -select option=level")
	}
	req := service.Request{Selections: sels}
	switch strings.TrimSpace(cfg.Ranks) {
	case "":
	case "all":
		req.AllRanks = true
	default:
		for _, r := range strings.Split(cfg.Ranks, ",") {
			if r = strings.TrimSpace(r); r != "" {
				req.Ranks = append(req.Ranks, r)
			}
		}
	}

	resp, err := odds.Calculate(ctx, req)
	if err != nil {
		return err
	}
	if err := writeTable(out, store, sels, resp, cfg); err != nil {
		return err
	}

	if cfg.XLSX != "" {
		f, err := os.Create(cfg.XLSX)
		if err != nil {
			return err
		}
		if err := export.WriteXLSX(f, sels, resp); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("xlsx written", "path", cfg.XLSX, "rows", len(resp.Rows))
	}
	return nil
}

func openStore(ctx context.Context, cfg calcConfig, logger *slog.Logger) (*refdata.Store, error) {
	if cfg.DBPath == "" {
		return refdata.NewLoader(cfg.DataDir, logger).Load()
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	return db.LoadStore(ctx)
}

func writeTable(out io.Writer, store *refdata.Store, sels []craft.Selection, resp service.Response, cfg calcConfig) error {
	if len(resp.Rows) == 0 {
		_, err := fmt.Fprintln(out, "no tool can roll these options")
		return err
	}

	var rng craft.RandomSource
	if cfg.Verify > 0 {
		rng = craft.DefaultRNG()
		if cfg.Seed != 0 {
			rng = craft.NewSeededRNG(cfg.Seed)
		}
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := "도구\t부위\t종족\t랭크\t확률\t기대 시도\t예상 비용"
	if cfg.Verify > 0 {
		header += "\t시뮬 평균\tP90"
	}
	fmt.Fprintln(tw, header)

	for _, r := range resp.Rows {
		cost := "-"
		if r.ExpectedCost != nil {
			cost = strings.TrimSpace(humanize.Comma(int64(*r.ExpectedCost)) + " " + r.Currency)
		}
		line := strings.Join([]string{r.Tool, r.SlotType, r.Race, r.Rank, r.ProbabilityText, r.TriesText, cost}, "\t")
		if cfg.Verify > 0 {
			line += "\t" + verify(store, r.Context, sels, cfg.Verify, rng)
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

func verify(store *refdata.Store, c craft.Context, sels []craft.Selection, trials int, rng craft.RandomSource) string {
	tool, ok := store.Tool(c.Tool)
	if !ok {
		return "-\t-"
	}
	p, ok := craft.SimParamsFor(tool, c, sels)
	if !ok {
		return "-\t-"
	}
	st, err := craft.Simulate(p, trials, rng)
	if err != nil {
		return "error\t" + err.Error()
	}
	mean := humanize.CommafWithDigits(st.Mean, 2)
	if st.Censored > 0 {
		mean += fmt.Sprintf(" (%d capped)", st.Censored)
	}
	return mean + "\t" + humanize.Comma(int64(st.P90))
}
