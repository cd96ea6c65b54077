package config

import (
	"flag"
	"fmt"
	"time"
)

// Server modes.
const (
	ModeHTTP = "http"
	ModeGRPC = "grpc"
	ModeMCP  = "mcp"
)

// Server holds cmd/server configuration.
type Server struct {
	Mode          string        `env:"CRAFTODDS_MODE" envDefault:"http"`
	DataDir       string        `env:"CRAFTODDS_DATA_DIR" envDefault:"data"`
	DBPath        string        `env:"CRAFTODDS_DB"`
	HTTPAddr      string        `env:"CRAFTODDS_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr      string        `env:"CRAFTODDS_GRPC_ADDR" envDefault:":9090"`
	Watch         bool          `env:"CRAFTODDS_WATCH" envDefault:"true"`
	WatchInterval time.Duration `env:"CRAFTODDS_WATCH_INTERVAL" envDefault:"2s"`
	Verbose       bool          `env:"CRAFTODDS_VERBOSE"`

	// ImportDB copies the data directory into DBPath and exits.
	ImportDB bool
}

// ParseServer parses environment and flags into Server.
func ParseServer(fs *flag.FlagSet, args []string) (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "transport to serve: http, grpc or mcp")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "reference data directory holding tools.yaml")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite snapshot to serve from instead of the data directory")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC listen address")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload the data directory when its files change")
	fs.DurationVar(&cfg.WatchInterval, "watch-interval", cfg.WatchInterval, "polling interval of -watch")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")
	fs.BoolVar(&cfg.ImportDB, "import-db", false, "import the data directory into -db and exit")
	if err := ParseArgs(fs, args); err != nil {
		return Server{}, err
	}
	if err := cfg.validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (c Server) validate() error {
	switch c.Mode {
	case ModeHTTP, ModeGRPC, ModeMCP:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.ImportDB && c.DBPath == "" {
		return fmt.Errorf("-import-db requires -db")
	}
	if c.Watch && c.WatchInterval <= 0 {
		return fmt.Errorf("watch interval must be > 0, got %s", c.WatchInterval)
	}
	return nil
}
