package config

import (
	"flag"
	"io"
	"testing"
	"time"
)

type testConfig struct {
	Address string `env:"CRAFTODDS_TEST_ADDRESS" envDefault:"127.0.0.1:8080"`
	Mode    string `env:"CRAFTODDS_TEST_MODE" envDefault:"server"`
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseConfigFromArgsReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CRAFTODDS_TEST_ADDRESS", "env:9000")
	t.Setenv("CRAFTODDS_TEST_MODE", "env-mode")

	cfg := testConfig{}
	fs := newFlagSet()
	fs.StringVar(&cfg.Address, "address", "", "address")
	fs.StringVar(&cfg.Mode, "mode", "", "mode")
	if err := ParseConfigFromArgs(&cfg, fs, []string{"-address", "flag:9002"}); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfg.Address != "flag:9002" {
		t.Fatalf("expected parsed flag address, got %q", cfg.Address)
	}
	if cfg.Mode != "env-mode" {
		t.Fatalf("expected env mode, got %q", cfg.Mode)
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestParseServerDefaults(t *testing.T) {
	cfg, err := ParseServer(newFlagSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != ModeHTTP || cfg.DataDir != "data" || cfg.HTTPAddr != ":8080" || !cfg.Watch {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.WatchInterval != 2*time.Second {
		t.Fatalf("watch interval %s", cfg.WatchInterval)
	}
}

func TestParseServerEnvThenFlags(t *testing.T) {
	t.Setenv("CRAFTODDS_MODE", "grpc")
	t.Setenv("CRAFTODDS_GRPC_ADDR", ":7000")
	t.Setenv("CRAFTODDS_WATCH", "false")

	cfg, err := ParseServer(newFlagSet(), []string{"-grpc-addr", ":7001"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != ModeGRPC || cfg.GRPCAddr != ":7001" || cfg.Watch {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestParseServerRejectsBadInput(t *testing.T) {
	cases := [][]string{
		{"-mode", "carrier-pigeon"},
		{"-import-db"},
		{"-watch-interval", "0s"},
	}
	for _, args := range cases {
		if _, err := ParseServer(newFlagSet(), args); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
	t.Setenv("CRAFTODDS_WATCH_INTERVAL", "soon")
	if _, err := ParseServer(newFlagSet(), nil); err == nil {
		t.Fatalf("malformed env duration must fail")
	}
}
