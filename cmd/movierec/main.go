package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/20ns/movierec-sub005/pkg/config"
	"github.com/20ns/movierec-sub005/pkg/domain"
	"github.com/20ns/movierec-sub005/pkg/provider"
	"github.com/20ns/movierec-sub005/pkg/recommend"
	"github.com/20ns/movierec-sub005/pkg/repository"
	"github.com/20ns/movierec-sub005/pkg/scheduler"
	"github.com/20ns/movierec-sub005/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`
	Fetch  string `short:"f" long:"fetch" choice:"daily" choice:"weekly" choice:"full" description:"run a single fetch for the schedule type and exit"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var secrets []string
	if cfg.Provider.APIKey != "" {
		secrets = append(secrets, cfg.Provider.APIKey)
	}
	setupLog(opts.Debug, secrets...)
	log.Printf("[INFO] starting movierec version %s", revision)

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if e := repos.Close(); e != nil {
			log.Printf("[WARN] failed to close database: %v", e)
		}
	}()

	provCfg := cfg.GetProviderConfig()
	client := provider.New(provider.Config{
		BaseURL:     provCfg.BaseURL,
		APIKey:      provCfg.APIKey,
		Timeout:     provCfg.Timeout,
		RateLimit:   provCfg.RateLimit,
		Burst:       provCfg.Burst,
		MaxAttempts: provCfg.MaxAttempts,
	})

	fetchCfg := cfg.GetFetchConfig()
	orch := scheduler.New(client, repos.Media, repos.Feature, scheduler.Config{
		MaxWorkers: fetchCfg.MaxWorkers,
		PageCap:    fetchCfg.PageCap,
		RunBudget:  fetchCfg.RunBudget,
	})

	if opts.Fetch != "" {
		return runFetch(ctx, orch, opts.Fetch)
	}

	recCfg := cfg.GetRecommendConfig()
	svc := recommend.NewService(repos.Media, repos.Feature, recommend.Config{
		DefaultLanguage:   recCfg.DefaultLanguage,
		LanguageAllowList: recCfg.LanguageAllowList,
		FreshnessWindow:   recCfg.FreshnessWindow,
		MaxCandidates:     recCfg.MaxCandidates,
		MaxGenreShare:     recCfg.MaxGenreShare,
	})

	srv := server.New(cfg, orch, svc, revision, opts.Debug)
	return srv.Run(ctx)
}

// runFetch executes a single fetch run and prints the result to stdout
func runFetch(ctx context.Context, orch *scheduler.Orchestrator, scheduleType string) error {
	schedule, err := domain.ParseScheduleType(scheduleType)
	if err != nil {
		return err
	}

	result := orch.Run(ctx, schedule)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal fetch result: %w", err)
	}
	fmt.Println(string(out))

	if result.Status == domain.FetchFailed {
		return fmt.Errorf("fetch failed: %s", result.Error)
	}
	return nil
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
