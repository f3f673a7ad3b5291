package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vilaca/github-issues/internal/api"
	"github.com/vilaca/github-issues/internal/api/github"
	"github.com/vilaca/github-issues/internal/api/gitlab"
	"github.com/vilaca/github-issues/internal/config"
	"github.com/vilaca/github-issues/internal/domain"
	"github.com/vilaca/github-issues/internal/export"
	"github.com/vilaca/github-issues/internal/logger"
	"github.com/vilaca/github-issues/internal/service"
	"github.com/vilaca/github-issues/internal/triage"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// options are the command-line arguments layered over config.Config.
type options struct {
	token      string
	owner      string
	components []string
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Printf("cannot initialize config: %v", err)
		return 1
	}

	opts, err := parseArgs(cfg, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		stdlog.Printf("cannot initialize logger: %v", err)
		return 1
	}
	defer log.Sync()
	log = logger.WithRunID(log)

	pipeline, err := buildPipeline(cfg, opts, log)
	if err != nil {
		log.Error("cannot initialize export", zap.Error(err))
		return 1
	}

	log.Info("exporting issues",
		zap.String("platform", cfg.Platform),
		zap.String("owner", opts.owner),
		zap.Strings("components", opts.components),
		zap.String("output", cfg.Output))

	summary, err := pipeline.Run(ctx, opts.owner, opts.components)
	if err != nil {
		log.Error("export failed", zap.Error(err))
		return 1
	}

	log.Info("export completed",
		zap.Int("repositories", summary.Repositories),
		zap.Int("fetched", summary.Fetched),
		zap.Int("pull_requests", summary.PullRequests),
		zap.Int("exported", summary.Exported),
		zap.String("output", cfg.Output))
	return 0
}

// parseArgs applies flags to cfg and returns the positional arguments:
// <token> <owner> [component...]. A token of "-" keeps the configured token.
func parseArgs(cfg *config.Config, args []string) (*options, error) {
	fs := flag.NewFlagSet("github-issues", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printUsage(fs) }

	output := cfg.Output
	fs.StringVar(&output, "o", output, "output file (- for stdout)")
	fs.StringVar(&output, "output", output, "output file (- for stdout)")
	platform := fs.String("platform", cfg.Platform, "issue tracker: github|gitlab")
	baseURL := fs.String("base-url", "", "API base URL (defaults per platform)")
	rulesFile := fs.String("rules", cfg.RulesFile, "YAML triage rules file")
	delimiter := fs.String("delimiter", cfg.Delimiter, "field delimiter: comma|tab|semicolon|<char>")
	hyperlinks := fs.Bool("hyperlinks", cfg.Hyperlinks, "write ids as spreadsheet HYPERLINK formulas")
	logLevel := fs.String("log-level", cfg.Logger.Level, "log level: debug|info|warn|error")
	pageSize := fs.Int("page-size", cfg.PageSize, "issues requested per page (max 100)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Output = output
	cfg.Platform = *platform
	cfg.RulesFile = *rulesFile
	cfg.Delimiter = *delimiter
	cfg.Hyperlinks = *hyperlinks
	cfg.Logger.Level = *logLevel
	cfg.PageSize = *pageSize
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if *baseURL != "" {
		cfg.SetBaseURL(*baseURL)
	}

	positional := fs.Args()
	if len(positional) < 2 {
		fs.Usage()
		return nil, errors.New("missing <token> and <owner> arguments")
	}

	opts := &options{
		token:      positional[0],
		owner:      positional[1],
		components: positional[2:],
	}
	if opts.token != "-" {
		cfg.SetToken(opts.token)
	}
	if cfg.Token() == "" {
		return nil, fmt.Errorf("no access token: pass <token> or set %s", tokenEnv(cfg.Platform))
	}
	return opts, nil
}

// buildPipeline wires up all dependencies and returns the configured pipeline.
// This is the composition root where all dependencies are created and injected.
func buildPipeline(cfg *config.Config, opts *options, log *zap.Logger) (*service.Pipeline, error) {
	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	if len(rules.Maintainers) > 0 {
		log.Info("maintainer allowlist enabled", zap.Strings("maintainers", rules.Maintainers))
	}

	delimiter, err := export.ParseDelimiter(cfg.Delimiter)
	if err != nil {
		return nil, err
	}
	exportOpts := export.Options{Delimiter: delimiter, Hyperlinks: cfg.Hyperlinks}

	var sink service.Sink
	if cfg.Output == "-" {
		sink = export.NewCSVSink(os.Stdout, exportOpts)
	} else {
		sink = export.NewFileSink(cfg.Output, exportOpts)
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	clientCfg := api.ClientConfig{
		BaseURL:  cfg.BaseURL(),
		Token:    cfg.Token(),
		PageSize: cfg.PageSize,
	}

	var source api.IssueSource
	switch cfg.Platform {
	case domain.PlatformGitLab:
		source = gitlab.NewClient(clientCfg, httpClient, log)
	default:
		source = github.NewClient(clientCfg, httpClient, log)
	}

	ranker := triage.NewRanker(triage.NewClassifier(rules.Maintainers))
	return service.NewPipeline(source, ranker, sink, log), nil
}

func tokenEnv(platform string) string {
	if platform == domain.PlatformGitLab {
		return "GITLAB_TOKEN"
	}
	return "GITHUB_TOKEN"
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprint(os.Stderr, `Aggregate issues from several repositories into one ranked export.

Usage:
  github-issues [flags] <token> <owner> [component...]

  <token> may be "-" to use GITHUB_TOKEN / GITLAB_TOKEN from the
  environment or a .env file.

Flags:
`)
	fs.PrintDefaults()
	fmt.Fprint(os.Stderr, `
Rules file format:
  maintainers:
    - alice
    - bob
`)
}
