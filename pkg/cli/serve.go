package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/platinummonkey/pipgraph/pkg/config"
	"github.com/platinummonkey/pipgraph/pkg/depgraph"
	"github.com/platinummonkey/pipgraph/pkg/observability"
	"github.com/platinummonkey/pipgraph/pkg/server"
)

func newServeCommand() *Command {
	return &Command{
		Name:        "serve",
		Description: "Build the dependency graph once and serve it over HTTP",
		Run:         runServe,
	}
}

func runServe(args []string) error {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("usage: pipgraph serve <config.yaml> [--addr <addr>] [--log-level <level>]")
	}
	configPath := args[0]

	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := flags.String("addr", ":8080", "Listen address")
	logLevel := flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(observability.ParseLevel(*logLevel), os.Stdout)

	ctx := context.Background()
	source := newSource(cfg)

	// Validate the root up front; serving a graph whose root cannot be
	// fetched at all would only ever show an empty adjacency.
	if _, err := source.DirectDependencies(ctx, cfg.PackageName); err != nil {
		return fmt.Errorf("failed to get direct dependencies of %s: %w", cfg.PackageName, err)
	}

	builder := depgraph.NewBuilder(source)
	graph, err := builder.Build(ctx, cfg.PackageName, depgraph.NewFilter(cfg.FilterSubstring))
	if err != nil {
		return err
	}

	logger.WithField("root", cfg.PackageName).
		WithField("packages", graph.Len()).
		WithField("cycles", len(graph.Cycles())).
		Info("dependency graph built")

	return server.New(cfg.PackageName, graph, logger).ListenAndServe(*addr)
}
