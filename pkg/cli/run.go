package cli

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/platinummonkey/pipgraph/pkg/config"
	"github.com/platinummonkey/pipgraph/pkg/depgraph"
	"github.com/platinummonkey/pipgraph/pkg/registry"
	"github.com/platinummonkey/pipgraph/pkg/render"
)

func newRunCommand() *Command {
	return &Command{
		Name:        "run",
		Description: "Build and render the dependency graph for the configured package",
		Run:         runRun,
	}
}

func runRun(args []string) error {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("usage: pipgraph run <config.yaml> [--reverse <package>]")
	}
	configPath := args[0]

	flags := flag.NewFlagSet("run", flag.ExitOnError)
	reverse := flags.String("reverse", "", "Show packages that depend on the given package")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	fmt.Print(cfg.Params())
	fmt.Println()

	ctx := context.Background()
	source := newSource(cfg)

	// The root package's own fetch is the one failure that aborts the
	// run; failures deeper in the graph are absorbed during the build.
	printStage("Direct Dependencies")
	direct, err := source.DirectDependencies(ctx, cfg.PackageName)
	if err != nil {
		return fmt.Errorf("failed to get direct dependencies of %s: %w", cfg.PackageName, err)
	}
	fmt.Printf("Direct dependencies of '%s':\n", cfg.PackageName)
	printPackageList(direct, "(no dependencies)")
	fmt.Println()

	printStage("Dependency Graph Construction")
	builder := depgraph.NewBuilder(source)
	graph, err := builder.Build(ctx, cfg.PackageName, depgraph.NewFilter(cfg.FilterSubstring))
	if err != nil {
		return err
	}

	fmt.Printf("Dependency graph for '%s':\n", cfg.PackageName)
	fmt.Printf("Total packages in graph: %d\n", graph.Len())
	fmt.Println()
	printGraph(graph)
	printCycles(graph)
	fmt.Println()

	if *reverse != "" {
		printStage("Reverse Dependencies")
		dependents := graph.ReverseDependencies(*reverse)
		sort.Strings(dependents)
		fmt.Printf("Packages that depend on '%s':\n", *reverse)
		printPackageList(dependents, "(no packages depend on this package)")
		fmt.Println()
	}

	printStage("Visualization")
	renderer := render.NewRenderer(cfg.OutputFile, render.NewD2Compiler())
	result, err := renderer.Render(ctx, graph)
	if err != nil {
		return err
	}

	fmt.Printf("D2 description saved to: %s\n", result.DescriptionPath)
	if result.ImagePath != "" {
		fmt.Printf("Visualization complete! Image saved to: %s\n", result.ImagePath)
	} else {
		fmt.Println("Image not produced. Install the D2 compiler (https://d2lang.com/) and run:")
		fmt.Printf("  d2 %s %s\n", result.DescriptionPath, cfg.OutputFile)
	}

	return nil
}

// newSource selects the dependency source for the config and wraps it in
// a cache so repeated lookups in one run hit the backend once.
func newSource(cfg *config.Config) registry.Source {
	var source registry.Source
	if cfg.TestMode {
		source = registry.NewStubFile(cfg.RepoURL)
	} else {
		source = registry.NewPyPI(cfg.RepoURL)
	}
	return registry.NewCached(source, 0, 0)
}

func printStage(name string) {
	banner := strings.Repeat("=", 60)
	fmt.Println(banner)
	fmt.Println(name)
	fmt.Println(banner)
}

func printPackageList(packages []string, emptyMessage string) {
	if len(packages) == 0 {
		fmt.Printf("  %s\n", emptyMessage)
		return
	}
	for _, pkg := range packages {
		fmt.Printf("  - %s\n", pkg)
	}
}

func printGraph(graph *depgraph.Graph) {
	packages := graph.Packages()
	sort.Strings(packages)
	for _, pkg := range packages {
		deps := graph.Dependencies(pkg)
		if len(deps) > 0 {
			fmt.Printf("%s -> %s\n", pkg, strings.Join(deps, ", "))
		} else {
			fmt.Printf("%s -> (no dependencies)\n", pkg)
		}
	}
}

func printCycles(graph *depgraph.Graph) {
	cycles := graph.Cycles()
	fmt.Println()
	if len(cycles) == 0 {
		fmt.Println("No circular dependencies detected.")
		return
	}
	fmt.Println("Warning: Circular dependencies detected:")
	for _, cycle := range cycles {
		fmt.Printf("  Cycle: %s\n", strings.Join(cycle, " -> "))
	}
}
