// tacowrap generates host registry bindings for Go packages.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/taco/config"
	"github.com/chazu/taco/gowrap"
)

func main() {
	outputDir := flag.String("o", "", "Output directory (default: [wrap] output in taco.toml, or ./wrapped)")
	pkgName := flag.String("pkg", "", "Package name for generated files (default: [wrap] package in taco.toml, or wrap_<name>)")
	include := flag.String("include", "", "Comma-separated exported names to wrap (default: all)")
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tacowrap [options] [importpath...]\n\n")
		fmt.Fprintf(os.Stderr, "Generates a Register(r *host.Registry) function per package.\n")
		fmt.Fprintf(os.Stderr, "Without import paths, the [wrap] packages in taco.toml are used.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tacowrap encoding/json                  # Wrap into ./wrapped/json\n")
		fmt.Fprintf(os.Stderr, "  tacowrap -o internal/wrap strings bytes # Custom output directory\n")
		fmt.Fprintf(os.Stderr, "  tacowrap -include Contains,Builder strings\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)
	log := commonlog.GetLogger("taco.wrap")

	cfg, err := config.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	packages := flag.Args()
	if len(packages) == 0 {
		packages = cfg.Wrap.Packages
	}
	if len(packages) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no packages specified and no [wrap] packages in taco.toml")
		flag.Usage()
		os.Exit(1)
	}
	*outputDir, *pkgName = outputSettings(cfg, *outputDir, *pkgName)

	filter := parseInclude(*include)
	for _, importPath := range packages {
		log.Infof("wrapping %s", importPath)
		model, err := gowrap.IntrospectPackage(importPath, filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error wrapping %s: %v\n", importPath, err)
			os.Exit(1)
		}
		path, err := gowrap.WriteFile(model, *outputDir, *pkgName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error wrapping %s: %v\n", importPath, err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Printf("Wrote %s (%d functions, %d types)\n", path, len(model.Functions), len(model.Types))
		}
	}
}

func parseInclude(list string) map[string]bool {
	if list == "" {
		return nil
	}
	filter := make(map[string]bool)
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			filter[name] = true
		}
	}
	return filter
}

// outputSettings fills unset -o and -pkg flags from the [wrap] table.
func outputSettings(cfg *config.Config, outputDir, pkgName string) (string, string) {
	if outputDir == "" {
		outputDir = cfg.OutputDir()
	}
	if pkgName == "" {
		pkgName = cfg.Wrap.Package
	}
	return outputDir, pkgName
}
