// taco-go serves Go objects to a taco client over standard input and output.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/taco/config"
	"github.com/chazu/taco/host"
	"github.com/chazu/taco/server"
	"github.com/chazu/taco/stdlib"
	"github.com/chazu/taco/wire"
)

func main() {
	configPath := flag.String("config", "", "Path to taco.toml (default: search upward from the working directory)")
	verbosity := flag.Int("v", 0, "Log verbosity: -4 silent, 0 notices, 1 info, 2 debug")
	logFile := flag.String("log", "", "Log file (default: stderr)")
	transcript := flag.String("transcript", "", "Record every frame to this CBOR file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: taco-go [options]\n\n")
		fmt.Fprintf(os.Stderr, "Runs a taco server on stdin/stdout. Requests are answered until stdin closes.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nBuilt-in modules: %v\n", stdlib.Modules)
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  taco-go                          # Serve with taco.toml from the nearest directory\n")
		fmt.Fprintf(os.Stderr, "  taco-go -v 2 -log taco.log       # Debug logging to a file\n")
		fmt.Fprintf(os.Stderr, "  taco-go -transcript session.cbor # Record the session\n")
	}
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["v"] {
		*verbosity = cfg.Log.Verbosity
	}
	if *logFile == "" {
		*logFile = cfg.LogPath()
	}
	if *transcript == "" {
		*transcript = cfg.TranscriptPath()
	}

	if *logFile != "" {
		commonlog.Configure(*verbosity, logFile)
	} else {
		commonlog.Configure(*verbosity, nil)
	}

	if err := run(cfg, *transcript); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg, err := config.FindAndLoad(".")
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}

func run(cfg *config.Config, transcript string) error {
	log := commonlog.GetLogger("taco.go")

	// The channel owns stdout. Stray prints go to stderr instead.
	channel := os.Stdout
	os.Stdout = os.Stderr

	registry := host.NewRegistry()
	stdlib.Register(registry)
	for _, name := range cfg.Server.Imports {
		if err := registry.Import(name); err != nil {
			return err
		}
		log.Infof("imported %s", name)
	}

	var opts []server.Option
	if transcript != "" {
		f, err := os.Create(transcript)
		if err != nil {
			return fmt.Errorf("cannot create transcript: %w", err)
		}
		defer f.Close()
		opts = append(opts, server.WithRecorder(wire.NewRecorder(f)))
		log.Infof("recording transcript to %s", transcript)
	}

	return server.New(os.Stdin, channel, registry, opts...).Run()
}
