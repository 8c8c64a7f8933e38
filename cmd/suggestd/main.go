// Copyright 2026 The MultiSuggest Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the suggestion server and CLI application.

MultiSuggest aggregates autocomplete suggestions from multiple document
fields into one weighted index. Stored fields contribute whole values at a
constant weight; analyzed fields contribute individual terms weighted by
their document frequency. It can operate as a MessagePack IPC server for
integration with indexing pipelines, or as a CLI application for testing
and debugging.

# Usage

Start the server with default settings:

	suggestd

Preload documents from a TOML file and enable debug mode:

	suggestd -docs /path/to/docs.toml -d

Run in CLI mode for interactive testing:

	suggestd -c -docs /path/to/docs.toml -limit 10

# Configuration

Runtime configuration is managed through a TOML file covering server
parameters and the suggester's field list:

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60

	[suggester]
	name = "suggest-infix-all"
	max_suggestion_length = 80
	exclude_format = ["collection"]
	languages = ["en", "en-us", "en-gb"]
	build_on_startup = true
	infix = true

	[[suggester.field]]
	name = "fulltext"
	weight = 1.0

	[[suggester.field]]
	name = "title"
	weight = 10.0
	analyzer_field_type = "string"
	filter_duplicates = true

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. See pkg/server
for the message formats. Suggestion requests are processed synchronously
with microsecond timing information included in responses; document changes
accumulate until a commit op publishes them.

# Command Line Flags

The following flags control application behavior:

	-config string
	    Path to the TOML config file (default "suggest-config.toml")
	-docs string
	    TOML file with documents to preload into the corpus
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to return in CLI mode
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/multisuggest/internal/cli"
	"github.com/bastiangx/multisuggest/pkg/analysis"
	"github.com/bastiangx/multisuggest/pkg/config"
	"github.com/bastiangx/multisuggest/pkg/corpus"
	"github.com/bastiangx/multisuggest/pkg/server"
	"github.com/bastiangx/multisuggest/pkg/store"
	"github.com/bastiangx/multisuggest/pkg/suggest"
)

const (
	Version = "0.3.0"
	AppName = "multisuggest"
	gh      = "https://github.com/bastiangx/multisuggest"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "suggest-config.toml", "Path to the TOML config file")
	docsPath := flag.String("docs", "", "TOML file with documents to preload")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 10, "Number of suggestions to return in CLI mode")

	flag.Parse()

	if *showVersion {
		showBanner()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", *configPath)

	schema := schemaFromConfig(cfg.Suggester)
	mem := corpus.NewMemory(schema)

	if *docsPath != "" {
		n, err := corpus.LoadTOML(*docsPath, mem)
		if err != nil {
			log.Fatalf("Failed to load documents: %v", err)
		}
		log.Debugf("Loaded %d documents from (%s)", n, *docsPath)
	}

	newSuggester := func() (*suggest.Suggester, error) {
		capability := store.BasicLookup
		if cfg.Suggester.Infix {
			capability = store.InfixWithHighlight
		}
		s, err := suggest.New(cfg.Suggester, mem, store.NewTrieStore(capability))
		if err != nil {
			return nil, err
		}
		if err := s.Reload(); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	}

	suggester, err := newSuggester()
	if err != nil {
		log.Fatalf("Failed to initialize suggester %s: %v", cfg.Suggester.Name, err)
	}
	log.Debugf("Suggester %s: state=%s count=%d",
		suggester.Name(), suggester.State(), suggester.Count())

	// CLI mode is mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(suggester, cfg.Server.MinPrefix, cfg.Server.MaxPrefix, *limit)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(cfg.Server, mem, suggester, newSuggester)

	showStartupInfo(cfg.Suggester.Name)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// schemaFromConfig registers each configured field under its analyzer type.
// Stored fields keep their declared type; term fields default to the
// standard text analyzer.
func schemaFromConfig(sc config.SuggesterConfig) *corpus.Schema {
	schema := corpus.NewSchema(analysis.NewRegistry())
	for _, fc := range sc.Fields {
		name := fc.Name
		if fc.SourceField != "" {
			name = fc.SourceField
		}
		fieldType := fc.AnalyzerFieldType
		if fieldType == "" {
			fieldType = "text"
		}
		schema.SetFieldType(name, fieldType)
	}
	return schema
}

func showBanner() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ MultiSuggest ] Weighted multi-field autocomplete suggestions")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(suggesterName string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("suggester: ( %s )", suggesterName)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
