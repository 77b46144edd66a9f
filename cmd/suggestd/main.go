// Copyright 2025 The suggestd Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the completion session server and CLI [DBG] application.

suggestd ranks and filters completion proposals against the user's prefix as
they type. It can operate as a MessagePack IPC server for integration with
editor hosts, or as a CLI application for testing and debugging.

The engine keeps one completion model per session: a fixed batch of
proposals, sorted once by the configured snippet policy, lazily refiltered
and rescored as the line context changes. Typing forward narrows over the
previous acceptance set; deleting refilters the full batch. Batches from
providers that declared themselves incomplete are re-queried on demand, with
the already-complete items adopted into the replacement model.

# Usage

Start the server with default settings:

	suggestd

Use a custom dictionary directory and enable debug mode:

	suggestd -data /path/to/chunks -d

Run in CLI mode for interactive testing:

	suggestd -c -limit 10 -prmin 2

The data directory should contain binary chunk files named dict_0001.bin,
dict_0002.bin, etc. Each chunk holds frequency-ranked words; see pkg/words
for the format.

# Configuration

Runtime configuration is managed through a TOML file:

	[model]
	snippet_policy = "inline"

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60

	[dict]
	min_frequency_threshold = 20

The config file is automatically created with defaults if it doesn't exist.
The snippet policy can also be changed at runtime through the IPC config op.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. See pkg/server
for the full message reference. A session opens at a trigger point:

	{"id": "r1", "op": "open", "l": "con", "col": 4}

and is narrowed as the user types:

	{"id": "r2", "op": "sync", "sid": "s0001", "l": "cons", "d": 1}

# CLI Mode

CLI mode provides an interactive interface for testing the model. Entered
lines drive the same narrowing and refiltering paths the server uses, with
human-readable, highlighted output. New features should be exercised here
first.

# Command Line Flags

	-data string
	    Directory containing binary dictionary chunks (default "data/")
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-config string
	    Custom config file path
	-policy string
	    Snippet policy override: top, bottom, inline, hidden
	-limit int
	    Number of suggestions to request (default from config)
	-prmin int
	    Minimum prefix length for suggestions
	-prmax int
	    Maximum prefix length for suggestions
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

	"github.com/LujunWeng/suggestd/internal/cli"
	"github.com/LujunWeng/suggestd/internal/utils"
	"github.com/LujunWeng/suggestd/pkg/config"
	"github.com/LujunWeng/suggestd/pkg/proposal"
	"github.com/LujunWeng/suggestd/pkg/server"
	"github.com/LujunWeng/suggestd/pkg/words"
)

const (
	Version = "0.3.0-beta"
	AppName = "suggestd"
	gh      = "https://github.com/LujunWeng/suggestd"
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

// main wires config, dictionary, and either the IPC server or the CLI loop.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "data/", "Directory containing the binary dictionary chunks")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	configPathFlag := flag.String("config", "", "Custom config file path")
	policyFlag := flag.String("policy", "", "Snippet policy override: top, bottom, inline, hidden")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of suggestions to request")
	minPrefix := flag.Int("prmin", defaultConfig.CLI.DefaultMinLen, "Minimum prefix length for suggestions (1 < n <= prmax)")
	maxPrefix := flag.Int("prmax", defaultConfig.CLI.DefaultMaxLen, "Maximum prefix length for suggestions")

	flag.Parse()

	if *showVersion {
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
		logger.Print("[ suggestd ] Ranks and filters completion proposals, fast.")
		logger.Print("", "version", Version)
		logger.Print("")
		logger.Print("use -h or --help to see available options")
		logger.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configPathFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	if *policyFlag != "" {
		appConfig.Model.SnippetPolicy = proposal.ParsePolicy(*policyFlag).String()
	}

	dictionary := words.NewDictionary()
	dictionary.SetThresholds(appConfig.Dict.MinFreqThreshold, appConfig.Dict.MinFreqShortPrefix)
	dictionary.SetMaxWords(appConfig.Dict.MaxWords)

	if utils.FileExists(*dataDir) {
		if err := dictionary.LoadDir(*dataDir); err != nil {
			log.Fatalf("Failed to load dictionary: %v", err)
			os.Exit(1)
		}
		log.Debug("Dictionary init done", "stats", dictionary.Stats())
	} else {
		log.Warn("No data dir found, running with empty dictionary...")
	}

	// CLI is mainly for testing and dbg purposes.
	// Any new model or scorer changes should be exercised in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minPrefix", *minPrefix,
			"maxPrefix", *maxPrefix,
			"limit", *limit,
			"policy", appConfig.Model.SnippetPolicy)

		inputHandler := cli.NewInputHandler(dictionary, appConfig.Policy(), *minPrefix, *maxPrefix, *limit)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(dictionary, appConfig, configPath)

	showStartupInfo(*dataDir)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataDir string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "==========")
	fmt.Fprintln(os.Stderr, " suggestd ")
	fmt.Fprintln(os.Stderr, "==========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("data dir: ( %s )", dataDir)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
