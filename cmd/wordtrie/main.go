// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordtrie completion server and CLI [DBG] application.

wordtrie keeps a dictionary of lowercase words in a 26-way prefix tree and
answers "which words extend this prefix" in lexicographic order. It can
operate as a MessagePack IPC server for integration with editors, or as a CLI
application for testing and debugging.

# Usage

Start the server with a word list:

	wordtrie -words words.txt

Use a directory of word lists and enable debug mode:

	wordtrie -words /path/to/lists -d

Run in CLI mode for interactive testing:

	wordtrie -c -words words.txt -limit 10

A word list is either a text file with one word per line, or a chunk file
named dict_0001.bin, dict_0002.bin, etc. Words holding anything other than
'a'..'z' are skipped while loading.

# Configuration

Runtime configuration is read from a TOML file:

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60

	[dict]
	words_path = ""
	enable_cache = true
	cache_size = 4096

	[cli]
	default_limit = 24
	default_min_len = 1
	default_max_len = 24

The config file is created with defaults if it doesn't exist. Command line
flags override the file.

# IPC Protocol

See package server for the message shapes. A completion request

	{"id": "req1", "p": "ca", "l": 20}

is answered with

	{"id": "req1", "o": "extensions", "s": [{"w": "car", "r": 1}, {"w": "cat", "r": 2}], "c": 2, "n": 2, "t": 12}

# Command Line Flags

	-words string
	    Word list file or directory (overrides dict.words_path)
	-config string
	    Path to a config file
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to show in CLI mode
	-prmin int
	    Minimum prefix length in CLI mode
	-prmax int
	    Maximum prefix length in CLI mode
	-no-cache
	    Disable the query result cache
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordtrie/internal/cli"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/server"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordtrie"
	gh      = "https://github.com/bastiangx/wordtrie"
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

// main wires config, dictionary loading and the chosen front end.
// It does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	wordsPath := flag.String("words", "", "Word list file or directory (overrides dict.words_path)")
	configFile := flag.String("config", "", "Path to a config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaults.CLI.DefaultLimit, "Number of suggestions to show in CLI mode")
	minPrefix := flag.Int("prmin", defaults.CLI.DefaultMinLen, "Minimum prefix length in CLI mode")
	maxPrefix := flag.Int("prmax", defaults.CLI.DefaultMaxLen, "Maximum prefix length in CLI mode")
	noCache := flag.Bool("no-cache", false, "Disable the query result cache")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	// flags that were not given fall back to the config file
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["limit"] {
		*limit = appConfig.CLI.DefaultLimit
	}
	if !set["prmin"] {
		*minPrefix = appConfig.CLI.DefaultMinLen
	}
	if !set["prmax"] {
		*maxPrefix = appConfig.CLI.DefaultMaxLen
	}
	if !set["words"] {
		*wordsPath = appConfig.Dict.WordsPath
	}

	var completer *suggest.Completer
	if appConfig.Dict.EnableCache && !*noCache {
		completer = suggest.NewCachedCompleter(appConfig.Dict.CacheSize)
	} else {
		completer = suggest.NewCompleter()
	}

	if *wordsPath != "" {
		loadWords(completer, *wordsPath)
	} else {
		log.Warn("No word list specified, running with empty dict...")
	}

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minPrefix", *minPrefix,
			"maxPrefix", *maxPrefix,
			"limit", *limit)

		inputHandler := cli.NewInputHandler(completer, *minPrefix, *maxPrefix, *limit)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(completer, appConfig)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// loadWords resolves path and loads every word list it points to.
func loadWords(completer *suggest.Completer, path string) {
	resolved := path
	if pathResolver, err := utils.NewPathResolver(); err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
	} else if found, err := pathResolver.ResolveWordsPath(path); err == nil {
		resolved = found
	}

	stats, err := dictionary.NewLoader(completer).LoadPath(resolved)
	if err != nil {
		log.Fatalf("Failed to load words from %s: %v", resolved, err)
	}
	log.Debug("Dictionary loaded",
		"files", stats.Files,
		"added", stats.Added,
		"skipped", stats.Skipped,
		"words", completer.Stats()["totalWords"])
	if stats.Skipped > 0 {
		log.Warnf("Skipped %d words with characters outside a-z", stats.Skipped)
	}
}

// printVersion shows the styled version banner on stderr.
func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Printf("[ %s ] Prefix completions from a lowercase word trie", AppName)
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}
