// nanochat TUI - terminal client for the nanochat playground server.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nanochat-tui/internal/backend"
	"github.com/jeranaias/nanochat-tui/internal/binding"
	"github.com/jeranaias/nanochat-tui/internal/cli"
	"github.com/jeranaias/nanochat-tui/internal/config"
	"github.com/jeranaias/nanochat-tui/internal/exchange"
	"github.com/jeranaias/nanochat-tui/internal/session"
	"github.com/jeranaias/nanochat-tui/internal/storage"
	"github.com/jeranaias/nanochat-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	args, err := cli.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if args.Help {
		fmt.Print(cli.Usage())
		return
	}
	if args.Version {
		fmt.Printf("nanochat %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	// Persisted theme wins over the config default; an explicit flag
	// wins over both.
	if store != nil && args.Theme == "" {
		if theme, ok := store.LoadTheme(); ok {
			cfg.UI.Theme = theme
		}
	}

	client := backend.NewClient(cfg.Server.URL).
		WithTimeout(time.Duration(cfg.Server.TimeoutSecs) * time.Second).
		WithChatTimeout(time.Duration(cfg.Server.ChatTimeoutSecs) * time.Second)

	bind := binding.New(client, persister(store))
	sessions := session.NewManager(client)
	coord := exchange.New(client, sessions, bind)

	if cli.Interactive() && !args.Plain {
		runTUI(cfg, args, bind, sessions, coord, store)
		return
	}
	runPlain(cfg, args, bind, sessions, coord)
}

// loadConfig resolves the config file, then applies flag overrides on top
// of file and environment values.
func loadConfig(args cli.Args) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
		if err == nil {
			materializeDefaultConfig()
		}
	}
	if err != nil {
		return nil, err
	}

	if args.Server != "" {
		cfg.Server.URL = args.Server
	}
	if args.Theme != "" {
		cfg.UI.Theme = args.Theme
	}
	if args.NoMarkdown {
		cfg.UI.Markdown = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// materializeDefaultConfig writes a commented config file on first run so
// the user has something to edit. Defaults only, not the env-overridden
// values in effect for this run. Best effort.
func materializeDefaultConfig() {
	path, err := config.Path()
	if err != nil {
		return
	}
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return
	}
	if err := config.Save(config.Default()); err != nil {
		log.Printf("could not write default config: %v", err)
	}
}

// openStore opens the local state store. Failure is not fatal: the client
// still works, it just cannot persist the endpoint record or theme.
func openStore() *storage.Store {
	dir, err := storage.DefaultDir()
	if err != nil {
		log.Printf("state store unavailable: %v", err)
		return nil
	}
	store, err := storage.Open(dir)
	if err != nil {
		log.Printf("state store unavailable: %v", err)
		return nil
	}
	return store
}

// persister adapts a possibly-nil store to the binding's interface. A nil
// *Store inside a non-nil interface would dodge the binding's nil checks.
func persister(store *storage.Store) binding.Persister {
	if store == nil {
		return nil
	}
	return store
}

func runTUI(cfg *config.Config, args cli.Args, bind *binding.Binding, sessions *session.Manager, coord *exchange.Coordinator, store *storage.Store) {
	m := chat.New(cfg, bind, sessions, coord, store)
	if args.Model != "" {
		m = m.WithInitialModel(args.Model)
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Live-reload the config file while the TUI runs. Send is safe from
	// other goroutines.
	watcher := watchConfig(args, func(updated *config.Config) {
		// Send crosses goroutines; the update loop gets its own copy.
		p.Send(chat.ConfigReloadedMsg{Config: updated.Clone()})
	})
	if watcher != nil {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func watchConfig(args cli.Args, onChange func(*config.Config)) *config.Watcher {
	path := args.ConfigPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return nil
		}
		path = p
	}

	watcher, err := config.NewWatcher(path, onChange)
	if err != nil {
		log.Printf("config watch disabled: %v", err)
		return nil
	}
	if err := watcher.Watch(); err != nil {
		log.Printf("config watch disabled: %v", err)
		watcher.Close()
		return nil
	}
	return watcher
}

func runPlain(cfg *config.Config, args cli.Args, bind *binding.Binding, sessions *session.Manager, coord *exchange.Coordinator) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.TimeoutSecs+5)*time.Second)
	defer cancel()

	if _, err := bind.LoadConfiguration(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach %s: %v\n", cfg.Server.URL, err)
		os.Exit(1)
	}

	if args.Model != "" {
		if err := bind.SelectModel(ctx, args.Model); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	repl := cli.NewREPL(cfg, bind, sessions, coord, args.Quiet)
	if err := repl.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
