// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Command-line argument parsing for nanochat.
//
// Flags:
//   --plain             Force the plain REPL even on a TTY
//   --server URL        Override the backend server URL
//   --model NAME        Switch to this model after connecting
//   --config PATH       Use an alternate config file
//   --theme dark|light  Override the color theme
//   --no-markdown       Disable markdown rendering of replies
//   -q, --quiet         Minimal output in plain mode
//   -v, --version       Print the version and exit
//   -h, --help          Print usage and exit

package cli

import (
	"fmt"
	"strings"
)

// Args holds the parsed command-line options.
type Args struct {
	Plain      bool
	Quiet      bool
	NoMarkdown bool
	Version    bool
	Help       bool

	Server     string
	Model      string
	ConfigPath string
	Theme      string
}

// Parse parses raw arguments (without the program name) into Args.
// It accepts --flag value and --flag=value forms and rejects unknown flags.
func Parse(raw []string) (Args, error) {
	var args Args

	i := 0
	next := func(flag string) (string, error) {
		if i+1 >= len(raw) || strings.HasPrefix(raw[i+1], "-") {
			return "", fmt.Errorf("flag %s requires a value", flag)
		}
		i++
		return raw[i], nil
	}

	for ; i < len(raw); i++ {
		arg := raw[i]

		name, value := arg, ""
		hasValue := false
		if idx := strings.Index(arg, "="); idx >= 0 {
			name, value = arg[:idx], arg[idx+1:]
			hasValue = true
		}

		var err error
		switch name {
		case "--plain":
			args.Plain = true
		case "--quiet", "-q":
			args.Quiet = true
		case "--no-markdown":
			args.NoMarkdown = true
		case "--version", "-v":
			args.Version = true
		case "--help", "-h":
			args.Help = true
		case "--server", "-s":
			if !hasValue {
				value, err = next(name)
			}
			args.Server = value
		case "--model", "-m":
			if !hasValue {
				value, err = next(name)
			}
			args.Model = value
		case "--config", "-c":
			if !hasValue {
				value, err = next(name)
			}
			args.ConfigPath = value
		case "--theme":
			if !hasValue {
				value, err = next(name)
			}
			args.Theme = value
		default:
			return Args{}, fmt.Errorf("unknown flag: %s (see --help)", arg)
		}
		if err != nil {
			return Args{}, err
		}
	}

	if args.Theme != "" && args.Theme != "dark" && args.Theme != "light" {
		return Args{}, fmt.Errorf("invalid theme %q: must be dark or light", args.Theme)
	}

	return args, nil
}

// Usage returns the help text printed for -h.
func Usage() string {
	return strings.TrimLeft(`
nanochat - terminal client for the nanochat playground server

Usage:
  nanochat [flags]

Flags:
  --plain             force the plain REPL even on a TTY
  --server URL        backend server URL (default from config)
  --model NAME        switch to this model after connecting
  --config PATH       alternate config file path
  --theme dark|light  color theme override
  --no-markdown       disable markdown rendering of replies
  -q, --quiet         minimal output in plain mode
  -v, --version       print version and exit
  -h, --help          show this help

Environment:
  NANOCHAT_SERVER     backend server URL
  NANOCHAT_THEME      color theme (dark or light)
  NO_COLOR            disable colored output
`, "\n")
}
