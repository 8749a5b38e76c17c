// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - Plain-terminal chat REPL for nanochat.
//
// USABILITY: Markdown rendering and input history for the non-TUI path.
//
// Runs when stdout is not a TTY or when --plain is given. Shares the
// binding, session, and exchange layers with the TUI, so the slash
// commands behave identically in both modes.
//
// Interactive commands:
//   /help               Show available commands
//   /new                Start a new session
//   /model [name]       Show or switch the active model
//   /models             List available models
//   /endpoint URL MODEL [KEY]   Bind a custom endpoint
//   /endpoint clear     Return to the built-in catalog
//   /preset [id]        List presets, or bind one directly
//   /temp [value]       Show or set sampling temperature
//   /tokens [value]     Show or set the max token limit
//   /sessions           List server-side sessions
//   /status             Show session statistics
//   /quit               Exit (also: exit, quit, Ctrl+D)

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/nanochat-tui/internal/binding"
	"github.com/jeranaias/nanochat-tui/internal/config"
	"github.com/jeranaias/nanochat-tui/internal/exchange"
	"github.com/jeranaias/nanochat-tui/internal/presets"
	"github.com/jeranaias/nanochat-tui/internal/session"
	"github.com/jeranaias/nanochat-tui/internal/ui/styles"
	"github.com/jeranaias/nanochat-tui/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.DarkPalette.Accent).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.DarkPalette.AccentAlt).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.DarkPalette.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.DarkPalette.Success)

	warnStyle = lipgloss.NewStyle().
			Foreground(styles.DarkPalette.Warning)

	errStyle = lipgloss.NewStyle().
			Foreground(styles.DarkPalette.Error).
			Bold(true)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader wraps liner with persistent input history.
// USABILITY: arrow-key history navigation and line editing.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &lineReader{
		line:        line,
		historyFile: filepath.Join(dir, "history"),
	}
	r.loadHistory()
	return r
}

func (r *lineReader) loadHistory() {
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line with history support.
func (r *lineReader) ReadInput(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *lineReader) saveHistory() {
	if err := config.EnsureDir(); err != nil {
		return
	}
	f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	r.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (r *lineReader) Close() {
	r.saveHistory()
	r.line.Close()
}

// =============================================================================
// REPL STATE
// =============================================================================

// REPL is the plain-terminal chat loop.
type REPL struct {
	cfg      *config.Config
	bind     *binding.Binding
	sessions *session.Manager
	coord    *exchange.Coordinator

	quiet    bool
	markdown bool
	renderer *glamour.TermRenderer
	input    *lineReader

	mu         sync.Mutex
	cancelFunc context.CancelFunc

	startTime  time.Time
	exchanges  int
	tokensUsed int
}

// NewREPL builds a REPL over the shared orchestration layers.
func NewREPL(cfg *config.Config, bind *binding.Binding, sessions *session.Manager, coord *exchange.Coordinator, quiet bool) *REPL {
	markdown := cfg.UI.Markdown && IsStdoutTTY()

	var renderer *glamour.TermRenderer
	if markdown {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(cfg.UI.Theme),
			glamour.WithWordWrap(TerminalWidth()),
		)
		if err == nil {
			renderer = r
		}
	}

	return &REPL{
		cfg:       cfg,
		bind:      bind,
		sessions:  sessions,
		coord:     coord,
		quiet:     quiet,
		markdown:  markdown && renderer != nil,
		renderer:  renderer,
		input:     newLineReader(),
		startTime: time.Now(),
	}
}

// Run executes the REPL until the user exits. The configuration must
// already be loaded on the binding before calling Run.
func (r *REPL) Run() error {
	defer r.input.Close()

	if !r.quiet {
		r.printWelcome()
	}

	// First Ctrl+C cancels the in-flight exchange instead of exiting.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		for range sigChan {
			r.mu.Lock()
			cancel := r.cancelFunc
			r.cancelFunc = nil
			r.mu.Unlock()
			if cancel != nil {
				cancel()
				fmt.Fprintln(os.Stderr, "\n"+warnStyle.Render("[cancelled]"))
			}
		}
	}()

	for {
		input, err := r.input.ReadInput(promptStyle.Render("nanochat> "))
		if err != nil {
			// liner.ErrPromptAborted is Ctrl+C at the prompt; EOF is Ctrl+D.
			fmt.Println()
			r.printExitSummary()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			keepGoing, err := r.handleCommand(input)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", errStyle.Render("[error]"), err)
			}
			if !keepGoing {
				r.printExitSummary()
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			r.printExitSummary()
			return nil
		}

		if err := r.sendMessage(input); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errStyle.Render("[error]"), err)
		}
	}
}

// =============================================================================
// MESSAGE PROCESSING
// =============================================================================

func (r *REPL) sendMessage(text string) error {
	timeout := time.Duration(r.cfg.Server.ChatTimeoutSecs+5) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	r.mu.Lock()
	r.cancelFunc = cancel
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.cancelFunc = nil
		r.mu.Unlock()
		cancel()
	}()

	start := time.Now()
	result, err := r.coord.Send(ctx, text)
	if err != nil {
		if errors.Is(err, exchange.ErrStale) {
			// Session changed while the reply was in flight; nothing to show.
			return nil
		}
		return err
	}

	fmt.Println()
	r.printReply(result.Reply)
	fmt.Println()

	r.exchanges++
	if total, ok := result.Usage["total_tokens"]; ok {
		r.tokensUsed += total
	} else {
		r.tokensUsed += result.Usage["prompt_tokens"] + result.Usage["completion_tokens"]
	}

	if !r.quiet {
		r.printBriefStats(result, time.Since(start))
	}
	return nil
}

func (r *REPL) printReply(content string) {
	if r.markdown {
		if rendered, err := r.renderer.Render(content); err == nil {
			fmt.Print(strings.TrimRight(rendered, "\n") + "\n")
			return
		}
	}
	fmt.Println(WrapText(content, TerminalWidth()))
}

func (r *REPL) printBriefStats(result *exchange.Result, elapsed time.Duration) {
	parts := []string{result.Model, elapsed.Round(100 * time.Millisecond).String()}
	if total, ok := result.Usage["total_tokens"]; ok {
		parts = append(parts, util.IntToString(total)+" tokens")
	}
	fmt.Println(infoStyle.Render("  [" + strings.Join(parts, " · ") + "]"))
	fmt.Println()
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleCommand dispatches a slash command. The bool result is false when
// the REPL should exit.
func (r *REPL) handleCommand(input string) (bool, error) {
	fields := strings.Fields(input)
	name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	args := fields[1:]

	switch name {
	case "help", "h":
		r.printHelp()
	case "quit", "q", "exit":
		return false, nil
	case "new", "clear", "c":
		return true, r.newSession()
	case "model":
		return true, r.cmdModel(args)
	case "models":
		r.printModels()
	case "endpoint":
		return true, r.cmdEndpoint(args)
	case "preset":
		return true, r.cmdPreset(args)
	case "temp":
		return true, r.cmdTemp(args)
	case "tokens":
		return true, r.cmdTokens(args)
	case "sessions":
		return true, r.cmdSessions()
	case "status", "s":
		r.printStatus()
	default:
		fmt.Println(warnStyle.Render("Unknown command: /" + name + " (try /help)"))
	}
	return true, nil
}

func (r *REPL) controlCtx() (context.Context, context.CancelFunc) {
	timeout := time.Duration(r.cfg.Server.TimeoutSecs+5) * time.Second
	return context.WithTimeout(context.Background(), timeout)
}

func (r *REPL) newSession() error {
	ctx, cancel := r.controlCtx()
	defer cancel()

	sess, err := r.sessions.ClearSession(ctx)
	fmt.Println(infoStyle.Render("New session: " + sess.ID))
	if err != nil {
		fmt.Println(warnStyle.Render("Server-side history may linger: " + err.Error()))
	}
	return nil
}

func (r *REPL) cmdModel(args []string) error {
	if len(args) == 0 {
		snap := r.bind.Snapshot()
		if snap.Custom != nil {
			fmt.Println(infoStyle.Render("Model: " + snap.ModelID + " (custom endpoint)"))
		} else {
			fmt.Println(infoStyle.Render("Model: " + snap.ModelID + " (" + snap.Provider + ")"))
		}
		return nil
	}

	ctx, cancel := r.controlCtx()
	defer cancel()

	if err := r.bind.SelectModel(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println(commandStyle.Render("Switched to " + r.bind.ModelID()))
	return nil
}

func (r *REPL) printModels() {
	providers := r.bind.Providers()
	if len(providers) == 0 {
		fmt.Println(warnStyle.Render("No provider catalog loaded."))
		return
	}
	for _, p := range providers {
		if !p.Configured || len(p.Models) == 0 {
			continue
		}
		name := p.DisplayName
		if name == "" {
			name = p.Name
		}
		fmt.Println(commandStyle.Render(name))
		for _, m := range p.Models {
			line := "  " + m.ID
			if m.Name != "" && m.Name != m.ID {
				line += "  " + m.Name
			}
			fmt.Println(infoStyle.Render(line))
		}
	}
}

func (r *REPL) cmdEndpoint(args []string) error {
	if len(args) == 1 && strings.EqualFold(args[0], "clear") {
		return r.clearEndpoint()
	}
	if len(args) < 2 {
		fmt.Println(infoStyle.Render("Usage: /endpoint URL MODEL [KEY]  or  /endpoint clear"))
		return nil
	}

	url, model := args[0], args[1]
	key := ""
	if len(args) > 2 {
		key = args[2]
	}

	ctx, cancel := r.controlCtx()
	defer cancel()

	if err := r.bind.ApplyCustomEndpoint(ctx, url, key, model, ""); err != nil {
		return err
	}
	fmt.Println(commandStyle.Render("Bound custom endpoint, model " + model))
	return nil
}

func (r *REPL) clearEndpoint() error {
	if r.bind.Snapshot().Custom == nil {
		fmt.Println(infoStyle.Render("No custom endpoint is active."))
		return nil
	}

	// Fall back to the first configured provider from the catalog.
	target := ""
	for _, p := range r.bind.Providers() {
		if p.Configured && len(p.Models) > 0 {
			target = p.Name
			break
		}
	}

	ctx, cancel := r.controlCtx()
	defer cancel()

	if err := r.bind.ClearCustomEndpoint(ctx, target); err != nil {
		return err
	}
	if id := r.bind.ModelID(); id != "" {
		fmt.Println(commandStyle.Render("Back to the built-in catalog, model " + id))
	} else {
		fmt.Println(warnStyle.Render("Custom endpoint cleared; no built-in model available."))
	}
	return nil
}

func (r *REPL) cmdPreset(args []string) error {
	if len(args) == 0 {
		for _, p := range presets.All() {
			fmt.Println(commandStyle.Render(p.ID) + infoStyle.Render("  "+p.Name+"  "+p.BaseURL))
		}
		return nil
	}

	preset, ok := presets.Lookup(args[0])
	if !ok {
		fmt.Println(warnStyle.Render("Unknown preset: " + args[0]))
		return nil
	}

	model := ""
	if def, ok := preset.DefaultModel(); ok {
		model = def.ID
	}
	if len(args) > 1 {
		model = args[1]
	}
	if model == "" {
		fmt.Println(warnStyle.Render("Preset has no default model; use /preset " + preset.ID + " MODEL"))
		return nil
	}

	ctx, cancel := r.controlCtx()
	defer cancel()

	if err := r.bind.ApplyCustomEndpoint(ctx, preset.BaseURL, preset.APIKey, model, preset.ID); err != nil {
		return err
	}
	fmt.Println(commandStyle.Render("Bound " + preset.Name + ", model " + model))
	return nil
}

func (r *REPL) cmdTemp(args []string) error {
	snap := r.bind.Snapshot()
	if len(args) == 0 {
		fmt.Println(infoStyle.Render("Temperature: " + strconv.FormatFloat(snap.Temperature, 'f', -1, 64)))
		return nil
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", args[0])
	}
	if err := r.bind.SetParameters(v, snap.MaxTokens); err != nil {
		return err
	}
	fmt.Println(infoStyle.Render("Temperature set to " + args[0] + " (applies on the next model switch)"))
	return nil
}

func (r *REPL) cmdTokens(args []string) error {
	snap := r.bind.Snapshot()
	if len(args) == 0 {
		fmt.Println(infoStyle.Render("Max tokens: " + util.IntToString(snap.MaxTokens)))
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("not a number: %s", args[0])
	}
	if err := r.bind.SetParameters(snap.Temperature, n); err != nil {
		return err
	}
	fmt.Println(infoStyle.Render("Max tokens set to " + args[0] + " (applies on the next model switch)"))
	return nil
}

func (r *REPL) cmdSessions() error {
	ctx, cancel := r.controlCtx()
	defer cancel()

	infos, err := r.sessions.ListSessions(ctx)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println(infoStyle.Render("No server-side sessions."))
		return nil
	}
	current := r.sessions.ID()
	for _, info := range infos {
		marker := "  "
		if info.Key == current {
			marker = "* "
		}
		line := marker + info.Key
		if info.UpdatedAt != "" {
			line += "  " + info.UpdatedAt
		}
		fmt.Println(infoStyle.Render(line))
	}
	return nil
}

// =============================================================================
// OUTPUT
// =============================================================================

func (r *REPL) printWelcome() {
	snap := r.bind.Snapshot()
	fmt.Println(welcomeStyle.Render("nanochat"))
	fmt.Println(infoStyle.Render("Connected to " + r.cfg.Server.URL))
	if snap.ModelID != "" {
		fmt.Println(infoStyle.Render("Active model: " + snap.ModelID))
	}
	fmt.Println(infoStyle.Render("Type /help for commands, Ctrl+D to exit."))
	fmt.Println()
}

func (r *REPL) printHelp() {
	help := [][2]string{
		{"/help", "show this help"},
		{"/new", "start a new session"},
		{"/model [name]", "show or switch the active model"},
		{"/models", "list available models"},
		{"/endpoint URL MODEL [KEY]", "bind a custom endpoint"},
		{"/endpoint clear", "return to the built-in catalog"},
		{"/preset [id] [model]", "list presets or bind one"},
		{"/temp [value]", "show or set sampling temperature"},
		{"/tokens [value]", "show or set the max token limit"},
		{"/sessions", "list server-side sessions"},
		{"/status", "show session statistics"},
		{"/quit", "exit"},
	}
	for _, h := range help {
		pad := 28 - len(h[0])
		if pad < 1 {
			pad = 1
		}
		fmt.Println(commandStyle.Render("  "+h[0]) + strings.Repeat(" ", pad) + infoStyle.Render(h[1]))
	}
}

func (r *REPL) printStatus() {
	snap := r.bind.Snapshot()
	sess := r.sessions.Current()

	fmt.Println(infoStyle.Render("Session:     " + sess.ID))
	fmt.Println(infoStyle.Render("Messages:    " + util.IntToString(sess.MessageCount)))
	fmt.Println(infoStyle.Render("Model:       " + snap.ModelID))
	if snap.Custom != nil {
		fmt.Println(infoStyle.Render("Endpoint:    " + snap.Custom.BaseURL + " (custom)"))
	} else if snap.Provider != "" {
		fmt.Println(infoStyle.Render("Provider:    " + snap.Provider))
	}
	fmt.Println(infoStyle.Render("Temperature: " + strconv.FormatFloat(snap.Temperature, 'f', -1, 64)))
	fmt.Println(infoStyle.Render("Max tokens:  " + util.IntToString(snap.MaxTokens)))
}

func (r *REPL) printExitSummary() {
	if r.quiet || r.exchanges == 0 {
		return
	}
	elapsed := time.Since(r.startTime).Round(time.Second)
	fmt.Println(infoStyle.Render(fmt.Sprintf("%d exchanges, %d tokens, %s", r.exchanges, r.tokensUsed, elapsed)))
}
