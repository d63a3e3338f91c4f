// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - The "nutrilens ask" command.
//
// Sends one follow-up question about a label, or with --interactive opens a
// question loop with line editing and history. The latest simplification is
// sent as context; --with-results analyzes first so there is one.
//
// Examples:
//   nutrilens ask "Is this keto friendly?" -f yogurt.toml
//   nutrilens ask "Good after a workout?" -f yogurt.toml --with-results --json
//   nutrilens ask -i -f yogurt.toml
//
// Interactive commands:
//   /1 .. /9            Put a suggested follow-up on the prompt
//   /analyze, /a        Run an analysis round
//   /set FIELD=VALUE    Change one field
//   /goal GOAL          Change the health goal
//   /diet DIET          Change the diet type
//   /show               Print the label
//   /clear              Clear the label and results
//   /export [FILE]      Write a report
//   /help, /h           Show commands
//   /quit, /q           Exit
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/jeranaias/nutrilens/internal/config"
	"github.com/jeranaias/nutrilens/internal/export"
	"github.com/jeranaias/nutrilens/internal/model"
	"github.com/jeranaias/nutrilens/internal/util"
)

// HandleAsk runs the ask command.
func HandleAsk(args Args) error {
	if args.Interactive {
		if err := RequiresTTY("interactive ask"); err != nil {
			return err
		}
	}

	rt, err := NewRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if args.WithResults || args.Interactive {
		rt.Probe(ctx)
	}
	if args.WithResults {
		if !rt.Session.Ready() {
			return notReady(rt)
		}
		if err := rt.Analyze(ctx); err != nil {
			return err
		}
	}

	if args.Interactive {
		return runAskLoop(ctx, rt, args)
	}
	return askOnce(ctx, rt, args, args.Query)
}

// askOnce sends question and prints the answer.
func askOnce(ctx context.Context, rt *Runtime, args Args, question string) error {
	rt.Session.SetQuestion(question)
	if err := rt.Ask(ctx); err != nil {
		return err
	}
	turn := rt.Session.Turn()

	if args.JSON {
		return NewJSONResponse("ask", turn).Print()
	}
	displayMarkdown(export.TurnMarkdown(turn), rt.Config.UI.Theme, rt.Config.UI.RenderMarkdown)
	return nil
}

// =============================================================================
// INTERACTIVE LOOP
// =============================================================================

// AskCLI provides input history and line editing for the question loop.
type AskCLI struct {
	line        *liner.State
	historyFile string
}

// NewAskCLI creates an AskCLI and loads saved history.
func NewAskCLI() *AskCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completeSlash)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	c := &AskCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "ask_history"),
	}
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
	return c
}

// ReadInput reads one line. A non-empty prefill is placed on the prompt
// for editing.
func (c *AskCLI) ReadInput(prompt, prefill string) (string, error) {
	var input string
	var err error
	if prefill != "" {
		input, err = c.line.PromptWithSuggestion(prompt, prefill, -1)
	} else {
		input, err = c.line.Prompt(prompt)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history (0600) and restores the terminal.
func (c *AskCLI) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

var slashCommands = []string{
	"/analyze", "/set ", "/goal ", "/diet ", "/show", "/clear", "/export", "/help", "/quit",
}

func completeSlash(line string) []string {
	if !strings.HasPrefix(line, "/") {
		return nil
	}
	var out []string
	for _, c := range slashCommands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

func runAskLoop(ctx context.Context, rt *Runtime, args Args) error {
	in := NewAskCLI()
	defer in.Close()

	printAskBanner(rt)

	prefill := ""
	for {
		input, err := in.ReadInput(PromptStyle.Render("nutrilens> "), prefill)
		prefill = ""
		if err != nil {
			// Ctrl+C (liner.ErrPromptAborted) or Ctrl+D
			fmt.Println()
			return nil
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		if strings.EqualFold(trimmed, "exit") || strings.EqualFold(trimmed, "quit") {
			return nil
		}

		if strings.HasPrefix(trimmed, "/") {
			next, quit, err := handleAskSlash(ctx, rt, args, trimmed)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("[Error]"), UserFacing(err))
			}
			if quit {
				return nil
			}
			prefill = next
			continue
		}

		if err := askOnce(ctx, rt, args, input); err != nil {
			fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("[Error]"), UserFacing(err))
			continue
		}
		printSuggestions(rt.Session.Turn())
	}
}

// handleAskSlash runs one slash command. It returns text to prefill the
// next prompt, and whether to quit.
func handleAskSlash(ctx context.Context, rt *Runtime, args Args, input string) (string, bool, error) {
	parts := strings.Fields(input)
	command := strings.ToLower(parts[0])
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	if n, err := strconv.Atoi(strings.TrimPrefix(command, "/")); err == nil {
		if err := rt.Session.SelectSuggestion(n - 1); err != nil {
			return "", false, err
		}
		return rt.Session.Question(), false, nil
	}

	switch command {
	case "/help", "/h", "/?", "/":
		printAskHelp()

	case "/quit", "/q", "/exit":
		return "", true, nil

	case "/analyze", "/a":
		if err := rt.Analyze(ctx); err != nil {
			return "", false, err
		}
		res := rt.Session.Results()
		displayMarkdown(export.ResultsMarkdown(res, rt.Session.Selector()), rt.Config.UI.Theme, rt.Config.UI.RenderMarkdown)

	case "/set":
		name, value, err := ParseAssignment(rest)
		if err != nil {
			return "", false, err
		}
		rec, err := rt.Session.SetField(name, value)
		if err != nil {
			return "", false, err
		}
		fmt.Println(RenderField(name+": ", displayField(rec, name)))

	case "/goal":
		if rest == "" {
			fmt.Println(RenderField("Health goal: ", rt.Session.Selector().HealthGoal.Label()))
			break
		}
		if err := rt.Session.SetHealthGoal(model.HealthGoal(rest)); err != nil {
			return "", false, err
		}

	case "/diet":
		if rest == "" {
			fmt.Println(RenderField("Diet type: ", rt.Session.Selector().DietType.Label()))
			break
		}
		if err := rt.Session.SetDietType(model.DietType(rest)); err != nil {
			return "", false, err
		}

	case "/show":
		printLabel(rt.Session.Record())

	case "/clear", "/c":
		rt.Session.Clear()
		fmt.Println(DimStyle.Render("[Label cleared]"))

	case "/export":
		report := export.NewReport(rt.Session.Snapshot())
		if rest != "" {
			return "", false, exportReport(report, rest, args)
		}
		path, err := exportDefault(report, rt.Config)
		if err != nil {
			return "", false, err
		}
		fmt.Println(SuccessStyle.Render("Saved report to " + path))

	default:
		return "", false, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
	return "", false, nil
}

// exportDefault writes report into the configured export directory.
func exportDefault(report *export.Report, cfg *config.Config) (string, error) {
	opts := export.DefaultOptions()
	opts.OutputDir = cfg.Export.Dir
	exporter, err := export.ForFormat(cfg.Export.Format, opts)
	if err != nil {
		return "", err
	}
	return export.ExportToFile(report, exporter, opts)
}

func displayField(rec model.NutritionRecord, name string) string {
	v, ok := rec.Get(name)
	if !ok || v == "" {
		return "(empty)"
	}
	return v
}

func printLabel(rec model.NutritionRecord) {
	for _, name := range model.FieldNames() {
		fmt.Println(RenderField(util.PadRight(name, 16), displayField(rec, name)))
	}
}

func printSuggestions(turn *model.ConversationTurn) {
	if turn == nil || len(turn.FollowUpSuggestions) == 0 {
		return
	}
	fmt.Println(DimStyle.Render("Suggested follow-ups:"))
	for i, s := range turn.FollowUpSuggestions {
		fmt.Printf("  %s %s\n", PromptStyle.Render(fmt.Sprintf("/%d", i+1)), s)
	}
	fmt.Println()
}

func printAskBanner(rt *Runtime) {
	vs := rt.Session.Snapshot()
	title := vs.Record.FoodName
	if title == "" {
		title = "no label yet, use /set food_name=..."
	}
	fmt.Println(TitleStyle.Render("nutrilens ask") + "  " + RenderReadiness(vs.Ready))
	fmt.Println(RenderField("Label: ", title))
	fmt.Println(RenderField("Goal:  ", vs.Selector.HealthGoal.Label()+", "+vs.Selector.DietType.Label()))
	fmt.Println(DimStyle.Render("Type a question, or /help. Ctrl+D exits."))
	fmt.Println()
}

func printAskHelp() {
	commands := []struct {
		cmd  string
		desc string
	}{
		{"/1 .. /9", "Put a suggested follow-up on the prompt"},
		{"/analyze, /a", "Run an analysis round"},
		{"/set F=V", "Change one field"},
		{"/goal [GOAL]", "Show or change the health goal"},
		{"/diet [DIET]", "Show or change the diet type"},
		{"/show", "Print the label"},
		{"/clear, /c", "Clear the label and results"},
		{"/export [FILE]", "Write a report"},
		{"/quit, /q", "Exit"},
	}
	fmt.Println()
	for _, c := range commands {
		fmt.Printf("  %s  %s\n", PromptStyle.Render(util.PadRight(c.cmd, 15)), DimStyle.Render(c.desc))
	}
	fmt.Println()
}
