// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command-line parsing and dispatch for nutrilens.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAnalyze
	CmdAsk
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name used in JSON output.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAnalyze:
		return "analyze"
	case CmdAsk:
		return "ask"
	case CmdStatus:
		return "status"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	}
	return "unknown"
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet      bool
	Verbose    bool
	JSON       bool   // Output in JSON format
	BackendURL string // Overrides backend.base_url
	NoProbe    bool   // Skip the readiness probe
	NoColor    bool   // Plain output even on a color terminal

	// Label input (analyze, ask, tui)
	File string   // Label file (.toml, .json, .yaml)
	Sets []string // field=value assignments, applied after File
	Goal string
	Diet string

	// analyze
	Watch  bool
	Export string // Report path; format from extension

	// ask
	Query       string
	Interactive bool
	WithResults bool // run an analysis round first so the answer has context

	// config
	Subcommand string
	ConfigKey  string
	ConfigVal  string
	Force      bool

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `nutrilens - nutrition label analysis from the terminal

Enter a food label, and nutrilens asks the analysis backend for a plain
reading, a health-goal fit, diet compatibility and health warnings, all at
once. Follow-up questions reuse the latest summary as context.

Usage:
  nutrilens                          Start the terminal UI (default)
  nutrilens tui [--file F] [--watch] Start the terminal UI, optionally prefilled
  nutrilens analyze [flags]          Analyze a label and print the results
  nutrilens ask "question" [flags]   Ask one question about a label
  nutrilens ask --interactive        Question loop with history
  nutrilens status                   Check whether the backend is ready
  nutrilens config [show|path|init|get|set]
  nutrilens version                  Show version information
  nutrilens help                     Show this help

Label flags (analyze, ask, tui):
  -f, --file FILE        Label file (.toml, .json, .yaml)
  --set FIELD=VALUE      Set one field; repeatable. "17g" reads as 17
  -g, --goal GOAL        weight_loss, muscle_gain, heart_health, diabetes_management
  -d, --diet DIET        keto, vegan, paleo, mediterranean, low_sodium

Analyze and tui flags:
  -w, --watch            Reload whenever the label file changes (needs --file)
  -o, --export FILE      Write a report (.md, .json or .pdf), analyze only

Ask flags:
  -i, --interactive      Start a question loop
  --with-results         Analyze first so the answer uses the summary

Config commands:
  nutrilens config show              Print the effective configuration
  nutrilens config path              Print the config file path
  nutrilens config init [--force]    Write a default config.toml
  nutrilens config get KEY           Print one value (e.g. backend.base_url)
  nutrilens config set KEY VALUE     Change one value and save

Global flags:
  --json                 Machine-readable output
  --url URL              Backend base URL (overrides config)
  --no-probe             Skip the readiness check
  --no-color             Disable colors (NO_COLOR works too)
  -q, --quiet            Less output
  -v, --verbose          Log requests to stderr

Fields:
  food_name, serving_size, calories, total_fat, saturated_fat, trans_fat,
  cholesterol, sodium, total_carbs, dietary_fiber, total_sugars,
  added_sugars, protein, vitamin_d, calcium, iron, potassium

Examples:
  nutrilens analyze --set food_name="Greek Yogurt" --set calories=130 --set protein=17g
  nutrilens analyze -f yogurt.toml --goal muscle_gain --export yogurt.pdf
  nutrilens ask "Is this keto friendly?" -f yogurt.toml --with-results

Environment:
  NUTRILENS_HOME, NUTRILENS_BACKEND_URL, NUTRILENS_TIMEOUT,
  NUTRILENS_HEALTH_GOAL, NUTRILENS_DIET_TYPE, NUTRILENS_SKIP_PROBE, NO_COLOR

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// HandleHelp prints usage.
func HandleHelp() {
	PrintUsage()
}

// HandleVersion prints version information.
func HandleVersion(args Args) error {
	if args.JSON {
		return NewJSONResponse("version", map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
			"go":         runtime.Version(),
		}).Print()
	}
	fmt.Printf("nutrilens version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
	fmt.Printf("  Go:         %s\n", runtime.Version())
	return nil
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses os.Args.
func Parse() (Command, Args, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses command-line arguments and returns the command and args.
func ParseArgs(argv []string) (Command, Args, error) {
	remaining, parsed := parseGlobalFlags(argv)
	if parsed.NoColor {
		ForceColorsEnabled(false)
	}

	if len(remaining) == 0 {
		return CmdTUI, parsed, nil
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		p := NewArgParser(remaining, "watch", "w")
		parsed.Watch = p.BoolFlag("watch", "w")
		if err := parseLabelArgs(&parsed, p, "tui", "watch", "w"); err != nil {
			return CmdTUI, parsed, err
		}
		if parsed.Watch && parsed.File == "" {
			return CmdTUI, parsed, ErrMissingArgument("--file", "nutrilens tui --watch --file yogurt.toml")
		}
		return CmdTUI, parsed, nil

	case "analyze", "a":
		p := NewArgParser(remaining, "watch", "w")
		parsed.Watch = p.BoolFlag("watch", "w")
		parsed.Export = p.Flag("export", "o")
		if err := parseLabelArgs(&parsed, p, "analyze", "watch", "w", "export", "o"); err != nil {
			return CmdAnalyze, parsed, err
		}
		if parsed.Watch && parsed.File == "" {
			return CmdAnalyze, parsed, ErrMissingArgument("--file", "nutrilens analyze --watch --file yogurt.toml")
		}
		return CmdAnalyze, parsed, nil

	case "ask":
		p := NewArgParser(remaining, "interactive", "i", "with-results")
		parsed.Interactive = p.BoolFlag("interactive", "i")
		parsed.WithResults = p.BoolFlag("with-results")
		parsed.Query = JoinPositionalArgs(p, 0)
		if err := parseLabelArgs(&parsed, p, "ask", "interactive", "i", "with-results"); err != nil {
			return CmdAsk, parsed, err
		}
		if parsed.Query == "" && !parsed.Interactive {
			return CmdAsk, parsed, ErrMissingArgument("question", `nutrilens ask "Is this keto friendly?" -f yogurt.toml`)
		}
		return CmdAsk, parsed, nil

	case "status", "s":
		return CmdStatus, parsed, nil

	case "config":
		p := NewArgParser(remaining, "force")
		parsed.Subcommand = strings.ToLower(p.Subcommand())
		if parsed.Subcommand == "" {
			parsed.Subcommand = "show"
		}
		parsed.ConfigKey = p.Positional(1)
		parsed.ConfigVal = JoinPositionalArgs(p, 2)
		parsed.Force = p.BoolFlag("force")
		return CmdConfig, parsed, nil

	case "version":
		return CmdVersion, parsed, nil

	case "help", "-h", "--help":
		return CmdHelp, parsed, nil
	}

	return CmdHelp, parsed, NewUsageError("command", cmd, "unknown command, see 'nutrilens help'")
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--no-probe":
			parsed.NoProbe = true
		case "--no-color":
			parsed.NoColor = true
		case "--version":
			remaining = append(remaining, "version")
		case "--url":
			if i+1 < len(args) {
				i++
				parsed.BackendURL = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--url=") {
				parsed.BackendURL = strings.TrimPrefix(arg, "--url=")
			} else {
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsed
}

// parseLabelArgs reads the label flags shared by analyze, ask and tui and
// rejects any flag the command does not know.
func parseLabelArgs(a *Args, p *ArgParser, command string, extra ...string) error {
	a.File = p.Flag("file", "f")
	a.Sets = p.Flags("set")
	a.Goal = p.Flag("goal", "g")
	a.Diet = p.Flag("diet", "d")

	for _, s := range a.Sets {
		if _, _, err := ParseAssignment(s); err != nil {
			return err
		}
	}

	allowed := append([]string{"file", "f", "set", "goal", "g", "diet", "d"}, extra...)
	if unknown := p.Unknown(allowed...); len(unknown) > 0 {
		return NewUsageError("flag", strings.Join(unknown, ", "), "not supported by "+command)
	}
	if command != "ask" && p.PositionalCount() > 0 && a.File == "" {
		// "nutrilens analyze yogurt.toml" reads as --file
		a.File = p.Positional(0)
	}
	return nil
}
