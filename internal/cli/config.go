// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - The "nutrilens config" command.
//
// Subcommands:
//   show             Print the effective configuration (file + env + flags)
//   path             Print the config file path
//   init [--force]   Write a default config.toml
//   get KEY          Print one value, e.g. backend.base_url
//   set KEY VALUE    Change one value in config.toml
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nutrilens/internal/config"
)

var (
	configSectionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true)

	configKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(20)
)

// HandleConfig runs the config command.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args)
	case "path":
		return handleConfigPath(args)
	case "init":
		return handleConfigInit(args)
	case "get":
		return handleConfigGet(args)
	case "set":
		return handleConfigSet(args)
	}
	return NewUsageError("config subcommand", args.Subcommand, "expected show, path, init, get or set")
}

func handleConfigShow(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("config show", cfg).Print()
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render("nutrilens Configuration"))
	fmt.Println(RenderSeparator(41))

	section := ""
	for _, key := range config.GetAllKeys() {
		sec, name, found := strings.Cut(key, ".")
		if !found {
			sec, name = "", key
		}
		if sec != section {
			section = sec
			fmt.Println()
			fmt.Println(configSectionStyle.Render("[" + sec + "]"))
		}
		v, err := cfg.Get(key)
		if err != nil {
			continue
		}
		val := fmt.Sprint(v)
		if val == "" {
			val = DimStyle.Render("(unset)")
		}
		fmt.Printf("  %s%s\n", configKeyStyle.Render(name+":"), ValueStyle.Render(val))
	}
	fmt.Println()

	path, _ := config.ActivePath()
	fmt.Println(RenderSeparator(41))
	fmt.Printf("Config file: %s\n", DimStyle.Render(path))
	fmt.Println()
	return nil
}

func handleConfigPath(args Args) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return NewCommandError("config", "path", "cannot determine config directory", err)
	}
	_, statErr := os.Stat(path)
	exists := statErr == nil

	if args.JSON {
		return NewJSONResponse("config path", map[string]any{
			"path":   path,
			"exists": exists,
		}).Print()
	}
	fmt.Println(path)
	return nil
}

func handleConfigInit(args Args) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return NewCommandError("config", "init", "cannot determine config directory", err)
	}
	if _, err := os.Stat(path); err == nil && !args.Force {
		return NewCommandError("config", "init", path+" already exists (use --force to overwrite)", nil)
	}
	if err := config.EnsureConfigDir(); err != nil {
		return NewCommandError("config", "init", "cannot create config directory", err)
	}
	if err := config.SaveTOML(config.Default(), path); err != nil {
		return NewCommandError("config", "init", "write failed", err)
	}

	if args.JSON {
		return NewJSONResponse("config init", map[string]string{"path": path}).Print()
	}
	fmt.Println(SuccessStyle.Render("Wrote " + path))
	return nil
}

func handleConfigGet(args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("KEY", "nutrilens config get backend.base_url")
	}
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	v, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return NewUsageError("key", args.ConfigKey, err.Error())
	}
	if args.JSON {
		return NewJSONResponse("config get", map[string]any{"key": args.ConfigKey, "value": v}).Print()
	}
	fmt.Println(v)
	return nil
}

// handleConfigSet edits the config file Load reads. Environment and flag
// overrides are not written back.
func handleConfigSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("KEY VALUE", "nutrilens config set backend.base_url http://localhost:8000")
	}

	path, err := config.ActivePath()
	if err != nil {
		return NewCommandError("config", "set", "cannot determine config directory", err)
	}
	cfg := config.Default()
	if _, statErr := os.Stat(path); statErr == nil {
		if err := config.LoadFile(cfg, path); err != nil {
			return NewCommandError("config", "set", "cannot read "+path, err)
		}
		cfg.SetDefaults()
	}

	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewUsageError("key", args.ConfigKey, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		var verrs config.ValidateErrors
		if errors.As(err, &verrs) {
			return NewUsageError(args.ConfigKey, args.ConfigVal, verrs.Error())
		}
		return err
	}
	if err := config.EnsureConfigDir(); err != nil {
		return NewCommandError("config", "set", "cannot create config directory", err)
	}
	if err := config.SaveFile(cfg, path); err != nil {
		return NewCommandError("config", "set", "write failed", err)
	}

	if args.JSON {
		return NewJSONResponse("config set", map[string]string{"key": args.ConfigKey, "value": args.ConfigVal}).Print()
	}
	fmt.Printf("%s %s = %s\n", SuccessStyle.Render("Set"), args.ConfigKey, args.ConfigVal)
	return nil
}
