package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confgen-ops/confgen/pkg/cli"
	"github.com/confgen-ops/confgen/pkg/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage persistent settings",
	Long: `Manage persistent settings stored in ~/.confgen/settings.json.

Settings provide defaults for context flags:
  - definitions_dir: Used when -D is not specified
  - output_dir:      Used when -o is not specified
  - redis_addr:      Deploy lock coordination (optional)
  - controller_url:  UniFi controller address

Examples:
  confgen settings show
  confgen settings set definitions /etc/confgen
  confgen settings set redis localhost:6379
  confgen settings clear`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		fmt.Printf("Settings file: %s\n\n", settings.DefaultSettingsPath())

		t := cli.NewTable("SETTING", "VALUE")

		printSetting := func(name, value string) {
			if value == "" {
				value = "(not set)"
			}
			t.Row(name, value)
		}

		printSetting("definitions_dir", s.DefinitionsDir)
		printSetting("output_dir", s.OutputDir)
		printSetting("default_vendor", s.DefaultVendor)
		printSetting("redis_addr", s.RedisAddr)
		printSetting("controller_url", s.ControllerURL)
		printSetting("controller_user", s.ControllerUser)

		t.Flush()
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Set a setting value",
	Long: `Set a persistent setting value.

Available settings:
  definitions     - Definitions directory (-D flag default)
  out             - Artifact output directory (-o flag default)
  vendor          - Default vendor for new fleet rows
  redis           - Redis address for deploy locks
  controller      - UniFi controller URL
  controller_user - UniFi controller login

Examples:
  confgen settings set definitions /etc/confgen
  confgen settings set out /srv/confgen/out
  confgen settings set controller https://unifi.example.com:8443`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		setting := args[0]
		value := args[1]

		s, err := settings.Load()
		if err != nil {
			s = &settings.Settings{}
		}

		switch setting {
		case "definitions", "definitions_dir":
			s.DefinitionsDir = value
			fmt.Printf("Definitions directory set to: %s\n", value)
		case "out", "output_dir":
			s.OutputDir = value
			fmt.Printf("Output directory set to: %s\n", value)
		case "vendor", "default_vendor":
			s.DefaultVendor = value
			fmt.Printf("Default vendor set to: %s\n", value)
		case "redis", "redis_addr":
			s.RedisAddr = value
			fmt.Printf("Redis address set to: %s\n", value)
		case "controller", "controller_url":
			s.ControllerURL = value
			fmt.Printf("Controller URL set to: %s\n", value)
		case "controller_user":
			s.ControllerUser = value
			fmt.Printf("Controller user set to: %s\n", value)
		default:
			return fmt.Errorf("unknown setting: %s (valid: definitions, out, vendor, redis, controller, controller_user)", setting)
		}

		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}

		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <setting>",
	Short: "Get a setting value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setting := args[0]

		s, err := settings.Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		var value string
		switch setting {
		case "definitions", "definitions_dir":
			value = s.DefinitionsDir
		case "out", "output_dir":
			value = s.OutputDir
		case "vendor", "default_vendor":
			value = s.DefaultVendor
		case "redis", "redis_addr":
			value = s.RedisAddr
		case "controller", "controller_url":
			value = s.ControllerURL
		case "controller_user":
			value = s.ControllerUser
		default:
			return fmt.Errorf("unknown setting: %s (valid: definitions, out, vendor, redis, controller, controller_user)", setting)
		}

		if value == "" {
			fmt.Println("(not set)")
		} else {
			fmt.Println(value)
		}
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := &settings.Settings{}
		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Println("All settings cleared.")
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show settings file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(settings.DefaultSettingsPath())
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsClearCmd)
	settingsCmd.AddCommand(settingsPathCmd)
}
