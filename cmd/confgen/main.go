// Confgen - Multi-Vendor Branch Configuration Generator
//
// A CLI tool for generating and deploying branch-site network
// configuration from vendor-neutral definitions:
//   - One definition per site, defaults inherited site > region > global
//   - Vendor plugins render MikroTik, SonicWall, and UniFi artifacts
//   - Dry-run by default (preview the plan, require -x to execute)
//   - Audit logging of all generation and deployment activity
//
//	confgen <verb> [site] [flags] [-x]
//
// Examples:
//
//	confgen list-sites                        # Definitions inventory
//	confgen show branch-nyc                   # Resolved configuration
//	confgen validate branch-nyc               # Full validation pass
//	confgen generate branch-nyc               # Preview artifacts
//	confgen generate branch-nyc -x            # Write artifacts to disk
//	confgen deploy branch-nyc --host 10.0.0.1 -x
//	confgen import-fleet                      # Expand fleet.csv to site files
//	confgen audit list --site branch-nyc
package main

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/confgen-ops/confgen/pkg/audit"
	"github.com/confgen-ops/confgen/pkg/settings"
	"github.com/confgen-ops/confgen/pkg/spec"
	"github.com/confgen-ops/confgen/pkg/util"
	"github.com/confgen-ops/confgen/pkg/version"

	// Vendor plugins register themselves at init time.
	_ "github.com/confgen-ops/confgen/pkg/plugin/mikrotik"
	_ "github.com/confgen-ops/confgen/pkg/plugin/sonicwall"
	_ "github.com/confgen-ops/confgen/pkg/plugin/unifi"
)

var (
	// Global option flags
	definitionsDir string
	outputDir      string
	vendorOverride string
	executeMode    bool
	verbose        bool
	jsonOutput     bool

	// Global state
	userSettings *settings.Settings
	loader       *spec.Loader
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "confgen",
	Short:             "Multi-Vendor Branch Configuration Generator",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Confgen renders branch-site network configuration from
vendor-neutral definitions and deploys it to the target platform.

Write commands preview their plan by default; use -x to execute.

  confgen <verb> [site] [flags] [-x]`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for commands that manage the tool itself
		if isSettingsOrHelp(cmd) {
			return nil
		}

		// Load user settings
		var err error
		userSettings, err = settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			userSettings = &settings.Settings{}
		}

		// Apply defaults from settings
		if definitionsDir == "" {
			definitionsDir = userSettings.GetDefinitionsDir()
		}
		if outputDir == "" {
			outputDir = userSettings.GetOutputDir()
		}

		// Set log level: quiet by default, verbose on -v
		if verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}

		// Initialize definitions loader
		loader = spec.NewLoader(definitionsDir)
		if err := loader.Load(); err != nil {
			return fmt.Errorf("loading definitions: %w", err)
		}

		// Initialize audit logger
		auditLogger, err := audit.NewFileLogger(filepath.Join(definitionsDir, "audit.log"), audit.RotationConfig{
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxBackups: 10,
		})
		if err != nil {
			util.Warnf("Could not initialize audit logging: %v", err)
		} else {
			audit.SetDefaultLogger(auditLogger)
		}

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&definitionsDir, "definitions", "D", "", "Definitions directory")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "out", "o", "", "Artifact output directory")
	rootCmd.PersistentFlags().StringVarP(&vendorOverride, "vendor", "V", "", "Override the site's target vendor")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Write flag (-x) is local to commands that mutate something
	for _, cmd := range []*cobra.Command{generateCmd, deployCmd, importFleetCmd} {
		cmd.Flags().BoolVarP(&executeMode, "execute", "x", false, "Execute (default is dry-run preview)")
	}

	// Structured output flag
	for _, cmd := range []*cobra.Command{listSitesCmd, listVendorsCmd, showCmd, auditListCmd} {
		cmd.Flags().BoolVar(&jsonOutput, "json", false, "JSON output")
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "query", Title: "Inspection:"},
		&cobra.Group{ID: "mutate", Title: "Generation & Deployment:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)

	for _, cmd := range []*cobra.Command{listSitesCmd, listVendorsCmd, showCmd, validateCmd} {
		cmd.GroupID = "query"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{generateCmd, deployCmd, importFleetCmd} {
		cmd.GroupID = "mutate"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{settingsCmd, auditCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

func isSettingsOrHelp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "settings", "help", "version", "completion":
			return true
		}
	}
	return false
}

// currentUser returns the invoking username for audit events.
func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return util.CoalesceString(os.Getenv("USER"), "unknown")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("confgen", version.Info())
	},
}
