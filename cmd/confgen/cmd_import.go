package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/confgen-ops/confgen/pkg/audit"
	"github.com/confgen-ops/confgen/pkg/cli"
	"github.com/confgen-ops/confgen/pkg/util"
)

var importFleetCmd = &cobra.Command{
	Use:   "import-fleet",
	Short: "Expand fleet.csv into site definition files",
	Long: `Expand the fleet inventory CSV into per-site definition files
under <definitions>/sites/. Each row becomes sites/<name>.yaml;
existing definitions are never overwritten.

Dry-run by default: the expansion is previewed and nothing is
written without -x.

Examples:
  confgen import-fleet
  confgen import-fleet -x`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		event := audit.NewEvent(currentUser(), "fleet", audit.OpImport).
			WithExecuteMode(executeMode)

		written, err := importFleet()

		event.WithDuration(time.Since(start)).WithArtifacts(written)
		if err != nil {
			event.WithError(err)
		} else {
			event.WithSuccess()
		}
		if logErr := audit.Log(event); logErr != nil {
			util.Warnf("audit: %v", logErr)
		}

		return err
	},
}

// importFleet expands fleet rows into site files, returning the names
// it wrote (or would write in dry-run).
func importFleet() ([]string, error) {
	fleet, err := loader.LoadFleet()
	if err != nil {
		return nil, err
	}
	if len(fleet) == 0 {
		fmt.Printf("No fleet.csv found in %s\n", definitionsDir)
		return nil, nil
	}

	sitesDir := filepath.Join(definitionsDir, "sites")
	if executeMode {
		if err := os.MkdirAll(sitesDir, 0755); err != nil {
			return nil, fmt.Errorf("creating sites directory: %w", err)
		}
	}

	var written []string
	skipped := 0
	for _, site := range fleet {
		if site.Definition.Vendor == "" {
			site.Definition.Vendor = userSettings.DefaultVendor
		}

		if existingSiteFile(sitesDir, site.Name) {
			fmt.Printf("%s %s\n", cli.DotPad(site.Name, 30), cli.Yellow("exists, skipped"))
			skipped++
			continue
		}

		path := filepath.Join(sitesDir, site.Name+".yaml")
		if !executeMode {
			fmt.Printf("%s [NEW] %s\n", cli.DotPad(site.Name, 30), path)
			written = append(written, site.Name)
			continue
		}

		data, err := yaml.Marshal(site.Definition)
		if err != nil {
			return written, fmt.Errorf("site %s: %w", site.Name, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return written, fmt.Errorf("site %s: %w", site.Name, err)
		}
		fmt.Printf("%s %s\n", cli.DotPad(site.Name, 30), cli.Green("written"))
		written = append(written, site.Name)
	}

	if !executeMode {
		fmt.Printf("\n%d site(s) to write, %d skipped (dry-run, use -x to write)\n", len(written), skipped)
	} else {
		fmt.Printf("\n%d site(s) written, %d skipped\n", len(written), skipped)
	}
	return written, nil
}

// existingSiteFile reports whether a definition already exists for the
// site under any supported extension.
func existingSiteFile(dir, name string) bool {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		if _, err := os.Stat(filepath.Join(dir, name+ext)); err == nil {
			return true
		}
	}
	return false
}
