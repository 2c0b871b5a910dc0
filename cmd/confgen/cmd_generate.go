package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/confgen-ops/confgen/pkg/audit"
	"github.com/confgen-ops/confgen/pkg/cli"
	"github.com/confgen-ops/confgen/pkg/deploy"
	"github.com/confgen-ops/confgen/pkg/plugin"
	"github.com/confgen-ops/confgen/pkg/render"
	"github.com/confgen-ops/confgen/pkg/util"
	"github.com/confgen-ops/confgen/pkg/validate"
)

var generateCmd = &cobra.Command{
	Use:   "generate <site>...",
	Short: "Generate configuration artifacts for sites",
	Long: `Validate, render, and export configuration artifacts.

By default the export plan is previewed; -x writes the artifacts
under <out>/<site>/<vendor>/.

Examples:
  confgen generate branch-nyc
  confgen generate branch-nyc -x
  confgen generate branch-nyc -V unifi
  confgen generate branch-nyc branch-sfo -x -o /srv/out`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			bundle, err := generateSite(cmd.Context(), name)
			if err != nil {
				return fmt.Errorf("site %s: %w", name, err)
			}

			exporter := deploy.NewExporter(outputDir)
			if executeMode {
				plan, err := exporter.Export(bundle)
				if err != nil {
					return err
				}
				fmt.Printf("%s\n%s", cli.Bold(name), plan.String())
			} else {
				plan := exporter.Plan(bundle)
				fmt.Printf("%s (dry-run, use -x to write)\n%s", cli.Bold(name), plan.String())
			}
			for _, w := range bundle.Warnings {
				fmt.Printf("  %s %s\n", cli.Yellow("warning:"), w)
			}
		}
		return nil
	},
}

// generateSite resolves, validates, and renders one site.
func generateSite(ctx context.Context, name string) (*render.Bundle, error) {
	start := time.Now()
	event := audit.NewEvent(currentUser(), name, audit.OpGenerate).WithExecuteMode(executeMode)

	bundle, err := func() (*render.Bundle, error) {
		site, err := loader.ResolveSiteAs(name, vendorOverride)
		if err != nil {
			return nil, err
		}
		vendor, err := loader.GetVendor(site.Vendor)
		if err != nil {
			return nil, err
		}
		event.WithVendor(site.Vendor)

		if err := validate.New().Validate(site, vendor); err != nil {
			return nil, err
		}

		p, err := plugin.Get(site.Vendor)
		if err != nil {
			return nil, err
		}
		if err := p.Validate(site); err != nil {
			return nil, err
		}
		return p.Generate(ctx, site)
	}()

	event.WithDuration(time.Since(start))
	if err != nil {
		event.WithError(err)
	} else {
		names := make([]string, 0, len(bundle.Artifacts))
		for _, a := range bundle.Artifacts {
			names = append(names, a.Name)
		}
		event.WithArtifacts(names).WithSuccess()
	}
	if logErr := audit.Log(event); logErr != nil {
		util.Warnf("audit: %v", logErr)
	}

	return bundle, err
}
