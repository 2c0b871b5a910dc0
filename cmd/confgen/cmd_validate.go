package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/confgen-ops/confgen/pkg/audit"
	"github.com/confgen-ops/confgen/pkg/cli"
	"github.com/confgen-ops/confgen/pkg/plugin"
	"github.com/confgen-ops/confgen/pkg/util"
	"github.com/confgen-ops/confgen/pkg/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate <site>...",
	Short: "Validate site configurations",
	Long: `Run the full validation pass over one or more sites: the
generic semantic checks plus the target vendor's own constraints.

Examples:
  confgen validate branch-nyc
  confgen validate branch-nyc branch-sfo`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		val := validate.New()
		failed := 0

		for _, name := range args {
			err := validateSite(val, name)
			status := cli.Green("ok")
			if err != nil {
				failed++
				status = cli.Red("failed")
			}
			fmt.Printf("%s %s\n", cli.DotPad(name, 30), status)
			if err != nil {
				var verr *util.ValidationError
				if errors.As(err, &verr) {
					for _, msg := range verr.Errors {
						fmt.Printf("    %s\n", msg)
					}
				} else {
					fmt.Printf("    %v\n", err)
				}
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d sites failed validation", failed, len(args))
		}
		return nil
	},
}

// validateSite resolves a site and runs both validation passes.
func validateSite(val *validate.Validator, name string) error {
	start := time.Now()
	event := audit.NewEvent(currentUser(), name, audit.OpValidate)

	err := func() error {
		site, err := loader.ResolveSiteAs(name, vendorOverride)
		if err != nil {
			return err
		}
		vendor, err := loader.GetVendor(site.Vendor)
		if err != nil {
			return err
		}
		event.WithVendor(site.Vendor)

		if err := val.Validate(site, vendor); err != nil {
			return err
		}

		p, err := plugin.Get(site.Vendor)
		if err != nil {
			return err
		}
		return p.Validate(site)
	}()

	event.WithDuration(time.Since(start))
	if err != nil {
		event.WithError(err)
	} else {
		event.WithSuccess()
	}
	if logErr := audit.Log(event); logErr != nil {
		util.Warnf("audit: %v", logErr)
	}

	return err
}
