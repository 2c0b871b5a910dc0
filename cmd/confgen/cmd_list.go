package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/confgen-ops/confgen/pkg/cli"
	"github.com/confgen-ops/confgen/pkg/plugin"
)

var listSitesCmd = &cobra.Command{
	Use:   "list-sites",
	Short: "List site definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := loader.ListSites()
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(names)
		}

		if len(names) == 0 {
			fmt.Println("No site definitions found")
			return nil
		}

		t := cli.NewTable("SITE", "REGION", "VENDOR", "MODEL", "CUSTOMER")
		for _, name := range names {
			def, err := loader.LoadSite(name)
			if err != nil {
				t.Row(name, cli.Red("invalid: "+err.Error()), "", "", "")
				continue
			}
			t.Row(name, def.Region, def.Vendor, orDash(def.Model), orDash(def.Customer))
		}
		t.Flush()
		return nil
	},
}

var listVendorsCmd = &cobra.Command{
	Use:   "list-vendors",
	Short: "List supported vendors",
	RunE: func(cmd *cobra.Command, args []string) error {
		vendors := loader.GetVendors()

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(vendors)
		}

		t := cli.NewTable("VENDOR", "TRANSPORT", "MODELS", "PLUGIN")
		for _, name := range plugin.Names() {
			p, _ := plugin.Get(name)
			v, ok := vendors.Vendors[name]
			if !ok {
				t.Row(name, cli.Yellow("not in vendors.json"), "", p.Description())
				continue
			}
			models := "any"
			if len(v.Models) > 0 {
				models = strings.Join(v.Models, ",")
			}
			t.Row(name, v.Transport, models, p.Description())
		}
		t.Flush()
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
