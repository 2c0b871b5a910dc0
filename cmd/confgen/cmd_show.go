package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/confgen-ops/confgen/pkg/cli"
)

var showCmd = &cobra.Command{
	Use:   "show <site>",
	Short: "Show the fully resolved configuration for a site",
	Long: `Show a site configuration after inheritance and derivation:
defaults applied site > region > global, gateways and DHCP pools
derived from subnets, and firewall baselines merged in.

Examples:
  confgen show branch-nyc
  confgen show branch-nyc --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := loader.ResolveSite(args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(site)
		}

		fmt.Printf("%s  (%s, %s", cli.Bold(site.Name), site.Region, site.Vendor)
		if site.Model != "" {
			fmt.Printf(" %s", site.Model)
		}
		fmt.Println(")")
		if site.Customer != "" {
			fmt.Printf("Customer: %s\n", site.Customer)
		}
		fmt.Println()

		data, err := yaml.Marshal(site)
		if err != nil {
			return err
		}
		fmt.Println(strings.TrimRight(string(data), "\n"))
		return nil
	},
}
