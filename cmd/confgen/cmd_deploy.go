package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/confgen-ops/confgen/pkg/audit"
	"github.com/confgen-ops/confgen/pkg/cli"
	"github.com/confgen-ops/confgen/pkg/deploy"
	"github.com/confgen-ops/confgen/pkg/plugin"
	"github.com/confgen-ops/confgen/pkg/render"
	"github.com/confgen-ops/confgen/pkg/util"
)

var (
	deployHost     string
	deployPort     int
	deployUser     string
	deployPassword string
	deployInsecure bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy <site>",
	Short: "Deploy configuration to a site's device",
	Long: `Generate and push configuration to the target device or
controller. The transport comes from the vendor plugin: SSH for
MikroTik, controller REST for UniFi, file export for SonicWall.

Dry-run by default: the plan is previewed and nothing is pushed
without -x. With Redis configured in settings, concurrent deploys
to the same site are refused.

Examples:
  confgen deploy branch-nyc --host 10.0.0.1
  confgen deploy branch-nyc --host 10.0.0.1 -x
  confgen deploy branch-sfo --host unifi.example.com:8443 --user admin -x`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		bundle, err := generateSite(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("site %s: %w", name, err)
		}

		// Controller-based vendors can take their target from settings
		host := deployHost
		if host == "" && bundle.Vendor == "unifi" {
			host = userSettings.ControllerURL
		}

		opts := deploy.Options{
			Host:      host,
			Port:      deployPort,
			Username:  util.CoalesceString(deployUser, userSettings.ControllerUser, "admin"),
			Password:  deployPassword,
			Insecure:  deployInsecure,
			OutputDir: outputDir,
			Execute:   executeMode,
		}

		if !executeMode {
			fmt.Printf("%s (dry-run, use -x to deploy)\n", cli.Bold(name))
			fmt.Printf("Target: %s\n", orDash(host))
			if locker := deploy.NewLocker(userSettings.RedisAddr); locker != nil {
				defer locker.Close()
				if rec, err := locker.LastDeploy(cmd.Context(), name); err == nil {
					fmt.Printf("Last deploy: %s by %s (config %s)\n",
						rec.Timestamp.Format("2006-01-02 15:04:05"), rec.User, rec.ConfigHash)
				}
			}
			fmt.Print(deploy.NewExporter(outputDir).Plan(bundle).String())
			return nil
		}

		return deploySite(cmd.Context(), bundle, opts)
	},
}

func init() {
	deployCmd.Flags().StringVar(&deployHost, "host", "", "Device or controller address")
	deployCmd.Flags().IntVar(&deployPort, "port", 0, "Device port (default per transport)")
	deployCmd.Flags().StringVar(&deployUser, "user", "", "Device or controller login")
	deployCmd.Flags().StringVar(&deployPassword, "password", "", "Login password (prompted when omitted)")
	deployCmd.Flags().BoolVar(&deployInsecure, "insecure", false, "Skip TLS verification (lab controllers)")
}

func deploySite(ctx context.Context, bundle *render.Bundle, opts deploy.Options) error {
	user := currentUser()
	start := time.Now()
	event := audit.NewEvent(user, bundle.Site, audit.OpDeploy).
		WithVendor(bundle.Vendor).
		WithExecuteMode(true)

	err := func() error {
		locker := deploy.NewLocker(userSettings.RedisAddr)
		defer locker.Close()

		if err := locker.Acquire(ctx, bundle.Site, user); err != nil {
			return err
		}
		defer func() {
			if err := locker.Release(ctx, bundle.Site, user); err != nil {
				util.Warnf("releasing site lock: %v", err)
			}
		}()

		p, err := plugin.Get(bundle.Vendor)
		if err != nil {
			return err
		}
		if err := p.Deploy(ctx, bundle, opts); err != nil {
			return err
		}

		return locker.RecordDeploy(ctx, &deploy.DeployRecord{
			Site:       bundle.Site,
			Vendor:     bundle.Vendor,
			User:       user,
			ConfigHash: bundleHash(bundle),
			Timestamp:  time.Now(),
		})
	}()

	event.WithDuration(time.Since(start))
	if err != nil {
		event.WithError(err)
	} else {
		event.WithSuccess()
		fmt.Printf("%s %s\n", cli.DotPad(bundle.Site, 30), cli.Green("deployed"))
	}
	if logErr := audit.Log(event); logErr != nil {
		util.Warnf("audit: %v", logErr)
	}

	return err
}

// bundleHash fingerprints the rendered artifacts for the deploy record.
func bundleHash(bundle *render.Bundle) string {
	h := sha256.New()
	for _, a := range bundle.Artifacts {
		h.Write([]byte(a.Name))
		h.Write(a.Content)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
