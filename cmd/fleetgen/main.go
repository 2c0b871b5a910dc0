// Command fleetgen renders configuration artifacts for many sites in
// parallel. It runs the same resolve/validate/render pipeline as
// "confgen generate -x" but across the whole definitions directory,
// for CI jobs and scheduled fleet rebuilds.
//
// Usage:
//
//	fleetgen -definitions <dir> -output <dir> [-parallel N] [-vendor name] [-x] [site ...]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/confgen-ops/confgen/pkg/audit"
	"github.com/confgen-ops/confgen/pkg/cli"
	"github.com/confgen-ops/confgen/pkg/deploy"
	"github.com/confgen-ops/confgen/pkg/plugin"
	"github.com/confgen-ops/confgen/pkg/spec"
	"github.com/confgen-ops/confgen/pkg/util"
	"github.com/confgen-ops/confgen/pkg/validate"

	// Vendor plugins register themselves at init time.
	_ "github.com/confgen-ops/confgen/pkg/plugin/mikrotik"
	_ "github.com/confgen-ops/confgen/pkg/plugin/sonicwall"
	_ "github.com/confgen-ops/confgen/pkg/plugin/unifi"
)

type result struct {
	site      string
	vendor    string
	artifacts int
	duration  time.Duration
	err       error
}

func main() {
	definitionsDir := flag.String("definitions", spec.DefinitionsDir, "Definitions directory")
	outputDir := flag.String("output", "out", "Output directory for rendered artifacts")
	parallel := flag.Int("parallel", 4, "Number of sites to render concurrently")
	vendorFilter := flag.String("vendor", "", "Only render sites targeting this vendor")
	execute := flag.Bool("x", false, "Write artifacts (default is a dry-run preview)")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if *verbose {
		util.SetLogLevel("debug")
	} else {
		util.SetLogLevel("warn")
	}

	loader := spec.NewLoader(*definitionsDir)
	if err := loader.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading definitions: %v\n", err)
		os.Exit(1)
	}

	auditLogger, err := audit.NewFileLogger(filepath.Join(*definitionsDir, "audit.log"), audit.RotationConfig{
		MaxSize:    10 * 1024 * 1024,
		MaxBackups: 10,
	})
	if err != nil {
		util.Warnf("Could not initialize audit logging: %v", err)
	} else {
		audit.SetDefaultLogger(auditLogger)
		defer auditLogger.Close()
	}

	names := flag.Args()
	if len(names) == 0 {
		var err error
		names, err = loader.ListSites()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing sites: %v\n", err)
			os.Exit(1)
		}
	}
	if *vendorFilter != "" {
		names = filterByVendor(loader, names, *vendorFilter)
	}
	if len(names) == 0 {
		fmt.Fprintf(os.Stderr, "No site definitions found in %s\n", *definitionsDir)
		os.Exit(1)
	}

	mode := "dry-run"
	if *execute {
		mode = "write"
	}
	fmt.Printf("Rendering %d site(s) to %s (parallel=%d, %s)\n\n", len(names), *outputDir, *parallel, mode)

	results := renderFleet(context.Background(), loader, names, *outputDir, *parallel, *execute)

	failed := 0
	t := cli.NewTable("SITE", "VENDOR", "ARTIFACTS", "TIME", "STATUS")
	for _, r := range results {
		status := cli.Green("ok")
		if !*execute {
			status = cli.Yellow("dry-run")
		}
		artifacts := fmt.Sprintf("%d", r.artifacts)
		if r.err != nil {
			failed++
			status = cli.Red("failed")
			artifacts = "-"
		}
		t.Row(r.site, orDash(r.vendor), artifacts, r.duration.Round(time.Millisecond).String(), status)
	}
	t.Flush()

	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(os.Stderr, "\n%s: %v\n", r.site, r.err)
		}
	}

	if *execute {
		fmt.Printf("\n%d rendered, %d failed\n", len(results)-failed, failed)
	} else {
		fmt.Printf("\n%d site(s) would be rendered, %d failed (dry-run, use -x to write)\n", len(results)-failed, failed)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// renderFleet runs the generation pipeline for each site with bounded
// concurrency and returns per-site results sorted by name.
func renderFleet(ctx context.Context, loader *spec.Loader, names []string, outputDir string, parallel int, execute bool) []result {
	var (
		mu      sync.Mutex
		results []result
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for _, name := range names {
		name := name
		g.Go(func() error {
			r := renderSite(ctx, loader, name, outputDir, execute)
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].site < results[j].site })
	return results
}

// renderSite resolves, validates, and renders a single site, exporting
// the bundle when execute is set.
func renderSite(ctx context.Context, loader *spec.Loader, name, outputDir string, execute bool) result {
	start := time.Now()
	r := result{site: name}
	event := audit.NewEvent(currentUser(), name, audit.OpExport).WithExecuteMode(execute)

	err := func() error {
		site, err := loader.ResolveSite(name)
		if err != nil {
			return err
		}
		r.vendor = site.Vendor
		event.WithVendor(site.Vendor)

		vendor, err := loader.GetVendor(site.Vendor)
		if err != nil {
			return err
		}
		if err := validate.New().Validate(site, vendor); err != nil {
			return err
		}

		p, err := plugin.Get(site.Vendor)
		if err != nil {
			return err
		}
		if err := p.Validate(site); err != nil {
			return err
		}

		bundle, err := p.Generate(ctx, site)
		if err != nil {
			return err
		}
		r.artifacts = len(bundle.Artifacts)

		names := make([]string, 0, len(bundle.Artifacts))
		for _, a := range bundle.Artifacts {
			names = append(names, a.Name)
		}
		event.WithArtifacts(names)

		if !execute {
			return nil
		}
		_, err = deploy.NewExporter(outputDir).Export(bundle)
		return err
	}()

	r.duration = time.Since(start)
	r.err = err

	event.WithDuration(r.duration)
	if err != nil {
		event.WithError(err)
	} else {
		event.WithSuccess()
	}
	if logErr := audit.Log(event); logErr != nil {
		util.Warnf("audit: %v", logErr)
	}

	return r
}

// filterByVendor keeps the sites whose definition targets vendor.
func filterByVendor(loader *spec.Loader, names []string, vendor string) []string {
	var filtered []string
	for _, name := range names {
		def, err := loader.LoadSite(name)
		if err != nil {
			// Broken definitions surface when rendered explicitly
			continue
		}
		if def.Vendor == vendor {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

func currentUser() string {
	return util.CoalesceString(os.Getenv("USER"), "fleetgen")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
