// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/horizon-oa/internal/analyze"
	"github.com/pdiddy/horizon-oa/internal/oabutton"
	"github.com/pdiddy/horizon-oa/internal/openaccess"
	"github.com/pdiddy/horizon-oa/internal/store"
	"github.com/pdiddy/horizon-oa/pkg/types"
)

var openaccessCmd = &cobra.Command{
	Use:   "openaccess",
	Short: "Reconcile per-publication open-access status",
	Long: `Openaccess merges three availability signals per publication: the
registry's own open-access flag, an Open Access Button lookup by DOI,
and manual check results. A manual result always wins; otherwise a
publication counts as open only when both automated sources agree.`,
}

// --- reconcile subcommand ---

var openaccessReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Look up DOIs and reconcile all signals into verdicts",
	RunE:  runOpenaccessReconcile,
}

func runOpenaccessReconcile(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	var publications []types.Publication
	if _, err := store.ReadLatest(cfg.Data.RawDir, "publications", &publications); err != nil {
		return fmt.Errorf("fetch publications first: %w", err)
	}
	publications = analyze.FilterArticles(publications, cfg.Analyze.ClassificationCodes)

	results, err := store.NewResults(cfg.Data.DBPath)
	if err != nil {
		return err
	}
	defer results.Close()

	ctx := context.Background()
	overrides, err := results.Overrides(ctx)
	if err != nil {
		return err
	}

	skipLookup, _ := cmd.Flags().GetBool("skip-lookup")
	lookupURLs := map[string]string{}
	if !skipLookup {
		client := &oabutton.Client{Client: httpClient(cfg.OAButton.HTTPConfig), Config: cfg.OAButton}
		looked := 0
		for _, pub := range publications {
			if pub.NormalizedDOI == "" {
				continue
			}
			url, found, err := client.Find(ctx, pub.NormalizedDOI)
			if err != nil {
				return fmt.Errorf("looking up %s: %w", pub.NormalizedDOI, err)
			}
			if found {
				lookupURLs[pub.GUID] = url
			}
			looked++
			if looked%50 == 0 {
				fmt.Fprintf(os.Stderr, "looked up %d DOIs\n", looked)
			}
		}
	}

	report := openaccess.ReconcileAll(publications, lookupURLs, overrides)

	path, err := store.WriteArtifact(cfg.Data.ResultsDir, "verdicts", report)
	if err != nil {
		return err
	}
	runID, err := results.SaveVerdicts(ctx, report.Verdicts)
	if err != nil {
		return err
	}

	fmt.Println(report.Summary)
	fmt.Printf("%d publications need manual review\n", len(report.Ambiguous))
	fmt.Printf("report written to %s (run %s)\n", path, runID)
	return nil
}

// --- override subcommand ---

var openaccessOverrideCmd = &cobra.Command{
	Use:   "override [publication-guid] [open|closed]",
	Short: "Record a manually verified open-access result",
	Long: `Override records the outcome of a manual check for one publication.
The override is stored in the results database and applied on every
subsequent reconcile, taking precedence over both automated signals.`,
	Args: cobra.ExactArgs(2),
	RunE: runOpenaccessOverride,
}

func runOpenaccessOverride(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	var open bool
	switch args[1] {
	case "open":
		open = true
	case "closed":
		open = false
	default:
		return fmt.Errorf("verdict must be \"open\" or \"closed\", got %q", args[1])
	}

	results, err := store.NewResults(cfg.Data.DBPath)
	if err != nil {
		return err
	}
	defer results.Close()

	if err := results.SetOverride(context.Background(), args[0], open); err != nil {
		return err
	}
	fmt.Printf("recorded %s as %s\n", args[0], args[1])
	return nil
}

func init() {
	openaccessReconcileCmd.Flags().Bool("skip-lookup", false, "reconcile without querying the lookup service (registry and overrides only)")

	openaccessCmd.AddCommand(openaccessReconcileCmd)
	openaccessCmd.AddCommand(openaccessOverrideCmd)

	rootCmd.AddCommand(openaccessCmd)
}
