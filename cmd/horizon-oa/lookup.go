// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/horizon-oa/internal/analyze"
	"github.com/pdiddy/horizon-oa/internal/openaire"
	"github.com/pdiddy/horizon-oa/internal/store"
	"github.com/pdiddy/horizon-oa/pkg/types"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Query the funder's search API for per-field project candidates",
	Long: `Lookup queries the search API once per non-empty field (grant number,
acronym, title) of every Horizon project in the newest projects artifact
and stores the candidate lists. The search API is heavily rate limited,
so this is the slowest stage; results are kept as an artifact precisely
so resolve can be re-run without repeating it.`,
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	var projects []types.Project
	if _, err := store.ReadLatest(cfg.Data.RawDir, "projects", &projects); err != nil {
		return fmt.Errorf("fetch projects first: %w", err)
	}
	projects = analyze.FilterHorizon(projects, cfg.Analyze.ProgrammeCodes)

	token := secretDefault("openaire-token", "")
	client := openaire.NewSearchClient(httpClient(cfg.OpenAIRE.HTTPConfig), cfg.OpenAIRE, token)

	ctx := context.Background()
	lookups := make([]types.CandidateLookup, 0, len(projects))
	for i, p := range projects {
		lookup, err := client.LookupProject(ctx, p)
		if err != nil {
			return err
		}
		lookups = append(lookups, lookup)
		fmt.Fprintf(os.Stderr, "looked up %d/%d projects\n", i+1, len(projects))
	}

	path, err := store.WriteArtifact(cfg.Data.RawDir, "lookups", lookups)
	if err != nil {
		return err
	}
	fmt.Printf("%d lookups written to %s\n", len(lookups), path)
	return nil
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
