// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/horizon-oa/internal/analyze"
	"github.com/pdiddy/horizon-oa/internal/match"
	"github.com/pdiddy/horizon-oa/internal/store"
	"github.com/pdiddy/horizon-oa/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve local projects to Horizon IDs",
	Long: `Resolve runs the match cascade over the newest projects, lookups, and
graph artifacts: exact field matches from the search API first, then
fuzzy title matching against the remaining graph candidates. Each graph
candidate can be claimed by at most one project. The full report is
written as a results artifact and accepted matches are also saved to the
results database.`,
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	var projects []types.Project
	if _, err := store.ReadLatest(cfg.Data.RawDir, "projects", &projects); err != nil {
		return fmt.Errorf("fetch projects first: %w", err)
	}
	projects = analyze.FilterHorizon(projects, cfg.Analyze.ProgrammeCodes)

	var lookupList []types.CandidateLookup
	if _, err := store.ReadLatest(cfg.Data.RawDir, "lookups", &lookupList); err != nil {
		return fmt.Errorf("run lookup first: %w", err)
	}
	lookups := make(map[string]types.CandidateLookup, len(lookupList))
	for _, l := range lookupList {
		lookups[l.ProjectGUID] = l
	}

	var candidates []types.GraphCandidate
	if _, err := store.ReadLatest(cfg.Data.RawDir, "graph-projects", &candidates); err != nil {
		return fmt.Errorf("fetch graph first: %w", err)
	}

	report := match.Resolve(projects, lookups, match.NewPool(candidates), cfg.Match)

	path, err := store.WriteArtifact(cfg.Data.ResultsDir, "resolution", report)
	if err != nil {
		return err
	}

	results, err := store.NewResults(cfg.Data.DBPath)
	if err != nil {
		return err
	}
	defer results.Close()

	runID, err := results.SaveResolution(context.Background(), report)
	if err != nil {
		return err
	}

	fmt.Printf("resolved %d/%d projects (%d ambiguous, %d without input)\n",
		len(report.Matched), report.Total(), len(report.Ambiguous), len(report.NoInput))
	fmt.Printf("report written to %s (run %s)\n", path, runID)
	return nil
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
