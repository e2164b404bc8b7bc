// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/horizon-oa/internal/analyze"
	"github.com/pdiddy/horizon-oa/internal/store"
	"github.com/pdiddy/horizon-oa/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Relate project funding periods to publication timing",
	Long: `Analyze narrows the newest projects artifact to Horizon projects with
publications and a duration inside the configured window, keeps only
published scientific articles, and computes for every project when its
publications appeared relative to the funding period. The timing report
is written as a results artifact.`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	var projects []types.Project
	if _, err := store.ReadLatest(cfg.Data.RawDir, "projects", &projects); err != nil {
		return fmt.Errorf("fetch projects first: %w", err)
	}
	var publications []types.Publication
	if _, err := store.ReadLatest(cfg.Data.RawDir, "publications", &publications); err != nil {
		return fmt.Errorf("fetch publications first: %w", err)
	}

	horizon := analyze.FilterHorizon(projects, cfg.Analyze.ProgrammeCodes)
	relevant := analyze.FilterRelevant(horizon, cfg.Analyze)
	articles := analyze.FilterArticles(publications, cfg.Analyze.ClassificationCodes)
	fmt.Fprintf(os.Stderr, "%d projects -> %d Horizon -> %d in duration window; %d/%d publications are articles\n",
		len(projects), len(horizon), len(relevant), len(articles), len(publications))

	report := analyze.RelativeTimes(relevant, articles, cfg.Analyze)

	path, err := store.WriteArtifact(cfg.Data.ResultsDir, "timing", report)
	if err != nil {
		return err
	}

	fmt.Printf("timing computed for %d projects (%d with ambiguous institutions)\n",
		len(report.Projects), report.AmbiguousInstitutions)
	fmt.Printf("report written to %s\n", path)
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
