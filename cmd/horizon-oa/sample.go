// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/horizon-oa/internal/analyze"
	"github.com/pdiddy/horizon-oa/internal/sample"
	"github.com/pdiddy/horizon-oa/internal/store"
	"github.com/pdiddy/horizon-oa/pkg/types"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Draw a fixed-seed sample of articles for manual checking",
	Long: `Sample draws a reproducible random sample of published scientific
articles from the newest publications artifact and writes it to the
manual data directory. The seed is fixed in configuration so re-running
over the same artifact selects the same publications.`,
	RunE: runSample,
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	var publications []types.Publication
	if _, err := store.ReadLatest(cfg.Data.RawDir, "publications", &publications); err != nil {
		return fmt.Errorf("fetch publications first: %w", err)
	}
	articles := analyze.FilterArticles(publications, cfg.Analyze.ClassificationCodes)

	sampled := sample.Publications(articles, cfg.Sample.Size, cfg.Sample.Seed)

	// YAML, not JSON: this file is filled in by hand during manual checks.
	path, err := store.WriteYAMLArtifact(cfg.Data.ManualDir, "manual-sample", sampled)
	if err != nil {
		return err
	}
	fmt.Printf("%d of %d articles sampled (seed %d), written to %s\n",
		len(sampled), len(articles), cfg.Sample.Seed, path)
	return nil
}

func init() {
	rootCmd.AddCommand(sampleCmd)
}
