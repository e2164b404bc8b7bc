// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/horizon-oa/internal/analyze"
	"github.com/pdiddy/horizon-oa/internal/etis"
	"github.com/pdiddy/horizon-oa/internal/normalize"
	"github.com/pdiddy/horizon-oa/internal/openaire"
	"github.com/pdiddy/horizon-oa/internal/store"
	"github.com/pdiddy/horizon-oa/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Pull raw data from the upstream APIs",
	Long: `Fetch pulls raw records and stores them as timestamped JSON artifacts
under the raw data directory. Later stages read the newest artifact, so
fetching again never destroys an earlier pull.`,
}

var fetchProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Pull projects from the national registry",
	RunE:  runFetchProjects,
}

func runFetchProjects(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if len(cfg.ETIS.Institutions) == 0 {
		return fmt.Errorf("no institutions configured: set etis.institutions in horizon-oa.yaml")
	}

	client := &etis.Client{Client: httpClient(cfg.ETIS.HTTPConfig), Config: cfg.ETIS}
	projects, err := client.Projects(context.Background(), os.Stderr)
	if err != nil {
		return err
	}

	path, err := store.WriteArtifact(cfg.Data.RawDir, "projects", projects)
	if err != nil {
		return err
	}
	fmt.Printf("%d projects written to %s\n", len(projects), path)
	return nil
}

var fetchPublicationsCmd = &cobra.Command{
	Use:   "publications",
	Short: "Pull publications referenced by the fetched projects",
	Long: `Publications pulls every publication referenced by the newest projects
artifact, one registry request per publication. By default only Horizon
programme projects are considered; --all pulls for every project.`,
	RunE: runFetchPublications,
}

func runFetchPublications(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	var projects []types.Project
	if _, err := store.ReadLatest(cfg.Data.RawDir, "projects", &projects); err != nil {
		return fmt.Errorf("fetch projects first: %w", err)
	}

	all, _ := cmd.Flags().GetBool("all")
	if !all {
		projects = analyze.FilterHorizon(projects, cfg.Analyze.ProgrammeCodes)
	}

	usages, reported := analyze.CollectPublications(projects)
	guids := make([]string, len(usages))
	for i, u := range usages {
		guids[i] = u.GUID
	}
	fmt.Fprintf(os.Stderr, "%d unique publications across %d reports\n", len(guids), reported)

	client := &etis.Client{Client: httpClient(cfg.ETIS.HTTPConfig), Config: cfg.ETIS}
	publications, err := client.Publications(context.Background(), guids, os.Stderr)
	if err != nil {
		return err
	}

	// DOIs are normalized once, at the pull boundary.
	for i := range publications {
		publications[i].NormalizedDOI = normalize.DOI(publications[i].DOI)
	}

	path, err := store.WriteArtifact(cfg.Data.RawDir, "publications", publications)
	if err != nil {
		return err
	}
	fmt.Printf("%d publications written to %s\n", len(publications), path)
	return nil
}

var fetchGraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Pull the funder's project listing for the configured country",
	RunE:  runFetchGraph,
}

func runFetchGraph(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	client := &openaire.GraphClient{Client: httpClient(cfg.OpenAIRE.HTTPConfig), Config: cfg.OpenAIRE}
	candidates, err := client.Projects(context.Background(), os.Stderr)
	if err != nil {
		return err
	}

	path, err := store.WriteArtifact(cfg.Data.RawDir, "graph-projects", candidates)
	if err != nil {
		return err
	}
	fmt.Printf("%d graph candidates written to %s\n", len(candidates), path)
	return nil
}

func init() {
	fetchPublicationsCmd.Flags().Bool("all", false, "pull publications for all projects, not just Horizon programmes")

	fetchCmd.AddCommand(fetchProjectsCmd)
	fetchCmd.AddCommand(fetchPublicationsCmd)
	fetchCmd.AddCommand(fetchGraphCmd)

	rootCmd.AddCommand(fetchCmd)
}
