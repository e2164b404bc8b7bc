// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"strings"

	"github.com/pdiddy/horizon-oa/pkg/types"
)

// Resolve runs the match cascade over all projects in a single
// deterministic sweep: the exact-key stage first, then the fuzzy title
// stage over the residue with the pool already reduced by whatever the
// exact stage consumed.
//
// Projects are processed in input order. Because accepted matches consume
// pool candidates, a different order could produce different results; a
// fixed order keeps re-runs over the same frozen inputs identical. The
// resolver never retries or re-runs passes.
//
// Every input project lands in exactly one of the report's three sets.
func Resolve(projects []types.Project, lookups map[string]types.CandidateLookup, pool *Pool, cfg types.MatchConfig) types.ResolutionReport {
	var report types.ResolutionReport

	// Exact-key stage. Projects without a search-API lookup go straight
	// to the fuzzy residue: no candidates is not an error.
	var residue []types.Project
	for _, p := range projects {
		lookup, ok := lookups[p.GUID]
		if !ok {
			residue = append(residue, p)
			continue
		}
		m, ok := matchExact(p, lookup, cfg)
		if !ok {
			residue = append(residue, p)
			continue
		}
		pool.Consume(m.HorizonID)
		report.Matched = append(report.Matched, m)
	}

	// Fuzzy title stage over the residue.
	for _, p := range residue {
		if strings.TrimSpace(p.Title) == "" {
			report.NoInput = append(report.NoInput, types.NoInputResult{
				ProjectGUID: p.GUID,
				Reason:      "project has no usable title",
			})
			continue
		}

		outcome := matchFuzzyTitle(p, pool, cfg)
		if outcome.matched {
			report.Matched = append(report.Matched, outcome.match)
			continue
		}
		report.Ambiguous = append(report.Ambiguous, outcome.ambiguous)
	}

	return report
}
