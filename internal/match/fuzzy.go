// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"fmt"
	"sort"
	"unicode/utf8"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/pdiddy/horizon-oa/internal/normalize"
	"github.com/pdiddy/horizon-oa/pkg/types"
)

// fuzzyOutcome is the decision for one project in the fuzzy title stage.
type fuzzyOutcome struct {
	match     types.Match
	matched   bool
	ambiguous types.AmbiguousResult
}

// scoreCandidates computes the dampened partial token-sort similarity
// between the normalized local title and every remaining pool candidate,
// returning the candidates ranked by descending score. The sort is stable
// so equal scores keep pool order and runs stay reproducible.
func scoreCandidates(localTitle string, candidates []types.GraphCandidate, cfg types.MatchConfig) []types.RankedCandidate {
	query := normalize.TitleForMatching(localTitle)
	queryLen := utf8.RuneCountInString(query)

	ranked := make([]types.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		title := normalize.TitleForMatching(c.Title)
		score := fuzzy.PartialTokenSortRatio(query, title)

		// A short string trivially scores high as a substring of a long
		// one, so candidates much shorter than the query are dampened by
		// the length ratio.
		if queryLen > 0 {
			ratio := float64(utf8.RuneCountInString(title)) / float64(queryLen)
			if ratio < cfg.ShortTitleRatio {
				score = int(float64(score) * ratio)
			}
		}

		ranked = append(ranked, types.RankedCandidate{
			Code:  c.Code,
			Title: c.Title,
			Score: score,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// acceptTop applies the margin policy to the top two scores. The runner-up
// bound is inclusive for the exact tier (<= 85) and strict for the
// approximate tier (< 70), so a 90/72 split is rejected as too close to
// call.
func acceptTop(top, runnerUp int, cfg types.MatchConfig) bool {
	switch {
	case top == 100 && runnerUp <= cfg.ExactRunnerUpMax:
		return true
	case top >= cfg.ApproxScoreMin && runnerUp < cfg.ApproxRunnerUpMax:
		return true
	}
	return false
}

// matchFuzzyTitle scores one project against the remaining pool and applies
// the margin policy:
//
//   - top == 100 and runner-up <= ExactRunnerUpMax: exact title match;
//   - top >= ApproxScoreMin and runner-up < ApproxRunnerUpMax: approximate
//     match at the top score's confidence;
//   - anything else: ambiguous, with the full ranked list kept for manual
//     review. The matcher never picks a top score whose margin over the
//     runner-up is too small.
//
// Accepted matches consume their candidate from the pool.
func matchFuzzyTitle(project types.Project, pool *Pool, cfg types.MatchConfig) fuzzyOutcome {
	ranked := scoreCandidates(project.Title, pool.Remaining(), cfg)
	if len(ranked) == 0 {
		return fuzzyOutcome{ambiguous: types.AmbiguousResult{
			ProjectGUID:  project.GUID,
			ProjectTitle: project.Title,
			Reason:       types.AmbiguityNoCandidates,
		}}
	}

	top := ranked[0]
	runnerUp := 0
	if len(ranked) > 1 {
		runnerUp = ranked[1].Score
	}

	if !acceptTop(top.Score, runnerUp, cfg) {
		return fuzzyOutcome{ambiguous: types.AmbiguousResult{
			ProjectGUID:  project.GUID,
			ProjectTitle: project.Title,
			Reason:       types.AmbiguityMargin,
			Candidates:   ranked,
		}}
	}

	pool.Consume(top.Code)
	return fuzzyOutcome{
		matched: true,
		match: types.Match{
			ProjectGUID:  project.GUID,
			ProjectTitle: project.Title,
			HorizonID:    top.Code,
			Stage:        "fuzzy:title",
			Confidence:   top.Score,
			Provenance: fmt.Sprintf("graph title %q scored %d (runner-up %d)",
				top.Title, top.Score, runnerUp),
		},
	}
}
