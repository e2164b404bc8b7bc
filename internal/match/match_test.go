// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/horizon-oa/pkg/types"
)

func testConfig() types.MatchConfig {
	return types.MatchConfig{
		MinGrantNumberLen: 5,
		ExactRunnerUpMax:  85,
		ApproxScoreMin:    85,
		ApproxRunnerUpMax: 70,
		ShortTitleRatio:   0.7,
	}
}

func TestAcceptTop(t *testing.T) {
	tests := []struct {
		name     string
		top      int
		runnerUp int
		want     bool
	}{
		{"perfect score, clear margin", 100, 0, true},
		{"perfect score, runner-up at bound", 100, 85, true},
		{"perfect score, runner-up above bound", 100, 86, false},
		{"approximate, clear margin", 90, 69, true},
		{"approximate, runner-up at bound", 90, 70, false},
		{"observed 90/72 split stays ambiguous", 90, 72, false},
		{"approximate at lower bound", 85, 69, true},
		{"top below approximate bound", 84, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := acceptTop(tt.top, tt.runnerUp, testConfig())
			if got != tt.want {
				t.Errorf("acceptTop(%d, %d) = %v, want %v", tt.top, tt.runnerUp, got, tt.want)
			}
		})
	}
}

func TestMatchExactGrantNumberPriority(t *testing.T) {
	project := types.Project{GUID: "p-1", Title: "Quantum Sensing for Arctic Climate"}
	lookup := types.CandidateLookup{
		ProjectGUID: "p-1",
		GrantNumber: types.FieldLookup{Input: "101079200", Result: []string{"101079200-X"}},
		// Acronym and title would each decide differently; they must not
		// be consulted once the grant number has exactly one candidate.
		Acronym: types.FieldLookup{Input: "QSAC", Result: []string{"999999"}},
		Title:   types.FieldLookup{Input: "Quantum Sensing for Arctic Climate", Result: []string{"888888"}},
	}

	m, ok := matchExact(project, lookup, testConfig())
	require.True(t, ok)
	assert.Equal(t, "101079200-X", m.HorizonID)
	assert.Equal(t, "exact:grant_number", m.Stage)
	assert.Equal(t, 100, m.Confidence)
	assert.Contains(t, m.Provenance, "101079200")
}

func TestMatchExactFallsThroughOnMultipleCandidates(t *testing.T) {
	project := types.Project{GUID: "p-2", Title: "Marine Microbiome Dynamics"}
	lookup := types.CandidateLookup{
		ProjectGUID: "p-2",
		GrantNumber: types.FieldLookup{Input: "101", Result: []string{"1", "2"}},
		Acronym:     types.FieldLookup{Input: "MMD", Result: nil},
		Title:       types.FieldLookup{Input: "Marine Microbiome Dynamics", Result: []string{"777777"}},
	}

	m, ok := matchExact(project, lookup, testConfig())
	require.True(t, ok)
	assert.Equal(t, "exact:title", m.Stage)
	assert.Equal(t, "777777", m.HorizonID)
}

func TestMatchExactAcronymGrantContainment(t *testing.T) {
	project := types.Project{GUID: "p-3", Title: "Green Hydrogen Valleys"}
	lookup := types.CandidateLookup{
		ProjectGUID: "p-3",
		GrantNumber: types.FieldLookup{Input: "101079200", Result: nil},
		Acronym: types.FieldLookup{
			Input:  "GHV",
			Result: []string{"somethingelse", "101079200-X"},
		},
		Title: types.FieldLookup{Input: "Green Hydrogen Valleys", Result: nil},
	}

	m, ok := matchExact(project, lookup, testConfig())
	require.True(t, ok)
	assert.Equal(t, "101079200-X", m.HorizonID)
	assert.Equal(t, "exact:acronym", m.Stage)
	assert.Contains(t, m.Provenance, "grant number")
}

func TestMatchExactAcronymRuleNeedsPlausibleGrantNumber(t *testing.T) {
	project := types.Project{GUID: "p-4", Title: "Urban Mobility Futures"}
	lookup := types.CandidateLookup{
		ProjectGUID: "p-4",
		GrantNumber: types.FieldLookup{Input: "42", Result: nil},
		Acronym:     types.FieldLookup{Input: "UMF", Result: []string{"42-A", "42-B"}},
	}

	_, ok := matchExact(project, lookup, testConfig())
	assert.False(t, ok, "grant number below minimum length must not trigger the acronym rule")
}

func TestResolveFuzzyExactTitle(t *testing.T) {
	projects := []types.Project{
		{GUID: "p-1", Title: "Quantum Sensing for Arctic Climate"},
	}
	pool := NewPool([]types.GraphCandidate{
		{Code: "101010", Title: "Quantum Sensing for Arctic Climate"},
		{Code: "202020", Title: "Marine Microbiome Dynamics in the Baltic Sea"},
	})

	report := Resolve(projects, map[string]types.CandidateLookup{}, pool, testConfig())

	require.Len(t, report.Matched, 1)
	m := report.Matched[0]
	assert.Equal(t, "101010", m.HorizonID)
	assert.Equal(t, "fuzzy:title", m.Stage)
	assert.Equal(t, 100, m.Confidence)
	assert.Equal(t, 1, pool.Len(), "matched candidate must leave the pool")
	assert.Empty(t, report.Ambiguous)
	assert.Empty(t, report.NoInput)
}

func TestResolveFuzzyAmbiguousOnNearDuplicates(t *testing.T) {
	projects := []types.Project{
		{GUID: "p-1", Title: "Quantum Sensing for Arctic Climate"},
	}
	// Two candidates with the same normalized title both score 100; the
	// margin rule must refuse to pick one.
	pool := NewPool([]types.GraphCandidate{
		{Code: "101010", Title: "Quantum Sensing for Arctic Climate"},
		{Code: "303030", Title: "Quantum Sensing for Arctic Climate (QSAC)"},
	})

	report := Resolve(projects, map[string]types.CandidateLookup{}, pool, testConfig())

	assert.Empty(t, report.Matched)
	require.Len(t, report.Ambiguous, 1)
	amb := report.Ambiguous[0]
	assert.Equal(t, types.AmbiguityMargin, amb.Reason)
	require.GreaterOrEqual(t, len(amb.Candidates), 2, "ambiguous outcome keeps the ranked list")
	assert.Equal(t, 2, pool.Len(), "ambiguous outcomes must not consume candidates")
}

func TestResolvePoolExclusivity(t *testing.T) {
	// Two local projects with the same title compete for one candidate;
	// only the first (in input order) may get it.
	projects := []types.Project{
		{GUID: "p-1", Title: "Quantum Sensing for Arctic Climate"},
		{GUID: "p-2", Title: "Quantum Sensing for Arctic Climate"},
	}
	pool := NewPool([]types.GraphCandidate{
		{Code: "101010", Title: "Quantum Sensing for Arctic Climate"},
		{Code: "202020", Title: "Marine Microbiome Dynamics in the Baltic Sea"},
	})

	report := Resolve(projects, map[string]types.CandidateLookup{}, pool, testConfig())

	require.Len(t, report.Matched, 1)
	assert.Equal(t, "p-1", report.Matched[0].ProjectGUID)
	assert.Equal(t, "101010", report.Matched[0].HorizonID)
	require.Len(t, report.Ambiguous, 1)
	assert.Equal(t, "p-2", report.Ambiguous[0].ProjectGUID)

	seen := map[string]bool{}
	for _, m := range report.Matched {
		assert.False(t, seen[m.HorizonID], "candidate %s assigned twice", m.HorizonID)
		seen[m.HorizonID] = true
	}
}

func TestResolveExactStageReducesFuzzyPool(t *testing.T) {
	projects := []types.Project{
		{GUID: "p-1", Title: "Quantum Sensing for Arctic Climate"},
		{GUID: "p-2", Title: "Quantum Sensing for Arctic Climate"},
	}
	lookups := map[string]types.CandidateLookup{
		"p-1": {
			ProjectGUID: "p-1",
			GrantNumber: types.FieldLookup{Input: "101079200", Result: []string{"101010"}},
		},
	}
	pool := NewPool([]types.GraphCandidate{
		{Code: "101010", Title: "Quantum Sensing for Arctic Climate"},
		{Code: "202020", Title: "Marine Microbiome Dynamics in the Baltic Sea"},
	})

	report := Resolve(projects, lookups, pool, testConfig())

	// p-1 matched exactly and consumed 101010, so p-2's fuzzy pass sees
	// only the unrelated candidate and stays unresolved.
	require.Len(t, report.Matched, 1)
	assert.Equal(t, "exact:grant_number", report.Matched[0].Stage)
	require.Len(t, report.Ambiguous, 1)
	assert.Equal(t, "p-2", report.Ambiguous[0].ProjectGUID)
}

func TestResolveNoInput(t *testing.T) {
	projects := []types.Project{
		{GUID: "p-1", Title: "   "},
	}
	pool := NewPool([]types.GraphCandidate{
		{Code: "101010", Title: "Quantum Sensing for Arctic Climate"},
	})

	report := Resolve(projects, map[string]types.CandidateLookup{}, pool, testConfig())

	assert.Empty(t, report.Matched)
	assert.Empty(t, report.Ambiguous)
	require.Len(t, report.NoInput, 1)
	assert.Equal(t, "p-1", report.NoInput[0].ProjectGUID)
	assert.Equal(t, 1, pool.Len(), "no-input projects must not touch the pool")
}

func TestResolveDeterministic(t *testing.T) {
	projects := []types.Project{
		{GUID: "p-1", Title: "Quantum Sensing for Arctic Climate"},
		{GUID: "p-2", Title: "Marine Microbiome Dynamics in the Baltic Sea"},
		{GUID: "p-3", Title: "Urban Mobility Futures"},
	}
	candidates := []types.GraphCandidate{
		{Code: "101010", Title: "Quantum Sensing for Arctic Climate"},
		{Code: "202020", Title: "Marine Microbiome Dynamics in the Baltic Sea"},
		{Code: "303030", Title: "Digital Twins for Precision Forestry"},
	}

	first := Resolve(projects, map[string]types.CandidateLookup{}, NewPool(candidates), testConfig())
	second := Resolve(projects, map[string]types.CandidateLookup{}, NewPool(candidates), testConfig())
	assert.Equal(t, first, second, "re-running over frozen inputs must be identical")
}

func TestScoreCandidatesLengthDampening(t *testing.T) {
	cfg := testConfig()
	candidates := []types.GraphCandidate{
		// A very short candidate scores 100 as a substring but is cut
		// down by the length ratio.
		{Code: "1", Title: "Quantum"},
		{Code: "2", Title: "Quantum Sensing for Arctic Climate"},
	}
	ranked := scoreCandidates("Quantum Sensing for Arctic Climate", candidates, cfg)

	require.Len(t, ranked, 2)
	assert.Equal(t, "2", ranked[0].Code)
	assert.Equal(t, 100, ranked[0].Score)
	assert.Less(t, ranked[1].Score, cfg.ApproxScoreMin,
		"dampened short candidate must not clear the match threshold")
}

func TestPoolConsume(t *testing.T) {
	pool := NewPool([]types.GraphCandidate{
		{Code: "a"}, {Code: "b"}, {Code: "c"},
	})

	assert.True(t, pool.Consume("b"))
	assert.False(t, pool.Consume("b"), "consuming twice must fail")
	assert.False(t, pool.Consume("zz"), "unknown code is not an error")
	assert.Equal(t, 2, pool.Len())

	remaining := pool.Remaining()
	assert.Equal(t, "a", remaining[0].Code)
	assert.Equal(t, "c", remaining[1].Code)
}
