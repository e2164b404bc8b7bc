// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FieldLookup is the outcome of one search-API query for one project field:
// the value that was sent and the candidate Horizon IDs that came back.
type FieldLookup struct {
	Input  string   `json:"input" yaml:"input"`
	Result []string `json:"result" yaml:"result"`
}

// CandidateLookup groups the per-field search-API lookups for one project.
// Fields with an empty input were never queried and carry no results.
type CandidateLookup struct {
	ProjectGUID string      `json:"project_guid" yaml:"project_guid"`
	GrantNumber FieldLookup `json:"grant_number" yaml:"grant_number"`
	Acronym     FieldLookup `json:"acronym" yaml:"acronym"`
	Title       FieldLookup `json:"title" yaml:"title"`
}

// GraphCandidate is one project record from the funder's graph API. These
// form the candidate pool for fuzzy title resolution.
type GraphCandidate struct {
	// Code is the Horizon project ID (the funder's grant number).
	Code    string `json:"code" yaml:"code"`
	Acronym string `json:"acronym,omitempty" yaml:"acronym,omitempty"`
	Title   string `json:"title" yaml:"title"`
}

// Match binds a local project to exactly one Horizon ID, tagged with the
// stage that produced it ("exact:<field>" or "fuzzy:title") and a 0-100
// confidence (100 for exact key matches, the fuzzy score otherwise).
type Match struct {
	ProjectGUID  string `json:"project_guid" yaml:"project_guid"`
	ProjectTitle string `json:"project_title" yaml:"project_title"`
	HorizonID    string `json:"horizon_id" yaml:"horizon_id"`
	Stage        string `json:"stage" yaml:"stage"`
	Confidence   int    `json:"confidence" yaml:"confidence"`

	// Provenance is a human-readable description of which field or score
	// produced the match, for manual review.
	Provenance string `json:"provenance" yaml:"provenance"`
}

// RankedCandidate is one scored pool entry, kept for ambiguous outcomes so
// a reviewer can see what the matcher saw.
type RankedCandidate struct {
	Code  string `json:"code" yaml:"code"`
	Title string `json:"title" yaml:"title"`
	Score int    `json:"score" yaml:"score"`
}

// Ambiguity reasons.
const (
	AmbiguityMargin       = "margin below threshold"
	AmbiguityNoCandidates = "no remaining candidates"
)

// AmbiguousResult is a project the resolver could not decide on. Candidates
// holds the full ranked list (descending score) as diagnostic context.
type AmbiguousResult struct {
	ProjectGUID  string            `json:"project_guid" yaml:"project_guid"`
	ProjectTitle string            `json:"project_title" yaml:"project_title"`
	Reason       string            `json:"reason" yaml:"reason"`
	Candidates   []RankedCandidate `json:"candidates" yaml:"candidates"`
}

// NoInputResult is a project that could not be scored at all because a
// required input field was empty.
type NoInputResult struct {
	ProjectGUID string `json:"project_guid" yaml:"project_guid"`
	Reason      string `json:"reason" yaml:"reason"`
}

// ResolutionReport is the full outcome of one resolution sweep. The three
// sets are disjoint: every input project lands in exactly one of them.
type ResolutionReport struct {
	Matched   []Match           `json:"matched" yaml:"matched"`
	Ambiguous []AmbiguousResult `json:"ambiguous" yaml:"ambiguous"`
	NoInput   []NoInputResult   `json:"no_input" yaml:"no_input"`
}

// Total returns the number of projects processed.
func (r ResolutionReport) Total() int {
	return len(r.Matched) + len(r.Ambiguous) + len(r.NoInput)
}
