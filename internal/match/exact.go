// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"fmt"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/pdiddy/horizon-oa/pkg/types"
)

// Exact-stage field names, in priority order. The stage tag on a match is
// "exact:" + the field that decided it.
const (
	fieldGrantNumber = "grant_number"
	fieldAcronym     = "acronym"
	fieldTitle       = "title"
)

// matchExact tries the per-field search-API lookups in priority order:
// grant number, then acronym, then title. A field decides the match only
// when it returned exactly one candidate; zero or several candidates fall
// through to the next field, never to a guess.
//
// After the per-field checks all fail, one narrow secondary rule applies:
// when the acronym lookup returned several candidates and the project
// carries a grant number of plausible length, the first acronym candidate
// that is a perfect fuzzy containment of the grant number is accepted.
func matchExact(project types.Project, lookup types.CandidateLookup, cfg types.MatchConfig) (types.Match, bool) {
	fields := []struct {
		name   string
		lookup types.FieldLookup
	}{
		{fieldGrantNumber, lookup.GrantNumber},
		{fieldAcronym, lookup.Acronym},
		{fieldTitle, lookup.Title},
	}

	for _, f := range fields {
		if len(f.lookup.Result) != 1 {
			continue
		}
		return types.Match{
			ProjectGUID:  project.GUID,
			ProjectTitle: project.Title,
			HorizonID:    f.lookup.Result[0],
			Stage:        "exact:" + f.name,
			Confidence:   100,
			Provenance: fmt.Sprintf("search API %s %q: %v",
				f.name, f.lookup.Input, f.lookup.Result),
		}, true
	}

	acronyms := lookup.Acronym.Result
	grant := lookup.GrantNumber.Input
	if len(acronyms) > 1 && len(grant) >= cfg.MinGrantNumberLen {
		for _, candidate := range acronyms {
			if fuzzy.PartialTokenSortRatio(candidate, grant) != 100 {
				continue
			}
			return types.Match{
				ProjectGUID:  project.GUID,
				ProjectTitle: project.Title,
				HorizonID:    candidate,
				Stage:        "exact:" + fieldAcronym,
				Confidence:   100,
				Provenance: fmt.Sprintf("search API %s %q: %v and registry grant number %q",
					fieldAcronym, lookup.Acronym.Input, acronyms, grant),
			}, true
		}
	}

	return types.Match{}, false
}
