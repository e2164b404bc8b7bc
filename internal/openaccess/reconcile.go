// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openaccess merges per-publication availability signals from the
// registry, the external lookup service, and manual checks into a single
// verdict per publication.
package openaccess

import "github.com/pdiddy/horizon-oa/pkg/types"

// Reconcile merges the three availability signals for one publication.
//
// The manual override, when present, wins outright. Without one the
// verdict is conjunctive: open only when the registry flag and the lookup
// agree it is. The ambiguous tag marks publications where the two
// automated sources disagree and no human has adjudicated; it is
// diagnostic, not part of the verdict.
func Reconcile(registryOpen, lookupFound bool, manual *bool) (open, ambiguous bool) {
	if manual != nil {
		return *manual, false
	}
	return registryOpen && lookupFound, registryOpen != lookupFound
}

// Report is the outcome of a batch reconciliation. Ambiguous is the subset
// of Verdicts flagged for manual review; entries appear in both.
type Report struct {
	Verdicts  []types.OpenAccessVerdict `json:"verdicts" yaml:"verdicts"`
	Ambiguous []types.OpenAccessVerdict `json:"ambiguous" yaml:"ambiguous"`
	Summary   types.OpenAccessSummary   `json:"summary" yaml:"summary"`
}

// ReconcileAll reconciles every publication against the side tables.
// lookupURLs maps publication GUID to the URL the lookup service found;
// overrides maps publication GUID to the manually verified availability.
// A publication missing from a side table simply has no signal from that
// source; that is expected, not an error.
//
// Publications are processed in input order and the verdict list preserves
// it.
func ReconcileAll(publications []types.Publication, lookupURLs map[string]string, overrides map[string]bool) Report {
	report := Report{
		Verdicts: make([]types.OpenAccessVerdict, 0, len(publications)),
	}

	for _, pub := range publications {
		v := types.OpenAccessVerdict{
			PublicationGUID: pub.GUID,
			DOI:             pub.NormalizedDOI,
			Title:           pub.Title,
			RegistryOpen:    pub.IsOpenAccess,
			LookupURL:       lookupURLs[pub.GUID],
		}
		if manual, ok := overrides[pub.GUID]; ok {
			m := manual
			v.Manual = &m
		}

		v.Open, v.Ambiguous = Reconcile(v.RegistryOpen, v.LookupURL != "", v.Manual)

		report.Verdicts = append(report.Verdicts, v)
		if v.Ambiguous {
			report.Ambiguous = append(report.Ambiguous, v)
		}
		if v.Open {
			report.Summary.Open++
		}
		report.Summary.Total++
	}

	return report
}
