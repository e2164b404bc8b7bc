// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the horizon-oa pipeline:
// registry records (Project, Publication), resolution outputs (Match,
// ResolutionReport), open-access verdicts, and stage configuration.
//
// Records are immutable snapshots of what the upstream services returned;
// validation and shape conversion happen in the API clients, so everything
// in this package is already well-formed.
package types

import "time"

// Institution is one institution attached to a project. ETIS reports the
// head institution name in English.
type Institution struct {
	Name string `json:"name" yaml:"name"`
}

// PublicationRef links a project to a publication by registry GUID.
type PublicationRef struct {
	GUID string `json:"guid" yaml:"guid"`
}

// Project is a research project as recorded in the national research
// information system (ETIS). GUID is unique within a batch.
type Project struct {
	// GUID is the opaque registry identifier.
	GUID string `json:"guid" yaml:"guid"`

	// Title is the English project title.
	Title string `json:"title" yaml:"title"`

	// Acronym is the short project acronym, if any.
	Acronym string `json:"acronym" yaml:"acronym"`

	// GrantNumber is the financier project number (the funder's grant ID).
	GrantNumber string `json:"grant_number" yaml:"grant_number"`

	// ProgrammeCodes lists the funding programme codes the project
	// participates in.
	ProgrammeCodes []string `json:"programme_codes" yaml:"programme_codes"`

	// Institutions lists the institutions attached to the project.
	Institutions []Institution `json:"institutions" yaml:"institutions"`

	// StartDate and EndDate bound the funding period (day granularity).
	StartDate time.Time `json:"start_date" yaml:"start_date"`
	EndDate   time.Time `json:"end_date" yaml:"end_date"`

	// FundingTotal is the total funding over all periods, in EUR.
	// Non-negative.
	FundingTotal float64 `json:"funding_total" yaml:"funding_total"`

	// Publications lists the publications reported under this project.
	Publications []PublicationRef `json:"publications" yaml:"publications"`
}

// Duration returns the project duration.
func (p Project) Duration() time.Duration {
	return p.EndDate.Sub(p.StartDate)
}
