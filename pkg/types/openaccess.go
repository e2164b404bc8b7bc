// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// OpenAccessVerdict is the reconciled availability result for one
// publication. Open is the verdict; Ambiguous is a non-exclusive tag set
// when the two automated sources disagree and no manual override exists.
type OpenAccessVerdict struct {
	PublicationGUID string `json:"publication_guid" yaml:"publication_guid"`
	DOI             string `json:"doi,omitempty" yaml:"doi,omitempty"`
	Title           string `json:"title,omitempty" yaml:"title,omitempty"`

	// RegistryOpen is the registry-declared openness flag.
	RegistryOpen bool `json:"registry_open" yaml:"registry_open"`

	// LookupURL is the URL the external lookup service found, empty when
	// the lookup found nothing (or was never made).
	LookupURL string `json:"lookup_url,omitempty" yaml:"lookup_url,omitempty"`

	// Manual is the manually verified availability, nil when no human has
	// checked this publication. When present it overrides both automated
	// signals.
	Manual *bool `json:"manual,omitempty" yaml:"manual,omitempty"`

	Open      bool `json:"open" yaml:"open"`
	Ambiguous bool `json:"ambiguous" yaml:"ambiguous"`
}

// OpenAccessSummary counts open publications in a batch.
type OpenAccessSummary struct {
	Open  int `json:"open" yaml:"open"`
	Total int `json:"total" yaml:"total"`
}

// Percent returns the share of open publications rounded to whole percent.
func (s OpenAccessSummary) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return int(float64(s.Open)/float64(s.Total)*100 + 0.5)
}

func (s OpenAccessSummary) String() string {
	return fmt.Sprintf("%d of %d publications (%d%%) are open to read",
		s.Open, s.Total, s.Percent())
}
