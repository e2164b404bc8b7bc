// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Publication is a single publication record from the registry. A
// publication can be reported under several projects, so ProjectGUIDs is a
// list (many-to-many).
type Publication struct {
	// GUID is the opaque registry identifier.
	GUID string `json:"guid" yaml:"guid"`

	// Title is the publication title.
	Title string `json:"title" yaml:"title"`

	// Periodical is the journal or venue name.
	Periodical string `json:"periodical,omitempty" yaml:"periodical,omitempty"`

	// DOI is the DOI exactly as entered in the registry. NormalizedDOI is
	// the canonical form used for comparisons and lookups.
	DOI           string `json:"doi,omitempty" yaml:"doi,omitempty"`
	NormalizedDOI string `json:"normalized_doi,omitempty" yaml:"normalized_doi,omitempty"`

	// URL is the registry-recorded link to the publication, if any.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// ClassificationCode is the registry classification (e.g. "1.1." for
	// Web of Science / Scopus scientific articles).
	ClassificationCode string `json:"classification_code" yaml:"classification_code"`

	// Status is the publication status; only "published" is final.
	Status string `json:"status" yaml:"status"`

	// CreatedAt is the registry creation timestamp of the record.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// ProjectGUIDs lists the projects this publication was reported under.
	ProjectGUIDs []string `json:"project_guids" yaml:"project_guids"`

	// Registry-declared open-access metadata.
	IsOpenAccess   bool   `json:"is_open_access" yaml:"is_open_access"`
	OpenAccessType string `json:"open_access_type,omitempty" yaml:"open_access_type,omitempty"`
	License        string `json:"license,omitempty" yaml:"license,omitempty"`
	IsPublicFile   bool   `json:"is_public_file" yaml:"is_public_file"`
}

// IsPublished reports whether the registry considers the publication final.
func (p Publication) IsPublished() bool {
	return p.Status == "published"
}
