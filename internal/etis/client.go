// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package etis pulls projects and publications from the Estonian Research
// Information System (ETIS) public API.
//
// The API is a paged getitems endpoint per record type. Projects are pulled
// per institution with Take/Skip pagination; publications are pulled one by
// one by GUID, since the project records only carry publication references.
// Records that fail basic shape checks (missing GUID, missing
// classification) are dropped at this boundary so the rest of the pipeline
// can assume well-formed input.
package etis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/horizon-oa/pkg/types"
)

// etisBase is the ETIS public API root. Declared as a var so tests can
// substitute an httptest server.
var etisBase = "https://www.etis.ee:2346/api"

const (
	defaultPageSize                    = 500
	defaultBadResponseLimit            = 10
	defaultPublicationBadResponseLimit = 100
)

// etisDateLayout is the day-granularity format used for project dates
// ("31.12.2023").
const etisDateLayout = "02.01.2006"

// Client talks to the ETIS getitems API.
type Client struct {
	Client *http.Client
	Config types.ETISConfig
}

// Projects pulls all projects for every configured institution. Institutions
// are processed in name order so repeated pulls page through the API
// identically. Progress lines go to progress (pass io.Discard to silence).
func (c *Client) Projects(ctx context.Context, progress io.Writer) ([]types.Project, error) {
	pageSize := c.Config.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	badLimit := c.Config.BadResponseLimit
	if badLimit <= 0 {
		badLimit = defaultBadResponseLimit
	}

	names := make([]string, 0, len(c.Config.Institutions))
	for name := range c.Config.Institutions {
		names = append(names, name)
	}
	sort.Strings(names)

	var projects []types.Project
	badResponses := 0
	for _, name := range names {
		institutionID := c.Config.Institutions[name]
		fmt.Fprintf(progress, "pulling projects for %s\n", name)

		for skip := 0; ; skip += pageSize {
			params := url.Values{
				"Format":        {"json"},
				"Take":          {strconv.Itoa(pageSize)},
				"Skip":          {strconv.Itoa(skip)},
				"InstitutionId": {institutionID},
			}
			if c.Config.ProjectStatus > 0 {
				params.Set("ProjectStatus", strconv.Itoa(c.Config.ProjectStatus))
			}

			var page []projectRecord
			if err := c.getItems(ctx, "project/getitems", params, &page); err != nil {
				badResponses++
				if badResponses >= badLimit {
					return nil, fmt.Errorf("aborting after %d failed responses: %w", badResponses, err)
				}
				fmt.Fprintf(progress, "bad response (%d so far): %v\n", badResponses, err)
				skip -= pageSize
				continue
			}

			for _, rec := range page {
				p, ok := convertProject(rec)
				if !ok {
					continue
				}
				projects = append(projects, p)
			}

			fmt.Fprintf(progress, "  %d projects so far\n", len(projects))
			if len(page) < pageSize {
				break
			}
		}
	}
	return projects, nil
}

// Publications pulls the given publications one by one. GUIDs that return a
// bad response are skipped; the pull aborts only after the configured
// number of failures. Per-GUID pulls fail routinely (stale references in
// project records), so the publication limit defaults much higher than the
// project one.
func (c *Client) Publications(ctx context.Context, guids []string, progress io.Writer) ([]types.Publication, error) {
	badLimit := c.Config.PublicationBadResponseLimit
	if badLimit <= 0 {
		badLimit = defaultPublicationBadResponseLimit
	}

	var publications []types.Publication
	badResponses := 0
	for i, guid := range guids {
		params := url.Values{
			"Format": {"json"},
			"Guid":   {guid},
		}

		var page []publicationRecord
		err := c.getItems(ctx, "publication/getitems", params, &page)
		if err == nil && len(page) == 0 {
			err = fmt.Errorf("publication %s: empty response", guid)
		}
		if err != nil {
			badResponses++
			if badResponses >= badLimit {
				return nil, fmt.Errorf("aborting after %d failed responses: %w", badResponses, err)
			}
			fmt.Fprintf(progress, "bad response (%d so far): %v\n", badResponses, err)
			continue
		}

		if pub, ok := convertPublication(page[0]); ok {
			publications = append(publications, pub)
		}

		if (i+1)%100 == 0 {
			fmt.Fprintf(progress, "  %d/%d publications pulled\n", i+1, len(guids))
		}
	}
	return publications, nil
}

// getItems performs one GET against an ETIS getitems endpoint and decodes
// the JSON array response into out.
func (c *Client) getItems(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	reqURL := etisBase + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("ETIS API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ETIS API returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing ETIS response: %w", err)
	}
	return nil
}

// convertProject maps one wire record to a Project. Records without a GUID
// are unusable and dropped.
func convertProject(rec projectRecord) (types.Project, bool) {
	if rec.Guid == "" {
		return types.Project{}, false
	}

	p := types.Project{
		GUID:         rec.Guid,
		Title:        strings.TrimSpace(rec.TitleEng),
		Acronym:      strings.TrimSpace(rec.Acronym),
		GrantNumber:  strings.TrimSpace(rec.FinancierProjectNr),
		FundingTotal: rec.FinancingInPeriodsTotal,
	}

	for _, prog := range rec.Programmes {
		if prog.ProgrammeCode != "" {
			p.ProgrammeCodes = append(p.ProgrammeCodes, prog.ProgrammeCode)
		}
	}
	for _, inst := range rec.Institutions {
		if inst.HeadInstitutionNameEng != "" {
			p.Institutions = append(p.Institutions, types.Institution{Name: inst.HeadInstitutionNameEng})
		}
	}
	for _, pub := range rec.Publications {
		if pub.Guid != "" {
			p.Publications = append(p.Publications, types.PublicationRef{GUID: pub.Guid})
		}
	}

	if t, err := time.Parse(etisDateLayout, rec.ProjectStartDate); err == nil {
		p.StartDate = t
	}
	if t, err := time.Parse(etisDateLayout, rec.ProjectEndDate); err == nil {
		p.EndDate = t
	}

	return p, true
}

// convertPublication maps one wire record to a Publication. Records without
// a GUID or classification code are dropped; every downstream filter keys
// on those fields.
func convertPublication(rec publicationRecord) (types.Publication, bool) {
	if rec.Guid == "" || rec.ClassificationCode == "" {
		return types.Publication{}, false
	}

	pub := types.Publication{
		GUID:               rec.Guid,
		Title:              strings.TrimSpace(rec.Title),
		Periodical:         strings.TrimSpace(rec.Periodical),
		DOI:                strings.TrimSpace(rec.Doi),
		URL:                strings.TrimSpace(rec.Url),
		ClassificationCode: rec.ClassificationCode,
		Status:             strings.ToLower(strings.TrimSpace(rec.PublicationStatusEng)),
		IsOpenAccess:       rec.IsOpenAccess,
		OpenAccessType:     rec.OpenAccessTypeName,
		License:            rec.LicenceTypeName,
		IsPublicFile:       rec.IsPublicFile,
	}

	for _, proj := range rec.Projects {
		if proj.Guid != "" {
			pub.ProjectGUIDs = append(pub.ProjectGUIDs, proj.Guid)
		}
	}

	// DateCreated is ISO with no zone; registry timestamps are local to the
	// service but only day precision matters downstream.
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, rec.DateCreated); err == nil {
			pub.CreatedAt = t
			break
		}
	}

	return pub, true
}

// ETIS API JSON structures.
type projectRecord struct {
	Guid                    string              `json:"Guid"`
	TitleEng                string              `json:"TitleEng"`
	Acronym                 string              `json:"Acronym"`
	FinancierProjectNr      string              `json:"FinancierProjectNr"`
	ProjectStartDate        string              `json:"ProjectStartDate"`
	ProjectEndDate          string              `json:"ProjectEndDate"`
	FinancingInPeriodsTotal float64             `json:"FinancingInPeriodsTotal"`
	Programmes              []programmeRecord   `json:"Programmes"`
	Institutions            []institutionRecord `json:"Institutions"`
	Publications            []guidRecord        `json:"Publications"`
}

type programmeRecord struct {
	ProgrammeCode string `json:"ProgrammeCode"`
}

type institutionRecord struct {
	HeadInstitutionNameEng string `json:"HeadInstitutionNameEng"`
}

type guidRecord struct {
	Guid string `json:"Guid"`
}

type publicationRecord struct {
	Guid                 string       `json:"Guid"`
	Title                string       `json:"Title"`
	Periodical           string       `json:"Periodical"`
	Doi                  string       `json:"Doi"`
	Url                  string       `json:"Url"`
	ClassificationCode   string       `json:"ClassificationCode"`
	PublicationStatusEng string       `json:"PublicationStatusEng"`
	DateCreated          string       `json:"DateCreated"`
	IsOpenAccess         bool         `json:"IsOpenAccess"`
	OpenAccessTypeName   string       `json:"OpenAccessTypeName"`
	LicenceTypeName      string       `json:"LicenceTypeName"`
	IsPublicFile         bool         `json:"IsPublicFile"`
	Projects             []guidRecord `json:"Projects"`
}
