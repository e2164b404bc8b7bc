// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package etis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/horizon-oa/pkg/types"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	oldBase := etisBase
	etisBase = server.URL
	t.Cleanup(func() { etisBase = oldBase })

	return &Client{
		Client: server.Client(),
		Config: types.ETISConfig{
			Institutions: map[string]string{"University of Tartu": "inst-1"},
			PageSize:     2,
		},
	}
}

func TestProjectsPagination(t *testing.T) {
	pages := map[string]string{
		"0": `[
			{"Guid": "p-1", "TitleEng": " Quantum Sensing ", "Acronym": "QS",
			 "FinancierProjectNr": "101079200",
			 "ProjectStartDate": "01.01.2020", "ProjectEndDate": "01.01.2023",
			 "FinancingInPeriodsTotal": 1500000,
			 "Programmes": [{"ProgrammeCode": "442"}],
			 "Institutions": [{"HeadInstitutionNameEng": "University of Tartu"}],
			 "Publications": [{"Guid": "pub-1"}, {"Guid": ""}]},
			{"Guid": "", "TitleEng": "missing guid, dropped"}
		]`,
		"2": `[
			{"Guid": "p-2", "TitleEng": "Marine Microbiome"}
		]`,
	}

	var requests []string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Path)
		assert.Equal(t, "/project/getitems", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("Format"))
		assert.Equal(t, "inst-1", r.URL.Query().Get("InstitutionId"))
		fmt.Fprint(w, pages[r.URL.Query().Get("Skip")])
	})

	projects, err := client.Projects(context.Background(), io.Discard)
	require.NoError(t, err)

	assert.Len(t, requests, 2, "short second page ends pagination")
	require.Len(t, projects, 2)

	p := projects[0]
	assert.Equal(t, "p-1", p.GUID)
	assert.Equal(t, "Quantum Sensing", p.Title, "title is trimmed")
	assert.Equal(t, "101079200", p.GrantNumber)
	assert.Equal(t, []string{"442"}, p.ProgrammeCodes)
	assert.Equal(t, 1_500_000.0, p.FundingTotal)
	assert.Equal(t, "University of Tartu", p.Institutions[0].Name)
	assert.Equal(t, []types.PublicationRef{{GUID: "pub-1"}}, p.Publications,
		"empty publication refs are dropped")
	assert.Equal(t, 2020, p.StartDate.Year())
	assert.Equal(t, 2023, p.EndDate.Year())
	assert.Equal(t, "p-2", projects[1].GUID)
}

func TestProjectsRetriesFailedPage(t *testing.T) {
	calls := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		// The failed page must be re-requested at the same offset, not
		// skipped over.
		assert.Equal(t, "0", r.URL.Query().Get("Skip"))
		fmt.Fprint(w, `[{"Guid": "p-1", "TitleEng": "Quantum Sensing"}]`)
	})
	client.Config.BadResponseLimit = 5

	projects, err := client.Projects(context.Background(), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	require.Len(t, projects, 1)
	assert.Equal(t, "p-1", projects[0].GUID)
}

func TestProjectsBadResponseLimit(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	client.Config.BadResponseLimit = 3

	_, err := client.Projects(context.Background(), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 failed responses")
}

func TestPublications(t *testing.T) {
	records := map[string]string{
		"pub-1": `[{"Guid": "pub-1", "Title": "Arctic Ice Dynamics",
			"Doi": "10.1234/abc", "ClassificationCode": "1.1.",
			"PublicationStatusEng": "Published",
			"DateCreated": "2021-06-15T10:30:00",
			"IsOpenAccess": true, "OpenAccessTypeName": "Gold",
			"Projects": [{"Guid": "p-1"}]}]`,
		"pub-2": `[{"Guid": "pub-2", "Title": "no classification code"}]`,
	}

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/publication/getitems", r.URL.Path)
		fmt.Fprint(w, records[r.URL.Query().Get("Guid")])
	})

	publications, err := client.Publications(context.Background(), []string{"pub-1", "pub-2"}, io.Discard)
	require.NoError(t, err)

	require.Len(t, publications, 1, "record without classification code is dropped")
	pub := publications[0]
	assert.Equal(t, "pub-1", pub.GUID)
	assert.Equal(t, "published", pub.Status, "status is normalized to lowercase")
	assert.True(t, pub.IsPublished())
	assert.Equal(t, "Gold", pub.OpenAccessType)
	assert.Equal(t, []string{"p-1"}, pub.ProjectGUIDs)
	assert.Equal(t, 2021, pub.CreatedAt.Year())
	assert.True(t, pub.IsOpenAccess)
}

func TestPublicationsSkipsBadGUIDs(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("Guid") == "pub-gone" {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprint(w, `[{"Guid": "pub-1", "ClassificationCode": "1.1."}]`)
	})
	client.Config.PublicationBadResponseLimit = 10

	publications, err := client.Publications(context.Background(), []string{"pub-gone", "pub-1"}, io.Discard)
	require.NoError(t, err)
	require.Len(t, publications, 1)
	assert.Equal(t, "pub-1", publications[0].GUID)
}
