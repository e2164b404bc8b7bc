// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze applies the study's business rules to registry snapshots:
// project selection, publication filtering, and the funding-to-publication
// timing computation.
//
// The rules here (duration window, institution registry, programme codes)
// are policy from one analysis pass, configured rather than hard-coded so
// they can be revisited without touching the code.
package analyze

import (
	"strings"

	"github.com/pdiddy/horizon-oa/pkg/types"
)

const (
	daysPerMonth  = 30
	secondsPerDay = 24 * 60 * 60
)

// daysFloor converts a signed second difference to whole days, flooring
// toward negative infinity. Plain integer division truncates toward zero,
// which would count a publication created within 24h after project end as
// 0 days instead of -1.
func daysFloor(seconds int64) int {
	days := seconds / secondsPerDay
	if seconds%secondsPerDay != 0 && seconds < 0 {
		days--
	}
	return int(days)
}

// FilterHorizon keeps projects attached to at least one of the configured
// Horizon programme codes.
func FilterHorizon(projects []types.Project, programmeCodes []string) []types.Project {
	codes := make(map[string]bool, len(programmeCodes))
	for _, c := range programmeCodes {
		codes[c] = true
	}

	var kept []types.Project
	for _, p := range projects {
		for _, c := range p.ProgrammeCodes {
			if codes[c] {
				kept = append(kept, p)
				break
			}
		}
	}
	return kept
}

// FilterRelevant keeps projects that reported publications and whose
// duration falls inside the configured window. Duration is counted in
// whole 30-day months, matching how the window bounds are expressed.
func FilterRelevant(projects []types.Project, cfg types.AnalyzeConfig) []types.Project {
	var kept []types.Project
	for _, p := range projects {
		if len(p.Publications) == 0 {
			continue
		}
		months := int(p.EndDate.Sub(p.StartDate).Hours()/24) / daysPerMonth
		if months < cfg.MinDurationMonths || months > cfg.MaxDurationMonths {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// PublicationUsage records which projects reported a publication. The same
// publication can be reported under several projects.
type PublicationUsage struct {
	GUID         string   `json:"guid" yaml:"guid"`
	ProjectGUIDs []string `json:"project_guids" yaml:"project_guids"`
}

// CollectPublications gathers the unique publications across all projects,
// in first-seen order, along with the total number of (non-unique)
// publication reports.
func CollectPublications(projects []types.Project) (unique []PublicationUsage, reported int) {
	index := make(map[string]int)
	for _, p := range projects {
		for _, ref := range p.Publications {
			reported++
			if i, ok := index[ref.GUID]; ok {
				unique[i].ProjectGUIDs = append(unique[i].ProjectGUIDs, p.GUID)
				continue
			}
			index[ref.GUID] = len(unique)
			unique = append(unique, PublicationUsage{
				GUID:         ref.GUID,
				ProjectGUIDs: []string{p.GUID},
			})
		}
	}
	return unique, reported
}

// FilterArticles keeps publications that are published scientific articles
// per the configured classification codes.
func FilterArticles(publications []types.Publication, classificationCodes []string) []types.Publication {
	codes := make(map[string]bool, len(classificationCodes))
	for _, c := range classificationCodes {
		codes[c] = true
	}

	var kept []types.Publication
	for _, pub := range publications {
		if !codes[pub.ClassificationCode] {
			continue
		}
		if !pub.IsPublished() {
			continue
		}
		kept = append(kept, pub)
	}
	return kept
}

// ProjectTiming relates a project's funding period to when its publications
// appeared in the registry.
type ProjectTiming struct {
	ProjectGUID  string `json:"project_guid" yaml:"project_guid"`
	DurationDays int    `json:"duration_days" yaml:"duration_days"`

	// RelativeTimeDays holds, per publication, the number of days from
	// project end to the publication's registry creation; positive means
	// the publication appeared before the project ended.
	RelativeTimeDays []int `json:"relative_time_days" yaml:"relative_time_days"`

	// EarliestRelativeTimeDays is the earliest relative time among
	// publications created after the project started, nil when none
	// qualify.
	EarliestRelativeTimeDays *int `json:"earliest_relative_time_days" yaml:"earliest_relative_time_days"`

	FundingEUR  float64 `json:"funding_eur" yaml:"funding_eur"`
	Institution string  `json:"institution" yaml:"institution"`
}

// TimingReport is the outcome of the timing analysis.
type TimingReport struct {
	Projects []ProjectTiming `json:"projects" yaml:"projects"`

	// AmbiguousInstitutions counts projects that reported more than one
	// known institution; the first known one was kept.
	AmbiguousInstitutions int `json:"ambiguous_institutions" yaml:"ambiguous_institutions"`
}

// RelativeTimes computes per-project publication timing for the given
// projects, considering only the given (already filtered) publications.
// Projects with no qualifying publications are dropped.
func RelativeTimes(projects []types.Project, publications []types.Publication, cfg types.AnalyzeConfig) TimingReport {
	created := make(map[string]int64, len(publications))
	for _, pub := range publications {
		created[pub.GUID] = pub.CreatedAt.Unix()
	}

	var report TimingReport
	for _, p := range projects {
		var relative []int
		for _, ref := range p.Publications {
			ts, ok := created[ref.GUID]
			if !ok {
				continue
			}
			relative = append(relative, daysFloor(p.EndDate.Unix()-ts))
		}
		if len(relative) == 0 {
			continue
		}

		durationDays := int(p.EndDate.Sub(p.StartDate).Hours() / 24)

		timing := ProjectTiming{
			ProjectGUID:      p.GUID,
			DurationDays:     durationDays,
			RelativeTimeDays: relative,
			FundingEUR:       p.FundingTotal,
		}

		// Earliest publication after project start: relative time plus
		// duration is positive exactly when the publication postdates the
		// start date.
		for _, days := range relative {
			if days+durationDays <= 0 {
				continue
			}
			if timing.EarliestRelativeTimeDays == nil || days < *timing.EarliestRelativeTimeDays {
				d := days
				timing.EarliestRelativeTimeDays = &d
			}
		}

		institution, ambiguous := resolveInstitution(p.Institutions, cfg.KnownInstitutions)
		timing.Institution = institution
		if ambiguous {
			report.AmbiguousInstitutions++
		}

		report.Projects = append(report.Projects, timing)
	}
	return report
}

// resolveInstitution picks the first known institution in the project's
// own order. Several known institutions on one project are possible and
// counted as ambiguous; the first one wins.
func resolveInstitution(institutions []types.Institution, known []string) (name string, ambiguous bool) {
	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[k] = true
	}

	seen := make(map[string]bool)
	var found []string
	for _, inst := range institutions {
		trimmed := strings.TrimSpace(inst.Name)
		if seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		if knownSet[trimmed] {
			found = append(found, trimmed)
		}
	}

	if len(found) == 0 {
		return "", false
	}
	return found[0], len(found) > 1
}
