package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "horizon-oa/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ETISConfig holds settings for the national registry client.
type ETISConfig struct {
	HTTPConfig `yaml:",inline"`

	// Institutions maps institution names to registry institution IDs.
	// Projects are pulled per institution.
	Institutions map[string]string `json:"institutions" yaml:"institutions"`

	// ProjectStatus selects which projects to pull: 1 all, 2 ongoing,
	// 3 finished (default 3).
	ProjectStatus int `json:"project_status" yaml:"project_status"`

	// PageSize is the number of items per getitems request (default 500).
	PageSize int `json:"page_size" yaml:"page_size"`

	// BadResponseLimit aborts a pull after this many failed responses so a
	// broken run does not spam the API (default 10 for project pulls,
	// raised to PublicationBadResponseLimit for per-GUID publication pulls).
	BadResponseLimit            int `json:"bad_response_limit" yaml:"bad_response_limit"`
	PublicationBadResponseLimit int `json:"publication_bad_response_limit" yaml:"publication_bad_response_limit"`
}

// OpenAIREConfig holds settings for the funder's search and graph APIs.
type OpenAIREConfig struct {
	HTTPConfig `yaml:",inline"`

	// CountryCode filters graph projects by related organization country
	// (default "EE").
	CountryCode string `json:"country_code" yaml:"country_code"`

	// PageSize is the number of graph items per page (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// RequestsPerSecond limits the local request rate against the search
	// API (default 2). The client also honors the service's rate-limit
	// response headers.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// BadResponseLimit aborts a graph pull after this many failed
	// responses (default 10).
	BadResponseLimit int `json:"bad_response_limit" yaml:"bad_response_limit"`
}

// OAButtonConfig holds settings for the open-access lookup service.
type OAButtonConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an optional API key sent with lookup requests.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// RequestDelay is the delay between consecutive lookups (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
}

// MatchConfig holds the matching thresholds. These are empirically tuned
// for one dataset, not universal truths; recalibrate here, not in the
// matching logic.
type MatchConfig struct {
	// MinGrantNumberLen is the minimum grant-number length for the
	// combined acronym+grant rule to apply (default 5).
	MinGrantNumberLen int `json:"min_grant_number_len" yaml:"min_grant_number_len"`

	// ExactRunnerUpMax: a top fuzzy score of exactly 100 is accepted only
	// when the runner-up scores at most this (default 85).
	ExactRunnerUpMax int `json:"exact_runner_up_max" yaml:"exact_runner_up_max"`

	// ApproxScoreMin / ApproxRunnerUpMax: a top score of at least
	// ApproxScoreMin is accepted as an approximate match only when the
	// runner-up scores strictly below ApproxRunnerUpMax (defaults 85 / 70).
	ApproxScoreMin    int `json:"approx_score_min" yaml:"approx_score_min"`
	ApproxRunnerUpMax int `json:"approx_runner_up_max" yaml:"approx_runner_up_max"`

	// ShortTitleRatio dampens candidates much shorter than the query: when
	// the candidate title is shorter than this fraction of the query
	// length, the raw score is multiplied by the length ratio (default 0.7).
	ShortTitleRatio float64 `json:"short_title_ratio" yaml:"short_title_ratio"`
}

// AnalyzeConfig holds the business rules for the timing/funding analysis.
// The duration window and institution registry are policy, not constants;
// they came out of one analysis pass and may need revisiting.
type AnalyzeConfig struct {
	// ProgrammeCodes selects Horizon projects (default: the Horizon 2020
	// and Horizon Europe programme codes).
	ProgrammeCodes []string `json:"programme_codes" yaml:"programme_codes"`

	// ClassificationCodes selects scientific articles (default "1.1.",
	// "1.2.", "1.3.").
	ClassificationCodes []string `json:"classification_codes" yaml:"classification_codes"`

	// MinDurationMonths / MaxDurationMonths bound the project duration
	// window, in whole months (defaults 30 / 42, i.e. 2.5-3.5 years).
	MinDurationMonths int `json:"min_duration_months" yaml:"min_duration_months"`
	MaxDurationMonths int `json:"max_duration_months" yaml:"max_duration_months"`

	// KnownInstitutions lists the institution names recognized for
	// disambiguation; the first known institution wins when a project
	// reports several.
	KnownInstitutions []string `json:"known_institutions" yaml:"known_institutions"`
}

// DataConfig holds the on-disk layout for run artifacts.
type DataConfig struct {
	// RawDir holds timestamped raw pull artifacts (default "data/raw").
	RawDir string `json:"raw_dir" yaml:"raw_dir"`

	// ResultsDir holds timestamped result artifacts (default "data/results").
	ResultsDir string `json:"results_dir" yaml:"results_dir"`

	// ManualDir holds manual-check sample files (default "data/manual").
	ManualDir string `json:"manual_dir" yaml:"manual_dir"`

	// DBPath is the SQLite run-results database (default "data/horizon-oa.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}

// SampleConfig holds settings for the manual-check sampling utility.
type SampleConfig struct {
	// Size is the number of publications to sample (default 20).
	Size int `json:"size" yaml:"size"`

	// Seed fixes the random sample so repeated runs pick the same GUIDs
	// (default 1913).
	Seed int64 `json:"seed" yaml:"seed"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	ETIS     ETISConfig     `json:"etis" yaml:"etis"`
	OpenAIRE OpenAIREConfig `json:"openaire" yaml:"openaire"`
	OAButton OAButtonConfig `json:"oabutton" yaml:"oabutton"`
	Match    MatchConfig    `json:"match" yaml:"match"`
	Analyze  AnalyzeConfig  `json:"analyze" yaml:"analyze"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Sample   SampleConfig   `json:"sample" yaml:"sample"`
}
