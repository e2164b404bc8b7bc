// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/horizon-oa/pkg/types"
)

// setConfigDefaults registers the default value for every config key.
// Everything here can be overridden in horizon-oa.yaml or via HORIZON_OA_*
// environment variables.
func setConfigDefaults() {
	viper.SetDefault("http.timeout", "60s")
	viper.SetDefault("http.user_agent", "horizon-oa/"+version)

	// University of Tartu and Tallinn University of Technology carry the
	// bulk of Estonian Horizon participation; extend per deployment.
	viper.SetDefault("etis.institutions", map[string]string{})
	viper.SetDefault("etis.project_status", 3)
	viper.SetDefault("etis.page_size", 500)
	viper.SetDefault("etis.bad_response_limit", 10)
	viper.SetDefault("etis.publication_bad_response_limit", 100)

	viper.SetDefault("openaire.country_code", "EE")
	viper.SetDefault("openaire.page_size", 100)
	viper.SetDefault("openaire.requests_per_second", 2)
	viper.SetDefault("openaire.bad_response_limit", 10)

	viper.SetDefault("oabutton.request_delay", "1s")

	viper.SetDefault("match.min_grant_number_len", 5)
	viper.SetDefault("match.exact_runner_up_max", 85)
	viper.SetDefault("match.approx_score_min", 85)
	viper.SetDefault("match.approx_runner_up_max", 70)
	viper.SetDefault("match.short_title_ratio", 0.7)

	// Horizon 2020 and Horizon Europe programme codes as used by ETIS.
	viper.SetDefault("analyze.programme_codes", []string{"136", "137", "442", "443", "450", "451"})
	viper.SetDefault("analyze.classification_codes", []string{"1.1.", "1.2.", "1.3."})
	viper.SetDefault("analyze.min_duration_months", 30)
	viper.SetDefault("analyze.max_duration_months", 42)
	viper.SetDefault("analyze.known_institutions", []string{})

	viper.SetDefault("data.raw_dir", "data/raw")
	viper.SetDefault("data.results_dir", "data/results")
	viper.SetDefault("data.manual_dir", "data/manual")
	viper.SetDefault("data.db_path", "data/horizon-oa.db")

	viper.SetDefault("sample.size", 20)
	viper.SetDefault("sample.seed", 1913)
}

// pipelineConfig assembles the full stage configuration from viper.
func pipelineConfig() types.PipelineConfig {
	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}

	return types.PipelineConfig{
		ETIS: types.ETISConfig{
			HTTPConfig:                  httpCfg,
			Institutions:                viper.GetStringMapString("etis.institutions"),
			ProjectStatus:               viper.GetInt("etis.project_status"),
			PageSize:                    viper.GetInt("etis.page_size"),
			BadResponseLimit:            viper.GetInt("etis.bad_response_limit"),
			PublicationBadResponseLimit: viper.GetInt("etis.publication_bad_response_limit"),
		},
		OpenAIRE: types.OpenAIREConfig{
			HTTPConfig:        httpCfg,
			CountryCode:       viper.GetString("openaire.country_code"),
			PageSize:          viper.GetInt("openaire.page_size"),
			RequestsPerSecond: viper.GetFloat64("openaire.requests_per_second"),
			BadResponseLimit:  viper.GetInt("openaire.bad_response_limit"),
		},
		OAButton: types.OAButtonConfig{
			HTTPConfig:   httpCfg,
			APIKey:       secretDefault("oabutton-api-key", viper.GetString("oabutton.api_key")),
			RequestDelay: viper.GetDuration("oabutton.request_delay"),
		},
		Match: types.MatchConfig{
			MinGrantNumberLen: viper.GetInt("match.min_grant_number_len"),
			ExactRunnerUpMax:  viper.GetInt("match.exact_runner_up_max"),
			ApproxScoreMin:    viper.GetInt("match.approx_score_min"),
			ApproxRunnerUpMax: viper.GetInt("match.approx_runner_up_max"),
			ShortTitleRatio:   viper.GetFloat64("match.short_title_ratio"),
		},
		Analyze: types.AnalyzeConfig{
			ProgrammeCodes:      viper.GetStringSlice("analyze.programme_codes"),
			ClassificationCodes: viper.GetStringSlice("analyze.classification_codes"),
			MinDurationMonths:   viper.GetInt("analyze.min_duration_months"),
			MaxDurationMonths:   viper.GetInt("analyze.max_duration_months"),
			KnownInstitutions:   viper.GetStringSlice("analyze.known_institutions"),
		},
		Data: types.DataConfig{
			RawDir:     viper.GetString("data.raw_dir"),
			ResultsDir: viper.GetString("data.results_dir"),
			ManualDir:  viper.GetString("data.manual_dir"),
			DBPath:     viper.GetString("data.db_path"),
		},
		Sample: types.SampleConfig{
			Size: viper.GetInt("sample.size"),
			Seed: viper.GetInt64("sample.seed"),
		},
	}
}

// httpClient builds the shared HTTP client for a stage.
func httpClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
