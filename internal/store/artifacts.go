// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists pipeline data two ways: raw API pulls as
// timestamped JSON artifacts on disk, and run results in a SQLite
// database.
//
// Artifacts are append-only. Every pull writes a new file named
// <handle>_<timestamp>UTC.json and readers pick the newest file for a
// handle, so a broken pull never destroys the previous good one.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go.yaml.in/yaml/v3"
)

// artifactStamp is the compact UTC timestamp embedded in artifact names,
// e.g. projects_20260828143005UTC.json.
const artifactStamp = "20060102150405"

// now is the artifact clock. Tests substitute it for stable filenames.
var now = time.Now

// WriteArtifact marshals v to dir/<handle>_<timestamp>UTC.json, creating
// dir as needed, and returns the written path.
func WriteArtifact(dir, handle string, v interface{}) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating artifact directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling %s artifact: %w", handle, err)
	}

	name := fmt.Sprintf("%s_%sUTC.json", handle, now().UTC().Format(artifactStamp))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	return path, nil
}

// WriteYAMLArtifact is WriteArtifact with YAML output, for artifacts meant
// to be annotated by hand (the manual-check sample).
func WriteYAMLArtifact(dir, handle string, v interface{}) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating artifact directory: %w", err)
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshaling %s artifact: %w", handle, err)
	}

	name := fmt.Sprintf("%s_%sUTC.yaml", handle, now().UTC().Format(artifactStamp))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	return path, nil
}

// ReadLatest finds the newest artifact for handle in dir, unmarshals it
// into out, and returns its path. The newest file is chosen by the
// timestamp in the name, not by file metadata.
func ReadLatest(dir, handle string, out interface{}) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading artifact directory: %w", err)
	}

	pattern, err := regexp.Compile("^" + regexp.QuoteMeta(handle) + `_(\d{14})UTC\.json$`)
	if err != nil {
		return "", fmt.Errorf("bad artifact handle %q: %w", handle, err)
	}

	var latest string
	var latestStamp string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		if m[1] > latestStamp {
			latestStamp = m[1]
			latest = entry.Name()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no %s artifact in %s", handle, dir)
	}

	path := filepath.Join(dir, latest)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading artifact: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return "", fmt.Errorf("parsing artifact %s: %w", latest, err)
	}
	return path, nil
}
