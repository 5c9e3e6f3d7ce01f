// Package stats collects and renders benchmark measurements for the bonsai
// CLI: timing, the engines' own show_stat diagnostics, and a written report
// in either Markdown or YAML.
package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// Report holds one benchmark run's measurements, ready to render as
// Markdown (the default, matching the CLI's other reports) or YAML.
type Report struct {
	EngineName      string    `yaml:"engine"`
	NumKeys         uint64    `yaml:"num_keys"`
	InsertNanosPerK float64   `yaml:"insert_ns_per_key"`
	SearchNanosPerK float64   `yaml:"search_ns_per_key,omitempty"`
	NumOK           uint64    `yaml:"num_ok,omitempty"`
	NumNG           uint64    `yaml:"num_ng,omitempty"`
	CPUSeconds      float64   `yaml:"cpu_seconds,omitempty"`
	ShowStat        string    `yaml:"show_stat"`
	GeneratedAt     time.Time `yaml:"generated_at"`
}

// Markdown renders the report the way the CLI's other report writers do:
// a heading, a flat field list, and the engine's raw show_stat text.
func (r Report) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s benchmark\n\n", r.EngineName)
	fmt.Fprintf(&sb, "- generated: %s\n", r.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "- num keys: %d\n", r.NumKeys)
	fmt.Fprintf(&sb, "- insert: %.2f ns/key\n", r.InsertNanosPerK)

	if r.SearchNanosPerK > 0 {
		fmt.Fprintf(&sb, "- search: %.2f ns/key\n", r.SearchNanosPerK)
		fmt.Fprintf(&sb, "- OK: %d, NG: %d\n", r.NumOK, r.NumNG)
	}

	if r.CPUSeconds > 0 {
		fmt.Fprintf(&sb, "- cpu time: %.3fs\n", r.CPUSeconds)
	}

	sb.WriteString("\n```\n")
	sb.WriteString(r.ShowStat)
	sb.WriteString("```\n")

	return sb.String()
}

// YAML renders the report as YAML, an alternate machine-readable format
// for feeding downstream tooling.
func (r Report) YAML() (string, error) {
	b, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("stats: marshal yaml report: %w", err)
	}
	return string(b), nil
}

// WriteMarkdown atomically writes the report's Markdown rendering to path.
func (r Report) WriteMarkdown(path string) error {
	if err := atomic.WriteFile(path, strings.NewReader(r.Markdown())); err != nil {
		return fmt.Errorf("stats: write report %s: %w", path, err)
	}
	return nil
}

// WriteYAML atomically writes the report's YAML rendering to path.
func (r Report) WriteYAML(path string) error {
	body, err := r.YAML()
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, strings.NewReader(body)); err != nil {
		return fmt.Errorf("stats: write report %s: %w", path, err)
	}
	return nil
}
