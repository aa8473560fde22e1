package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/bookmerge/internal/matching"
	"github.com/lehigh-university-libraries/bookmerge/internal/merge"
	"github.com/lehigh-university-libraries/bookmerge/internal/metrics"
	"github.com/lehigh-university-libraries/bookmerge/internal/pipeline"
	"gopkg.in/yaml.v3"
)

// RunConfig represents the configuration section of the report YAML
type RunConfig struct {
	PrimaryPath   string      `yaml:"primarypath"`
	SecondaryPath string      `yaml:"secondarypath,omitempty"`
	Rules         merge.Rules `yaml:"rules"`
	Timestamp     string      `yaml:"timestamp"`
}

// RunReport is the complete YAML report of one merge run
type RunReport struct {
	RunID        string          `yaml:"runid"`
	Config       RunConfig       `yaml:"config"`
	Index        matching.Stats  `yaml:"index"`
	MergeMethods map[string]int  `yaml:"mergemethods"`
	Metrics      metrics.Summary `yaml:"metrics"`
}

// NewRunReport assembles the report for res.
func NewRunReport(res *pipeline.Result, rules merge.Rules, primaryPath, secondaryPath string) RunReport {
	return RunReport{
		RunID: res.RunID,
		Config: RunConfig{
			PrimaryPath:   primaryPath,
			SecondaryPath: secondaryPath,
			Rules:         rules,
			Timestamp:     res.GeneratedAt,
		},
		Index:        res.Index,
		MergeMethods: metrics.MethodCounts(res.Details),
		Metrics:      res.Metrics,
	}
}

// SaveToYAML writes report to dir/merge-<timestamp>.yaml and returns the file path.
func SaveToYAML(dir string, report RunReport, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("merge-%s.yaml", now.Format("2006-01-02_15-04-05")))

	data, err := yaml.Marshal(&report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	return absPath, nil
}
