package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"qcr/internal/domain"
)

// NewReport assembles a report from a finished run
func NewReport(meta domain.ReportMeta, outcomes []domain.RecordOutcome, duration time.Duration) *domain.Report {
	meta.Duration = duration.String()
	meta.DurationSeconds = duration.Seconds()
	meta.Timestamp = time.Now().Format(time.RFC3339)
	if outcomes == nil {
		outcomes = []domain.RecordOutcome{}
	}
	return &domain.Report{Meta: meta, Records: outcomes}
}

// Save writes the report to the configured JSON file.
func (s *JSONStorage) Save(report *domain.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Load reads a report from the configured JSON file.
func (s *JSONStorage) Load() (*domain.Report, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read report file: %w", err)
	}
	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &report, nil
}
