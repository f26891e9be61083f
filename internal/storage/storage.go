// Package storage persists run reports so they can be reviewed later.
package storage

import "qcr/internal/domain"

// Storage persists and loads run reports (e.g. for the review viewer).
type Storage interface {
	Save(report *domain.Report) error
	Load() (*domain.Report, error)
}

// JSONStorage stores a report in a single JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage returns a Storage that reads/writes the given report path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the report file location
func (s *JSONStorage) Path() string {
	return s.path
}
