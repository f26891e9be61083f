package discovery

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"qcr/internal/domain"
	"qcr/internal/repair"
)

// CodeColumn is the CSV column holding the case code
const CodeColumn = "ID"

// CSVRow is one value to write, keyed by case code
type CSVRow struct {
	Code  string
	Value string
}

// LoadCSV reads code/value pairs from a CSV file with a header row. HTML is
// stripped from values. Rows without a code are skipped; a repeated code
// keeps its last value at the position of its first appearance.
func LoadCSV(path, column string) ([]CSVRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, column)
}

// ReadCSV is LoadCSV over a reader
func ReadCSV(r io.Reader, column string) ([]CSVRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	codeIdx, valueIdx := -1, -1
	for i, name := range header {
		switch name {
		case CodeColumn:
			codeIdx = i
		case column:
			valueIdx = i
		}
	}
	if valueIdx < 0 {
		return nil, fmt.Errorf("CSV column %q not found, available columns: %s", column, strings.Join(header, ", "))
	}
	if codeIdx < 0 {
		return nil, fmt.Errorf("CSV column %q not found, available columns: %s", CodeColumn, strings.Join(header, ", "))
	}

	var rows []CSVRow
	index := make(map[string]int)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		code := field(record, codeIdx)
		if code == "" {
			continue
		}
		value := repair.StripHTML(field(record, valueIdx))
		if i, ok := index[code]; ok {
			rows[i].Value = value
			continue
		}
		index[code] = len(rows)
		rows = append(rows, CSVRow{Code: code, Value: value})
	}
	return rows, nil
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// CaseIndex looks up cases by code, with or without the "C" prefix
type CaseIndex struct {
	byCode map[string]*domain.TestCase
}

// NewCaseIndex indexes cases by code, falling back to the numeric id
func NewCaseIndex(cases []domain.TestCase) *CaseIndex {
	idx := &CaseIndex{byCode: make(map[string]*domain.TestCase, len(cases)*2)}
	for i := range cases {
		tc := &cases[i]
		code := tc.Code
		if code == "" {
			code = strconv.FormatInt(tc.ID, 10)
		}
		idx.byCode[code] = tc
		if strings.HasPrefix(code, "C") {
			idx.byCode[code[1:]] = tc
		} else {
			idx.byCode["C"+code] = tc
		}
	}
	return idx
}

// Lookup finds the case for a CSV code
func (idx *CaseIndex) Lookup(code string) (*domain.TestCase, bool) {
	if tc, ok := idx.byCode[code]; ok {
		return tc, true
	}
	if strings.HasPrefix(code, "C") {
		tc, ok := idx.byCode[code[1:]]
		return tc, ok
	}
	tc, ok := idx.byCode["C"+code]
	return tc, ok
}

// Len returns the number of indexed codes, prefixed variants included
func (idx *CaseIndex) Len() int {
	return len(idx.byCode)
}
