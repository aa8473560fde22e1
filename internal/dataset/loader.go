// Package dataset reads the two landing collections into records.
//
// A missing input file is an empty collection. Malformed JSONL lines and
// unparseable CSV rows are skipped with a warning.
package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/bookmerge/internal/records"
	"go.uber.org/zap"
)

// ErrUnsupportedFormat is returned for file extensions no loader handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Loader reads landing files
type Loader struct {
	log *zap.Logger
}

// NewLoader creates a new dataset loader
func NewLoader(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log}
}

// LoadPrimary reads newline-delimited Goodreads records.
func (l *Loader) LoadPrimary(path string) ([]records.PrimaryRecord, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		l.log.Warn("Primary input not found, treating as empty", zap.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open primary file: %w", err)
	}
	defer file.Close()

	var out []records.PrimaryRecord
	skipped, err := scanJSONLines(file, func(line []byte) error {
		var rec records.PrimaryRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return err
		}
		out = append(out, rec)
		return nil
	}, l.log)
	if err != nil {
		return nil, fmt.Errorf("error reading primary file: %w", err)
	}

	l.log.Info("Loaded primary records", zap.String("path", path), zap.Int("records", len(out)), zap.Int("skipped", skipped))
	return out, nil
}

// LoadSecondary reads the secondary collection, choosing a reader by extension:
// .parquet, .csv (";"-separated) or .json/.jsonl (Google Books volumes).
func (l *Loader) LoadSecondary(path string) ([]records.SecondaryRecord, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		l.log.Warn("Secondary input not found, treating as empty", zap.String("path", path))
		return nil, nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		return l.loadParquet(path)
	case ".csv":
		return l.loadCSV(path)
	case ".json", ".jsonl":
		return l.LoadVolumes(path)
	default:
		return nil, fmt.Errorf("%w: %s (supported: .parquet, .csv, .json, .jsonl)", ErrUnsupportedFormat, ext)
	}
}

// LoadSecondarySources prefers the parquet landing file and falls back to the
// CSV one. Read failures degrade to an empty collection.
func (l *Loader) LoadSecondarySources(parquetPath, csvPath string) []records.SecondaryRecord {
	path := ""
	switch {
	case parquetPath != "" && fileExists(parquetPath):
		path = parquetPath
	case csvPath != "" && fileExists(csvPath):
		path = csvPath
	default:
		l.log.Warn("No secondary input found, continuing with primary only",
			zap.String("parquet", parquetPath), zap.String("csv", csvPath))
		return nil
	}

	recs, err := l.LoadSecondary(path)
	if err != nil {
		l.log.Warn("Failed to read secondary input, continuing with primary only", zap.String("path", path), zap.Error(err))
		return nil
	}
	return recs
}

// scanJSONLines calls fn for every non-blank line. Lines fn rejects are
// logged and counted, not fatal.
func scanJSONLines(file *os.File, fn func([]byte) error, log *zap.Logger) (int, error) {
	scanner := bufio.NewScanner(file)

	// Increase buffer size for long descriptions
	const maxCapacity = 10 * 1024 * 1024 // 10MB per line
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxCapacity)

	lineNum, skipped := 0, 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			skipped++
			log.Warn("Skipping malformed line", zap.Int("line", lineNum), zap.Error(err))
		}
	}

	return skipped, scanner.Err()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
