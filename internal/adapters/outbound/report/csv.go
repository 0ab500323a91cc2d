package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/abdidvp/repoprobe/internal/domain"
)

// Columns is the header row of the report.
var Columns = []string{
	"Repository Name", "Repository URL", "Is Web App", "Confidence Level",
	"Web App Type", "Frontend Framework", "Backend Framework", "Package Manager",
	"Web Server", "Web Server OS", "Languages", "Date Created", "Detection Level", "Notes",
}

// CSVStore implements domain.ReportStore on a CSV file that is appended to
// one row per repository.
type CSVStore struct{}

var _ domain.ReportStore = (*CSVStore)(nil)

func New() *CSVStore {
	return &CSVStore{}
}

// ProcessedNames returns the repository names already present in the
// report. A missing report yields an empty set.
func (s *CSVStore) ProcessedNames(path string) (map[string]bool, error) {
	names := make(map[string]bool)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return names, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header := true
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if header {
			header = false
			if len(rec) > 0 && rec[0] == Columns[0] {
				continue
			}
		}
		if len(rec) > 0 && rec[0] != "" {
			names[rec[0]] = true
		}
	}
}

// Append writes results to the report, creating it with a header row when
// it does not exist yet.
func (s *CSVStore) Append(path string, results ...domain.Result) error {
	writeHeader := false
	if info, err := os.Stat(path); errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0) {
		writeHeader = true
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if err := writeRows(f, writeHeader, results); err != nil {
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	return nil
}

// writeRows writes and closes f. A row counts as written only once the
// close succeeds.
func writeRows(f io.WriteCloser, header bool, results []domain.Result) (err error) {
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing report: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if header {
		if err := w.Write(Columns); err != nil {
			return err
		}
	}
	for _, r := range results {
		if err := w.Write(Row(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Row renders a result in column order.
func Row(r domain.Result) []string {
	return []string{
		r.Name,
		r.URL,
		string(r.IsWebApp),
		string(r.Confidence),
		r.WebAppType,
		r.FrontendFramework,
		r.BackendFramework,
		r.PackageManager,
		r.WebServer,
		r.WebServerOS,
		r.Languages,
		r.DateCreated,
		r.DetectionLevel.String(),
		r.Notes,
	}
}
