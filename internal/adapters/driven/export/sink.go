package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.ResultSink = (*Sink)(nil)

// Output file names.
const (
	FileTransactions = "transactions.csv"
	FileBasicInfo    = "basic_info.csv"
	FileStructure    = "structure.csv"
	FileApprovals    = "approvals.csv"
	FileExcluded     = "excluded.csv"
	FileRecords      = "records.json"
	FileExcludedJSON = "excluded.json"
	FileSummary      = "summary.json"
)

// utf8BOM lets spreadsheet tools detect the encoding of Chinese headers.
const utf8BOM = "\ufeff"

const (
	labelOutcome          = "提取方式"
	labelExclusionReason  = "排除原因"
	labelExclusionComment = "备注"

	transactionTypeOther = "其他"
	countryUnknown       = "未明确"

	// domesticMarker identifies exclusions of domestic transactions.
	domesticMarker = "境内"
)

// Sink writes batch results under a base directory.
type Sink struct {
	dir    string
	format domain.OutputFormat
	logger *zap.Logger
	now    func() time.Time
}

// NewSink creates a sink that writes runs below dir.
func NewSink(dir string, format domain.OutputFormat, logger *zap.Logger) (*Sink, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: output directory is required", domain.ErrInvalidInput)
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: output format %q", domain.ErrUnsupportedType, format)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{dir: dir, format: format, logger: logger, now: time.Now}, nil
}

// Dir returns the base output directory.
func (s *Sink) Dir() string {
	return s.dir
}

// Write stores the batch in a new run directory and returns its path.
func (s *Sink) Write(ctx context.Context, result domain.BatchResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	runDir := filepath.Join(s.dir, s.runName(result.Summary))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("create run directory: %w", err)
	}

	var err error
	switch s.format {
	case domain.OutputFormatJSON:
		err = s.writeJSONFiles(runDir, result)
	default:
		err = s.writeCSVFiles(runDir, result)
	}
	if err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, FileSummary), NewReport(result, s.now())); err != nil {
		return "", err
	}

	s.logger.Info("results written",
		zap.String("dir", runDir),
		zap.String("format", string(s.format)),
		zap.Int("records", len(result.Accepted)),
		zap.Int("excluded", len(result.Exclusions)),
	)
	return runDir, nil
}

func (s *Sink) runName(summary domain.BatchSummary) string {
	if summary.RunID != "" {
		return summary.RunID
	}
	return s.now().Format("20060102-150405")
}

func (s *Sink) writeCSVFiles(dir string, result domain.BatchResult) error {
	tables := []struct {
		name string
		rows [][]string
	}{
		{FileTransactions, transactionRows(result.Accepted)},
		{FileBasicInfo, groupRows(result.Accepted, domain.GroupBasicInfo)},
		{FileStructure, groupRows(result.Accepted, domain.GroupStructure)},
		{FileApprovals, groupRows(result.Accepted, domain.GroupApprovals)},
		{FileExcluded, exclusionRows(result.Exclusions)},
	}
	for _, t := range tables {
		if err := writeCSV(filepath.Join(dir, t.name), t.rows); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sink) writeJSONFiles(dir string, result domain.BatchResult) error {
	records := result.Accepted
	if records == nil {
		records = []domain.AcceptedDocument{}
	}
	exclusions := result.Exclusions
	if exclusions == nil {
		exclusions = []domain.ExclusionRecord{}
	}
	if err := writeJSON(filepath.Join(dir, FileRecords), records); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, FileExcludedJSON), exclusions)
}

// transactionRows lays out every field of every record plus the outcome.
func transactionRows(docs []domain.AcceptedDocument) [][]string {
	var empty domain.ExtractionRecord
	var header []string
	for _, g := range empty.Groups() {
		for _, f := range g.Fields {
			header = append(header, f.Label)
		}
	}
	header = append(header, labelOutcome)

	rows := [][]string{header}
	for i := range docs {
		rec := docs[i].Result.Record
		var row []string
		for _, g := range rec.Groups() {
			for _, f := range g.Fields {
				row = append(row, *f.Value)
			}
		}
		rows = append(rows, append(row, docs[i].Result.Outcome.String()))
	}
	return rows
}

// groupRows lays out a single group. Groups other than basic info lead
// with the file name so rows can be joined back.
func groupRows(docs []domain.AcceptedDocument, key string) [][]string {
	var empty domain.ExtractionRecord
	group := lookupGroup(&empty, key)

	withFileName := key != domain.GroupBasicInfo
	var header []string
	if withFileName {
		header = append(header, fileNameLabel())
	}
	for _, f := range group.Fields {
		header = append(header, f.Label)
	}

	rows := [][]string{header}
	for i := range docs {
		rec := docs[i].Result.Record
		var row []string
		if withFileName {
			row = append(row, rec.BasicInfo.FileName)
		}
		for _, f := range lookupGroup(&rec, key).Fields {
			row = append(row, *f.Value)
		}
		rows = append(rows, row)
	}
	return rows
}

func exclusionRows(records []domain.ExclusionRecord) [][]string {
	rows := [][]string{{fileNameLabel(), labelExclusionReason, labelExclusionComment}}
	for _, r := range records {
		rows = append(rows, []string{r.FileName, r.ExclusionReason, r.Reason})
	}
	return rows
}

func fileNameLabel() string {
	f, _ := domain.Group{Fields: (&domain.BasicInfo{}).Fields()}.Lookup(domain.FieldFileName)
	return f.Label
}

func lookupGroup(rec *domain.ExtractionRecord, key string) domain.Group {
	for _, g := range rec.Groups() {
		if g.Key == key {
			return g
		}
	}
	return domain.Group{Key: key}
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// CountEntry is one row of a frequency table.
type CountEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Report is the content of summary.json.
type Report struct {
	GeneratedAt      string                           `json:"generated_at"`
	RunID            string                           `json:"run_id"`
	Total            int                              `json:"total"`
	ODI              int                              `json:"odi"`
	Excluded         int                              `json:"excluded"`
	Domestic         int                              `json:"domestic"`
	Other            int                              `json:"other"`
	Outcomes         map[domain.ExtractionOutcome]int `json:"outcomes"`
	Stats            domain.ExtractionStats           `json:"stats"`
	TransactionTypes []CountEntry                     `json:"transaction_types"`
	Countries        []CountEntry                     `json:"countries"`
}

// NewReport aggregates a batch into a report.
// Transaction types keep first-seen order; countries are sorted by count,
// descending, ties in first-seen order.
func NewReport(result domain.BatchResult, generatedAt time.Time) Report {
	s := result.Summary
	r := Report{
		GeneratedAt:      generatedAt.Format("2006-01-02 15:04:05"),
		RunID:            s.RunID,
		Total:            s.Total,
		ODI:              s.ODI,
		Excluded:         s.Excluded,
		Other:            s.Other,
		Outcomes:         s.Outcomes,
		Stats:            s.Stats,
		TransactionTypes: []CountEntry{},
		Countries:        []CountEntry{},
	}
	if r.Outcomes == nil {
		r.Outcomes = map[domain.ExtractionOutcome]int{}
	}

	for _, e := range result.Exclusions {
		if strings.Contains(e.Reason, domesticMarker) {
			r.Domestic++
		}
	}

	for i := range result.Accepted {
		info := result.Accepted[i].Result.Record.BasicInfo
		r.TransactionTypes = tally(r.TransactionTypes, orDefault(info.TransactionType, transactionTypeOther))
		r.Countries = tally(r.Countries, orDefault(info.TargetCountry, countryUnknown))
	}
	sort.SliceStable(r.Countries, func(i, j int) bool {
		return r.Countries[i].Count > r.Countries[j].Count
	})
	return r
}

func tally(entries []CountEntry, name string) []CountEntry {
	for i := range entries {
		if entries[i].Name == name {
			entries[i].Count++
			return entries
		}
	}
	return append(entries, CountEntry{Name: name, Count: 1})
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
