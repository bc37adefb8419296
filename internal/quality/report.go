package quality

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/Lumos-Labs-HQ/procgen/internal/export"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"

	reportName = "dq_report"
)

// Metadata identifies one validation run.
type Metadata struct {
	RunID         string    `json:"run_id" yaml:"run_id"`
	GeneratedAt   time.Time `json:"generated_at" yaml:"generated_at"`
	DataDir       string    `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`
	ReferenceDate string    `json:"reference_date" yaml:"reference_date"`
	SchemaVersion string    `json:"schema_version" yaml:"schema_version"`
}

type Summary struct {
	PassCount      int `json:"pass_count" yaml:"pass_count"`
	FailCount      int `json:"fail_count" yaml:"fail_count"`
	WarningCount   int `json:"warning_count" yaml:"warning_count"`
	CriticalIssues int `json:"critical_issues" yaml:"critical_issues"`
	WarningIssues  int `json:"warning_issues" yaml:"warning_issues"`
	InfoIssues     int `json:"info_issues" yaml:"info_issues"`
}

// Findings groups findings by category. It encodes categories in pipeline
// order and leaves out categories without findings.
type Findings map[Category][]Finding

// All returns every finding in category order.
func (f Findings) All() []Finding {
	var out []Finding
	for _, cat := range Categories {
		out = append(out, f[cat]...)
	}
	return out
}

func (f Findings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, cat := range Categories {
		list, ok := f[cat]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, _ := json.Marshal(string(cat))
		body, err := json.Marshal(list)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (f Findings) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, cat := range Categories {
		list, ok := f[cat]
		if !ok {
			continue
		}
		var value yaml.Node
		if err := value.Encode(list); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(cat)}, &value)
	}
	return node, nil
}

// Report is the structured output of one validation run.
type Report struct {
	Metadata        Metadata             `json:"metadata" yaml:"metadata"`
	OverallScore    float64              `json:"overall_dq_score" yaml:"overall_dq_score"`
	CategoryScores  map[Category]float64 `json:"category_scores" yaml:"category_scores"`
	Summary         Summary              `json:"summary" yaml:"summary"`
	Findings        Findings             `json:"detailed_findings" yaml:"detailed_findings"`
	Profile         Profile              `json:"data_profile" yaml:"data_profile"`
	Recommendations []string             `json:"recommendations" yaml:"recommendations"`
}

func summarize(findings []Finding) Summary {
	var s Summary
	for _, f := range findings {
		switch f.Status {
		case StatusPass:
			s.PassCount++
			continue
		case StatusFail:
			s.FailCount++
		case StatusWarning:
			s.WarningCount++
		}
		switch f.Severity {
		case SeverityCritical:
			s.CriticalIssues++
		case SeverityWarning:
			s.WarningIssues++
		case SeverityInfo:
			s.InfoIssues++
		}
	}
	return s
}

// recommend turns every failed or warned critical and warning finding into
// one actionable line.
func recommend(findings []Finding) []string {
	out := []string{}
	for _, f := range findings {
		if f.Status == StatusPass || f.Status == StatusInfo {
			continue
		}
		if f.Severity != SeverityCritical && f.Severity != SeverityWarning {
			continue
		}
		line := fmt.Sprintf("[%s] %s: %s", f.Severity, f.Check, f.Description)
		if f.Violations > 0 {
			line += fmt.Sprintf(" Review %d record(s) (%.2f%% affected)", f.Violations, f.AffectedPct)
			if len(f.Examples) > 0 {
				line += ", e.g. " + strings.Join(f.Examples, ", ")
			}
			line += "."
		}
		out = append(out, line)
	}
	return out
}

// Save writes the report to dir as dq_report.json or dq_report.yaml, plus
// dq_report.xlsx when withXLSX is set. It returns the written paths.
func (r *Report) Save(dir, format string, withXLSX bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	var (
		body []byte
		err  error
	)
	switch format {
	case FormatJSON, "":
		format = FormatJSON
		body, err = json.MarshalIndent(r, "", "    ")
	case FormatYAML:
		body, err = yaml.Marshal(r)
	default:
		return nil, fmt.Errorf("unsupported report format %q (use %s or %s)", format, FormatJSON, FormatYAML)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	path := filepath.Join(dir, reportName+"."+format)
	if err := os.WriteFile(path, body, 0644); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	paths := []string{path}

	if withXLSX {
		xlsxPath := filepath.Join(dir, reportName+".xlsx")
		if err := r.writeXLSX(xlsxPath); err != nil {
			return paths, err
		}
		paths = append(paths, xlsxPath)
	}
	return paths, nil
}

func (r *Report) writeXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	style, err := export.HeaderStyle(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return err
	}
	s := r.Summary
	summary := [][]any{
		{"Run ID", r.Metadata.RunID},
		{"Reference date", r.Metadata.ReferenceDate},
		{"Overall DQ score", r.OverallScore},
		{"Passed checks", s.PassCount},
		{"Failed checks", s.FailCount},
		{"Warning checks", s.WarningCount},
		{"Critical issues", s.CriticalIssues},
		{"Warning issues", s.WarningIssues},
		{"Info issues", s.InfoIssues},
	}
	for _, cat := range Categories {
		summary = append(summary, []any{string(cat) + " score", r.CategoryScores[cat]})
	}
	if err := export.WriteSheetRows(f, "Summary", style, []any{"Metric", "Value"}, summary); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}

	if _, err := f.NewSheet("Findings"); err != nil {
		return err
	}
	var rows [][]any
	for _, fd := range r.Findings.All() {
		rows = append(rows, []any{
			string(fd.Category), fd.Check, string(fd.Status), string(fd.Severity),
			fd.Description, fd.Violations, fd.AffectedPct, strings.Join(fd.Examples, ", "),
		})
	}
	header := []any{"Category", "Check", "Status", "Severity", "Description", "Violations", "Affected %", "Examples"}
	if err := export.WriteSheetRows(f, "Findings", style, header, rows); err != nil {
		return fmt.Errorf("findings sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report workbook: %w", err)
	}
	return nil
}
