package pdf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
)

// TemplateStore resolves the regulator's PDF template for each report type.
// Templates live under one directory and are named after the report type,
// e.g. AMLO-1-01.pdf.
type TemplateStore struct {
	dir  string
	conf *model.Configuration
}

// NewTemplateStore creates a template store over the given directory
func NewTemplateStore(dir string) (*TemplateStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("template directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template directory %s is not a directory", dir)
	}
	return &TemplateStore{
		dir:  dir,
		conf: model.NewDefaultConfiguration(),
	}, nil
}

// Path returns the template path of a report type
func (s *TemplateStore) Path(reportType regulatory.ReportType) (string, error) {
	path := filepath.Join(s.dir, string(reportType)+".pdf")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("template for %s: %w", reportType, err)
	}
	return path, nil
}

// exportDoc mirrors the form JSON that pdfcpu's ExportFormFile writes. Only
// the field names matter here.
type exportDoc struct {
	Forms []exportForm `json:"forms"`
}

type exportForm struct {
	TextFields    []exportField `json:"textfield"`
	DateFields    []exportField `json:"datefield"`
	CheckBoxes    []exportField `json:"checkbox"`
	RadioGroups   []exportField `json:"radiobuttongroup"`
	ComboBoxes    []exportField `json:"combobox"`
	ListBoxes     []exportField `json:"listbox"`
	ImageFields   []exportField `json:"imagefield"`
	SignatureBoxs []exportField `json:"signaturefield"`
}

type exportField struct {
	Name string `json:"name"`
}

// parseFormFieldNames extracts the exact field names from an exported form
// document.
func parseFormFieldNames(data []byte) (map[string]struct{}, error) {
	var doc exportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing form export: %w", err)
	}
	names := make(map[string]struct{})
	for _, form := range doc.Forms {
		for _, group := range [][]exportField{
			form.TextFields, form.DateFields, form.CheckBoxes,
			form.RadioGroups, form.ComboBoxes, form.ListBoxes,
			form.ImageFields, form.SignatureBoxs,
		} {
			for _, f := range group {
				names[f.Name] = struct{}{}
			}
		}
	}
	return names, nil
}

// missingPositions returns the catalogued positions that do not name a form
// field, compared by exact equality so that a position which is merely a
// prefix of a field name still counts as missing.
func missingPositions(positions []string, names map[string]struct{}) []string {
	var missing []string
	for _, pos := range positions {
		if _, ok := names[pos]; !ok {
			missing = append(missing, pos)
		}
	}
	return missing
}

// formFieldNames exports the template's interactive form as JSON and returns
// the set of exact field names.
func (s *TemplateStore) formFieldNames(path string) (map[string]struct{}, error) {
	tmp, err := os.CreateTemp("", "form-export-*.json")
	if err != nil {
		return nil, fmt.Errorf("creating form export file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := api.ExportFormFile(path, tmpPath, s.conf); err != nil {
		return nil, fmt.Errorf("exporting form of %s: %w", path, err)
	}
	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("reading form export of %s: %w", path, err)
	}
	return parseFormFieldNames(data)
}

// VerifyRegistry checks, for every report type with catalogued fill
// positions, that each position names an interactive field of the template.
// A mismatch means the catalogue and the template have drifted apart, and
// startup must abort rather than emit reports with silently dropped fields.
func (s *TemplateStore) VerifyRegistry(registry *regulatory.Registry) error {
	for _, reportType := range regulatory.AllReportTypes() {
		positions := registry.FillPositions(reportType)
		if len(positions) == 0 {
			continue
		}

		path, err := s.Path(reportType)
		if err != nil {
			return fmt.Errorf("%w: %s", shared.ErrTemplateMismatch, err)
		}

		names, err := s.formFieldNames(path)
		if err != nil {
			return err
		}

		if missing := missingPositions(positions, names); len(missing) > 0 {
			return fmt.Errorf("%w: %s has no field %q", shared.ErrTemplateMismatch, path, missing[0])
		}
	}
	return nil
}
