package pdf

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	appregulatory "github.com/panzhenhai520/exchangenew-sub005/internal/application/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory/formmap"
	"go.uber.org/zap"
)

// Filler fills the regulator's PDF templates with pdfcpu. Filled documents
// are locked so the regulator receives a read-only artifact.
type Filler struct {
	store  *TemplateStore
	conf   *model.Configuration
	logger *zap.Logger
}

// NewFiller creates a form filler. When a Thai font path is given it is
// installed into pdfcpu's font registry; failure to install degrades to
// Latin-only rendering and never blocks emission.
func NewFiller(store *TemplateStore, thaiFontPath string, logger *zap.Logger) *Filler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if thaiFontPath != "" {
		if err := api.InstallFonts([]string{thaiFontPath}); err != nil {
			logger.Warn("thai font install failed, falling back to latin rendering",
				zap.String("font_path", thaiFontPath), zap.Error(err))
		}
	}
	return &Filler{
		store:  store,
		conf:   model.NewDefaultConfiguration(),
		logger: logger,
	}
}

// pdfcpu form-fill JSON document
type formDoc struct {
	Forms []formEntry `json:"forms"`
}

type formEntry struct {
	TextFields []textField `json:"textfield,omitempty"`
	CheckBoxes []checkBox  `json:"checkbox,omitempty"`
}

type textField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Locked bool   `json:"locked"`
}

type checkBox struct {
	Name   string `json:"name"`
	Value  bool   `json:"value"`
	Locked bool   `json:"locked"`
}

// Fill writes the field map into the report type's template and saves the
// locked result at outputPath, creating parent directories as needed.
func (f *Filler) Fill(ctx context.Context, reportType regulatory.ReportType, fields formmap.FieldMap, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	templatePath, err := f.store.Path(reportType)
	if err != nil {
		return err
	}

	formJSON, err := buildFormJSON(fields)
	if err != nil {
		return fmt.Errorf("building form payload: %w", err)
	}

	tmp, err := os.CreateTemp("", "formfill-*.json")
	if err != nil {
		return fmt.Errorf("creating form payload file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(formJSON); err != nil {
		tmp.Close()
		return fmt.Errorf("writing form payload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing form payload: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := api.FillFormFile(templatePath, tmp.Name(), outputPath, f.conf); err != nil {
		return fmt.Errorf("filling %s template: %w", reportType, err)
	}

	// Lock every field so the artifact is read-only
	if err := api.LockFormFieldsFile(outputPath, "", nil, f.conf); err != nil {
		return fmt.Errorf("locking %s form: %w", reportType, err)
	}

	f.logger.Debug("pdf form filled",
		zap.String("report_type", string(reportType)),
		zap.String("output_path", outputPath),
		zap.Int("fields", len(fields)))
	return nil
}

// buildFormJSON translates a field map into pdfcpu's fill document
func buildFormJSON(fields formmap.FieldMap) ([]byte, error) {
	var entry formEntry
	for pos, value := range fields {
		if value.Checkbox {
			entry.CheckBoxes = append(entry.CheckBoxes, checkBox{
				Name:   pos,
				Value:  value.Checked,
				Locked: true,
			})
			continue
		}
		entry.TextFields = append(entry.TextFields, textField{
			Name:   pos,
			Value:  value.Text,
			Locked: true,
		})
	}
	return json.Marshal(formDoc{Forms: []formEntry{entry}})
}

// Ensure Filler implements the emission service's PDFFiller
var _ appregulatory.PDFFiller = (*Filler)(nil)
