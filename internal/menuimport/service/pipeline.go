package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"menu-upload-service/internal/menuimport/model"
)

// ImportReport is the outcome of one file import. Result is nil when the
// mapping still lacks a name or price column and nothing was written.
type ImportReport struct {
	Detection        model.DetectionResult `json:"detection"`
	ValidationErrors []model.RowError      `json:"validationErrors"`
	Result           *model.UploadResult   `json:"result"`
}

// Importer runs detect → parse → validate → upload over a decoded sheet.
type Importer struct {
	detector *Detector
	uploader *Uploader
	log      zerolog.Logger
}

func NewImporter(detector *Detector, uploader *Uploader, log zerolog.Logger) *Importer {
	return &Importer{detector: detector, uploader: uploader, log: log}
}

// Import detects the column mapping (applying overrides when given), parses
// every data row and uploads the valid ones. Row numbers in the report are
// zero-based data row indices.
func (im *Importer) Import(ctx context.Context, restaurantID string, headers []string, rows []model.RawRow, overrides map[model.Field]int) (ImportReport, error) {
	report := ImportReport{ValidationErrors: []model.RowError{}}
	if strings.TrimSpace(restaurantID) == "" {
		return report, ErrMissingRestaurant
	}
	if len(rows) == 0 {
		return report, ErrNoRows
	}

	det := im.detector.Detect(ctx, headers, rows)
	if len(overrides) > 0 {
		var err error
		if det, err = ApplyManualMapping(det, overrides); err != nil {
			return report, err
		}
	}
	report.Detection = det

	_, hasName := det.Mapping.Get(model.FieldName)
	_, hasPrice := det.Mapping.Get(model.FieldPrice)
	if !hasName || !hasPrice {
		im.log.Info().
			Strs("missing", fieldNames(det.MissingFields)).
			Msg("import needs manual column selection")
		return report, nil
	}

	valid, index, invalid := Partition(ParseRows(det.AllData, det.Mapping))
	if invalid != nil {
		report.ValidationErrors = invalid
	}

	res := im.uploader.Submit(ctx, restaurantID, valid)
	for i := range res.FailedRows {
		res.FailedRows[i].Row = index[res.FailedRows[i].Row]
	}
	report.Result = &res

	im.log.Info().
		Str("restaurant_id", restaurantID).
		Str("method", string(det.DetectionMethod)).
		Int("rows", len(rows)).
		Int("invalid", len(invalid)).
		Int("success", res.Success).
		Int("failed", res.Failed).
		Msg("menu import finished")
	return report, nil
}
