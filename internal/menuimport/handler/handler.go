package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"menu-upload-service/internal/fileio"
	"menu-upload-service/internal/menuimport/model"
	"menu-upload-service/internal/menuimport/service"
)

// CategoryLister is the read side the categories endpoint needs.
type CategoryLister interface {
	ListCategories(ctx context.Context, restaurantID string) ([]model.Category, error)
}

type Handler struct {
	detector    *service.Detector
	importer    *service.Importer
	uploader    *service.Uploader
	categories  CategoryLister
	validate    *validator.Validate
	maxUploadMB int
}

func New(detector *service.Detector, importer *service.Importer, uploader *service.Uploader, categories CategoryLister, maxUploadMB int) *Handler {
	return &Handler{
		detector:    detector,
		importer:    importer,
		uploader:    uploader,
		categories:  categories,
		validate:    newValidator(),
		maxUploadMB: maxUploadMB,
	}
}

// Detect reads the uploaded file and returns the detected column mapping
// with a parsed preview. Nothing is written.
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := zerolog.Ctx(r.Context())

	sheet, filename, err := h.readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	res := h.detector.Detect(r.Context(), sheet.Headers, sheet.Rows)
	writeJSON(w, http.StatusOK, res)

	log.Info().
		Str("file", filename).
		Int("rows", len(sheet.Rows)).
		Str("method", string(res.DetectionMethod)).
		Strs("missing", fieldStrings(res.MissingFields)).
		Dur("elapsed", time.Since(start)).
		Msg("columns detected")
}

// Import runs the whole pipeline for one file and restaurant.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := zerolog.Ctx(r.Context())

	sheet, filename, err := h.readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	restaurantID := strings.TrimSpace(r.FormValue("restaurant_id"))
	if err := h.validate.Var(restaurantID, "required,max=64"); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", map[string]string{"restaurant_id": friendlyMessage(err)})
		return
	}

	overrides, err := parseOverrides(r, sheet.Headers)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	report, err := h.importer.Import(r.Context(), restaurantID, sheet.Headers, sheet.Rows, overrides)
	if err != nil {
		writeError(w, statusFor(err), err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, report)

	ev := log.Info().
		Str("file", filename).
		Str("restaurant_id", restaurantID).
		Int("invalid", len(report.ValidationErrors)).
		Dur("elapsed", time.Since(start))
	if report.Result != nil {
		ev = ev.Int("success", report.Result.Success).Int("failed", report.Result.Failed)
	}
	ev.Msg("menu import")
}

type rowPayload struct {
	Name        string  `json:"name" validate:"max=255"`
	Category    string  `json:"category" validate:"max=255"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price"`
}

type uploadRowsRequest struct {
	Rows []rowPayload `json:"rows" validate:"required,min=1,max=10000,dive"`
}

type uploadRowsResponse struct {
	Success          int               `json:"success"`
	Failed           int               `json:"failed"`
	FailedRows       []model.FailedRow `json:"failedRows"`
	Preview          []model.FailedRow `json:"preview"`
	ValidationErrors []model.RowError  `json:"validationErrors"`
}

// UploadRows accepts already-mapped rows, the dashboard's confirm step.
// Rows failing validation are not written; they are listed in
// validationErrors and counted as failed. Row numbers index the request.
func (h *Handler) UploadRows(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())
	restaurantID := chi.URLParam(r, "restaurantID")
	if err := h.validate.Var(restaurantID, "required,max=64"); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", map[string]string{"restaurant_id": friendlyMessage(err)})
		return
	}

	var req uploadRowsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error(), nil)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", fieldErrors(err))
		return
	}

	rows := make([]model.ParsedRow, len(req.Rows))
	for i, p := range req.Rows {
		rows[i] = model.ParsedRow{Name: p.Name, Category: p.Category, Description: p.Description, Price: p.Price}
	}

	valid, index, invalid := service.Partition(rows)
	if invalid == nil {
		invalid = []model.RowError{}
	}

	res := h.uploader.Submit(r.Context(), restaurantID, valid)
	for i := range res.FailedRows {
		res.FailedRows[i].Row = index[res.FailedRows[i].Row]
	}
	for _, e := range invalid {
		res.FailedRows = append(res.FailedRows, model.FailedRow{Row: e.Row, Error: strings.Join(e.Errors, "; "), Data: e.Data})
	}
	res.Failed = len(res.FailedRows)

	writeJSON(w, http.StatusOK, uploadRowsResponse{
		Success:          res.Success,
		Failed:           res.Failed,
		FailedRows:       res.FailedRows,
		Preview:          res.Preview(service.FailurePreviewN),
		ValidationErrors: invalid,
	})
	log.Info().
		Str("restaurant_id", restaurantID).
		Int("invalid", len(invalid)).
		Int("success", res.Success).
		Int("failed", res.Failed).
		Msg("rows uploaded")
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantID")
	cats, err := h.categories.ListCategories(r.Context(), restaurantID)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("restaurant_id", restaurantID).Msg("list categories")
		writeError(w, http.StatusInternalServerError, "failed to list categories", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// Template serves the blank upload template, xlsx unless format=csv.
func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="menu-template.xlsx"`)
		if err := fileio.WriteTemplateXLSX(w); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("write template")
		}
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="menu-template.csv"`)
		if err := fileio.WriteTemplateCSV(w); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("write template")
		}
	default:
		writeError(w, http.StatusBadRequest, "format must be xlsx or csv", nil)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, fileio.ErrUnsupportedFile),
		errors.Is(err, fileio.ErrNoHeader),
		errors.Is(err, service.ErrNoRows),
		errors.Is(err, service.ErrInvalidMapping),
		errors.Is(err, service.ErrMissingRestaurant):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
