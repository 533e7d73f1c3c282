package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"gpacalc/internal/dataprocessing"
	apierrors "gpacalc/internal/errors"
	"gpacalc/internal/exporter"
	"gpacalc/internal/gpa"
	"gpacalc/internal/infrastructure"
	"gpacalc/internal/services"
	api "gpacalc/pkg/contracts/api/v1"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

// GPACalculator is the part of services.GPAService the handler needs.
type GPACalculator interface {
	Calculate(ctx context.Context, table gpa.Table, opts services.CalculateOptions) (*services.Result, error)
	DefaultOptions() services.CalculateOptions
}

// GPAHandler serves roster uploads and returns the SGPA/CGPA summary.
type GPAHandler struct {
	service      GPACalculator
	excel        *exporter.ExcelExporter
	validator    *requestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	now          func() time.Time
}

// NewGPAHandler creates a new GPA handler
func NewGPAHandler(service GPACalculator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *GPAHandler {
	logger = infrastructure.WithComponent(logger, "gpa_handler")
	return &GPAHandler{
		service:      service,
		excel:        exporter.NewExcelExporter(logger),
		validator:    newRequestValidator(),
		logger:       logger,
		errorHandler: errorHandler,
		now:          time.Now,
	}
}

// Routes returns the GPA routes
func (h *GPAHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/calculate", h.Calculate)
	return r
}

// Calculate handles POST /api/v1/gpa/calculate
func (h *GPAHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := decodeCalculateRequest(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	table, err := h.readRoster(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	opts := h.service.DefaultOptions()
	if req.StudentIDColumn != "" {
		opts.Schema.StudentIDColumn = req.StudentIDColumn
	}
	if req.Precision != nil {
		opts.Precision = *req.Precision
	}

	result, err := h.service.Calculate(ctx, table, opts)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	switch req.Format {
	case api.FormatXLSX:
		h.writeWorkbook(w, r, result)
	case api.FormatCSV:
		h.writeCSV(w, r, result)
	default:
		render.JSON(w, r, newCalculateResponse(result))
	}
}

// readRoster extracts and parses the uploaded roster.
func (h *GPAHandler) readRoster(r *http.Request) (gpa.Table, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return gpa.Table{}, err
		}
		return gpa.Table{}, apierrors.InvalidRequestWithError(err)
	}

	file, header, err := r.FormFile(api.RosterField)
	if errors.Is(err, http.ErrMissingFile) {
		return gpa.Table{}, apierrors.ErrMissingRoster
	}
	if err != nil {
		return gpa.Table{}, apierrors.InvalidRequestWithError(err)
	}
	defer file.Close()

	format, err := dataprocessing.DetectFormat(header.Filename)
	if err != nil {
		return gpa.Table{}, apierrors.UnsupportedFormat(header.Filename)
	}

	h.logger.DebugContext(r.Context(), "roster received",
		slog.String("file", header.Filename),
		slog.Int64("size", header.Size),
		slog.String("format", string(format)))

	table, err := dataprocessing.ParseRoster(r.Context(), file, format)
	if err != nil {
		return gpa.Table{}, apierrors.NewParsingError(fmt.Sprintf("failed to read roster %s", header.Filename), err)
	}
	return table, nil
}

func (h *GPAHandler) writeWorkbook(w http.ResponseWriter, r *http.Request, result *services.Result) {
	var buf bytes.Buffer
	if err := h.excel.WriteTo(&buf, result.Rows, result.Schema.IDColumn()); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewStorageError("failed to build summary workbook", err))
		return
	}

	setAttachment(w, exporter.OutputFileName(h.now(), "xlsx"), contentTypeXLSX)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to send workbook", slog.String("error", err.Error()))
	}
}

func (h *GPAHandler) writeCSV(w http.ResponseWriter, r *http.Request, result *services.Result) {
	setAttachment(w, exporter.OutputFileName(h.now(), "csv"), contentTypeCSV)
	w.WriteHeader(http.StatusOK)
	if err := exporter.StreamSummaries(w, result.Rows, result.Schema.IDColumn(), result.Precision); err != nil {
		h.logger.WarnContext(r.Context(), "failed to send csv", slog.String("error", err.Error()))
	}
}

func setAttachment(w http.ResponseWriter, name, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}

func newCalculateResponse(result *services.Result) api.CalculateResponse {
	warnings := make([]api.RosterWarning, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		warnings = append(warnings, api.RosterWarning{
			Kind:    string(w.Kind),
			Row:     w.Row,
			Column:  w.Column,
			Value:   w.Value,
			Message: w.String(),
		})
	}
	return api.CalculateResponse{
		Columns:   result.Columns(),
		Rows:      result.Rows,
		Warnings:  warnings,
		Precision: result.Precision,
		Students:  len(result.Rows),
	}
}
