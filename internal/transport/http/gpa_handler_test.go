package http

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gpacalc/internal/config"
	apierrors "gpacalc/internal/errors"
	"gpacalc/internal/exporter"
	"gpacalc/internal/gpa"
	"gpacalc/internal/services"
	"gpacalc/internal/shared/testutil"
)

func newTestGPAHandler(t *testing.T) *GPAHandler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewGPAService(config.Default(), nil, nil, logger)
	h := NewGPAHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
	h.now = func() time.Time { return time.Date(2024, 5, 17, 9, 3, 7, 0, time.UTC) }
	return h
}

func csvRoster(header []string, rows [][]string) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(header)
	_ = w.WriteAll(rows)
	return buf.Bytes()
}

func uploadRequest(t *testing.T, query, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/gpa/calculate"+query, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeJSON(t *testing.T, r io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(r).Decode(&out))
	return out
}

func TestGPAHandler_CalculateJSON(t *testing.T) {
	h := newTestGPAHandler(t)
	rows := append(testutil.SampleRoster(), []string{"7155", "715521104002", "RAVI", "CSE", "2", "Q", "3"})
	req := uploadRequest(t, "", "roster", "sem.csv", csvRoster(testutil.RosterHeader, rows))
	rec := httptest.NewRecorder()

	h.Calculate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	body := decodeJSON(t, rec.Body)
	assert.Equal(t, float64(2), body["students"])
	assert.Equal(t, float64(2), body["precision"])

	columns := body["columns"].([]interface{})
	assert.Len(t, columns, 15)
	assert.Equal(t, "715521YYYYYY", columns[1])

	first := body["rows"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "715521104001", first["student_id"])
	assert.Equal(t, 8.67, first["cgpa"])

	warnings := body["warnings"].([]interface{})
	require.Len(t, warnings, 1)
	warning := warnings[0].(map[string]interface{})
	assert.Equal(t, "unknown_grade", warning["kind"])
	assert.Equal(t, "Q", warning["value"])
}

func TestGPAHandler_CalculateDownloads(t *testing.T) {
	content := csvRoster(testutil.RosterHeader, testutil.SampleRoster())

	t.Run("xlsx", func(t *testing.T) {
		h := newTestGPAHandler(t)
		rec := httptest.NewRecorder()
		h.Calculate(rec, uploadRequest(t, "?format=xlsx", "roster", "sem.csv", content))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, contentTypeXLSX, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "SGPA_CGPA_Output_2024-05-17_09-03-07.xlsx")

		f, err := excelize.OpenReader(rec.Body)
		require.NoError(t, err)
		defer f.Close()
		got, err := f.GetCellValue(exporter.SummarySheet, "B2")
		require.NoError(t, err)
		assert.Equal(t, "715521104001", got)
	})

	t.Run("csv with precision", func(t *testing.T) {
		h := newTestGPAHandler(t)
		rec := httptest.NewRecorder()
		h.Calculate(rec, uploadRequest(t, "?format=csv&precision=1", "roster", "sem.csv", content))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, contentTypeCSV, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")

		records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(rec.Body.String(), "\ufeff"))).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "INSTCODE", records[0][0])
		assert.Equal(t, "8.4", records[1][4])
		assert.Equal(t, "8.7", records[1][14])
	})
}

func TestGPAHandler_CalculateCustomIDColumn(t *testing.T) {
	h := newTestGPAHandler(t)
	header := append([]string(nil), testutil.RosterHeader...)
	header[1] = "REGNO"
	rec := httptest.NewRecorder()

	h.Calculate(rec, uploadRequest(t, "?id_column=REGNO", "roster", "sem.csv", csvRoster(header, testutil.SampleRoster())))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec.Body)
	assert.Equal(t, "REGNO", body["columns"].([]interface{})[1])
}

func TestGPAHandler_CalculateErrors(t *testing.T) {
	valid := csvRoster(testutil.RosterHeader, testutil.SampleRoster())

	tests := []struct {
		name       string
		query      string
		field      string
		filename   string
		content    []byte
		wantStatus int
		checkFn    func(t *testing.T, body map[string]interface{})
	}{
		{
			name:       "missing roster field",
			field:      "",
			wantStatus: http.StatusBadRequest,
			checkFn: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "MISSING_PARAMETER", body["error_code"])
			},
		},
		{
			name:       "unknown format",
			query:      "?format=pdf",
			field:      "roster",
			filename:   "sem.csv",
			content:    valid,
			wantStatus: http.StatusBadRequest,
			checkFn: func(t *testing.T, body map[string]interface{}) {
				details := body["details"].([]interface{})
				assert.Equal(t, "format", details[0].(map[string]interface{})["field"])
			},
		},
		{
			name:       "precision out of range",
			query:      "?precision=9",
			field:      "roster",
			filename:   "sem.csv",
			content:    valid,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non numeric precision",
			query:      "?precision=two",
			field:      "roster",
			filename:   "sem.csv",
			content:    valid,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "legacy xls upload",
			field:      "roster",
			filename:   "sem.xls",
			content:    []byte("legacy"),
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:       "corrupt workbook",
			field:      "roster",
			filename:   "sem.xlsx",
			content:    []byte("not a zip"),
			wantStatus: http.StatusBadRequest,
			checkFn: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, apierrors.TypeRosterUnreadable, body["type"])
			},
		},
		{
			name:       "missing columns",
			field:      "roster",
			filename:   "sem.csv",
			content:    csvRoster([]string{"INSTCODE", "715521YYYYYY", "STUDNAME"}, [][]string{{"7155", "1", "A"}}),
			wantStatus: http.StatusUnprocessableEntity,
			checkFn: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, gpa.ProblemTypeSchema, body["type"])
				assert.Contains(t, body["missing_columns"], "GRADE")
			},
		},
		{
			name:       "identity conflict",
			field:      "roster",
			filename:   "sem.csv",
			content:    csvRoster(testutil.RosterHeader, testutil.ConflictingRoster()),
			wantStatus: http.StatusUnprocessableEntity,
			checkFn: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, gpa.ProblemTypeIdentityConflict, body["type"])
				conflicts := body["conflicts"].([]interface{})
				require.Len(t, conflicts, 1)
				assert.Equal(t, "715521104001", conflicts[0].(map[string]interface{})["student_id"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestGPAHandler(t)
			rec := httptest.NewRecorder()

			h.Calculate(rec, uploadRequest(t, tt.query, tt.field, tt.filename, tt.content))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			body := decodeJSON(t, rec.Body)
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			if tt.checkFn != nil {
				tt.checkFn(t, body)
			}
		})
	}
}

func TestGPAHandler_PayloadTooLarge(t *testing.T) {
	h := newTestGPAHandler(t)
	req := uploadRequest(t, "", "roster", "sem.csv", csvRoster(testutil.RosterHeader, testutil.SampleRoster()))
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 16)

	h.Calculate(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
