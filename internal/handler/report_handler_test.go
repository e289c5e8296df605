package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-compliance-report/internal/dto"
	"github.com/noah-isme/sma-compliance-report/internal/middleware"
	"github.com/noah-isme/sma-compliance-report/internal/models"
	"github.com/noah-isme/sma-compliance-report/internal/service"
	appErrors "github.com/noah-isme/sma-compliance-report/pkg/errors"
	"github.com/noah-isme/sma-compliance-report/pkg/response"
)

type reportServiceMock struct {
	descriptor  *models.ReportDescriptor
	generateErr error
	layout      *service.ReportLayout
	download    *service.ReportDownload
	downloadErr error

	gotFormat models.ReportFormat
	gotFolder string
	gotName   string
	gotToken  string
}

func (m *reportServiceMock) DefaultFormat() models.ReportFormat { return models.ReportFormatPDF }

func (m *reportServiceMock) Generate(ctx context.Context, req dto.GenerateReportRequest, format models.ReportFormat) (*models.ReportDescriptor, error) {
	m.gotFormat = format
	return m.descriptor, m.generateErr
}

func (m *reportServiceMock) Layout(ctx context.Context, req dto.GenerateReportRequest) (*service.ReportLayout, error) {
	return m.layout, nil
}

func (m *reportServiceMock) ResolveDownload(ctx context.Context, folder, name string) (*service.ReportDownload, error) {
	m.gotFolder, m.gotName = folder, name
	return m.download, m.downloadErr
}

func (m *reportServiceMock) ResolveSignedDownload(ctx context.Context, token string) (*service.ReportDownload, error) {
	m.gotToken = token
	return m.download, m.downloadErr
}

func newRouter(mock *reportServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	NewReportHandler(mock, nil).Register(r.Group("/api/v1"))
	return r
}

func do(r *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tempReport(t *testing.T, content string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	file, err := os.Open(path)
	require.NoError(t, err)
	return file
}

const minimalBody = `{"period":{"stage":"Final de Ciclo","degree":"Computing","questions":[{"persistenceId":1,"description":"q"}],"alternatives":[{"persistenceId":1,"description":"SI"}],"evaluationGrades":[{"number":1,"parallel":"A","syllabuses":[{"denomination":"Math"}]}]}}`

func TestReportHandlerGenerate(t *testing.T) {
	mock := &reportServiceMock{descriptor: &models.ReportDescriptor{DocumentName: "report-FINAL-na-abc.csv", Folder: "Computing", Format: models.ReportFormatCSV}}
	r := newRouter(mock)

	w := do(r, http.MethodPost, "/api/v1/reports?format=CSV", []byte(minimalBody))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.ReportFormatCSV, mock.gotFormat)

	var body struct {
		Data models.ReportDescriptor `json:"data"`
		Meta map[string]interface{}  `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Computing", body.Data.Folder)
	assert.Equal(t, "report-FINAL-na-abc.csv", body.Data.DocumentName)
	assert.Equal(t, "csv", body.Meta["format"])
	assert.Contains(t, body.Meta, "processing_time_ms")
}

func TestReportHandlerGenerateDefaultsFormat(t *testing.T) {
	mock := &reportServiceMock{descriptor: &models.ReportDescriptor{}}
	w := do(newRouter(mock), http.MethodPost, "/api/v1/reports", []byte(minimalBody))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.ReportFormatPDF, mock.gotFormat)
}

func TestReportHandlerGenerateRejectsBadInput(t *testing.T) {
	r := newRouter(&reportServiceMock{})

	w := do(r, http.MethodPost, "/api/v1/reports?format=docx", []byte(minimalBody))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/reports", []byte(`{"period":`))
	require.Equal(t, http.StatusBadRequest, w.Code)
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "INCONSISTENT_DATA", env.Error.Code)
	assert.Equal(t, "The data sent is inconsistent", env.Error.Message)
}

func TestReportHandlerGeneratePropagatesServiceErrors(t *testing.T) {
	mock := &reportServiceMock{generateErr: appErrors.ErrInconsistentData}
	w := do(newRouter(mock), http.MethodPost, "/api/v1/reports", []byte(minimalBody))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mock.generateErr = appErrors.Clone(appErrors.ErrRenderFailed, "")
	w = do(newRouter(mock), http.MethodPost, "/api/v1/reports", []byte(minimalBody))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestReportHandlerPreview(t *testing.T) {
	mock := &reportServiceMock{layout: &service.ReportLayout{Phase: "FINAL", Degree: "Computing"}}
	w := do(newRouter(mock), http.MethodPost, "/api/v1/reports/preview", []byte(minimalBody))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"phase":"FINAL"`)
}

func TestReportHandlerDownload(t *testing.T) {
	file := tempReport(t, "a;b")
	mock := &reportServiceMock{download: &service.ReportDownload{File: file, Filename: "report.csv", ContentType: "text/csv; charset=utf-8"}}

	w := do(newRouter(mock), http.MethodGet, "/api/v1/reports/download/Computing/report.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Computing", mock.gotFolder)
	assert.Equal(t, "report.csv", mock.gotName)
	assert.Equal(t, "a;b", w.Body.String())
	assert.Equal(t, `attachment; filename="report.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestReportHandlerDownloadSigned(t *testing.T) {
	file := tempReport(t, "pdf")
	expires := time.Now().Add(time.Hour)
	mock := &reportServiceMock{download: &service.ReportDownload{File: file, Filename: "r.pdf", ContentType: "application/pdf", ExpiresAt: &expires}}

	w := do(newRouter(mock), http.MethodGet, "/api/v1/reports/files/tok.en", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok.en", mock.gotToken)
	assert.NotEmpty(t, w.Header().Get("Expires"))
}

func TestReportHandlerDownloadErrors(t *testing.T) {
	mock := &reportServiceMock{downloadErr: appErrors.Clone(appErrors.ErrNotFound, "report not found")}
	w := do(newRouter(mock), http.MethodGet, "/api/v1/reports/download/Computing/missing.pdf", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	mock.downloadErr = appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	w = do(newRouter(mock), http.MethodGet, "/api/v1/reports/files/bad", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
