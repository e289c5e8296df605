package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-compliance-report/internal/dto"
	"github.com/noah-isme/sma-compliance-report/internal/middleware"
	"github.com/noah-isme/sma-compliance-report/internal/models"
	"github.com/noah-isme/sma-compliance-report/internal/service"
	appErrors "github.com/noah-isme/sma-compliance-report/pkg/errors"
	"github.com/noah-isme/sma-compliance-report/pkg/response"
)

type reportService interface {
	DefaultFormat() models.ReportFormat
	Generate(ctx context.Context, req dto.GenerateReportRequest, format models.ReportFormat) (*models.ReportDescriptor, error)
	Layout(ctx context.Context, req dto.GenerateReportRequest) (*service.ReportLayout, error)
	ResolveDownload(ctx context.Context, folder, name string) (*service.ReportDownload, error)
	ResolveSignedDownload(ctx context.Context, token string) (*service.ReportDownload, error)
}

// ReportHandler exposes report generation and download endpoints.
type ReportHandler struct {
	reports reportService
	logger  *zap.Logger
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reports: reports, logger: logger}
}

// Register mounts the report routes on the group.
func (h *ReportHandler) Register(group *gin.RouterGroup) {
	reports := group.Group("/reports")
	reports.POST("", h.Generate)
	reports.POST("/preview", h.Preview)
	reports.GET("/download/:folder/:documentName", h.Download)
	reports.GET("/files/:token", h.DownloadSigned)
}

// Generate godoc
// @Summary Generate a compliance report
// @Description Tabulates an evaluation period and stores the rendered document.
// @Tags Reports
// @Accept json
// @Produce json
// @Param format query string false "Document format (pdf or csv)"
// @Param payload body dto.GenerateReportRequest true "Evaluation period"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	format, ok := models.ParseReportFormat(c.Query("format"), h.reports.DefaultFormat())
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv"))
		return
	}
	req, ok := bindPeriod(c)
	if !ok {
		return
	}
	descriptor, err := h.reports.Generate(c.Request.Context(), req, format)
	if err != nil {
		h.logError(c, "generate report failed", err)
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "format", descriptor.Format)
	response.Created(c, descriptor, middleware.ExtractMeta(c))
}

// Preview godoc
// @Summary Preview a report layout
// @Description Returns the table and chart specifications without rendering a document.
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.GenerateReportRequest true "Evaluation period"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports/preview [post]
func (h *ReportHandler) Preview(c *gin.Context) {
	req, ok := bindPeriod(c)
	if !ok {
		return
	}
	layout, err := h.reports.Layout(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, layout, middleware.ExtractMeta(c))
}

// Download godoc
// @Summary Download a stored report
// @Tags Reports
// @Produce application/pdf
// @Produce text/csv
// @Param folder path string true "Report folder (degree)"
// @Param documentName path string true "Document name"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/download/{folder}/{documentName} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	download, err := h.reports.ResolveDownload(c.Request.Context(), c.Param("folder"), c.Param("documentName"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.serve(c, download)
}

// DownloadSigned godoc
// @Summary Download a report through a signed link
// @Tags Reports
// @Produce application/pdf
// @Produce text/csv
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /reports/files/{token} [get]
func (h *ReportHandler) DownloadSigned(c *gin.Context) {
	download, err := h.reports.ResolveSignedDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.serve(c, download)
}

func (h *ReportHandler) serve(c *gin.Context, download *service.ReportDownload) {
	defer download.File.Close() //nolint:errcheck
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.Header("Cache-Control", "no-store")
	if download.ExpiresAt != nil {
		c.Header("Expires", download.ExpiresAt.UTC().Format(http.TimeFormat))
	}
	var size int64 = -1
	if info, err := download.File.Stat(); err == nil {
		size = info.Size()
	}
	c.DataFromReader(http.StatusOK, size, download.ContentType, download.File, nil)
}

func (h *ReportHandler) logError(c *gin.Context, msg string, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status < http.StatusInternalServerError {
		return
	}
	h.logger.Error(msg, zap.String("code", appErr.Code), zap.Error(err))
}

// bindPeriod decodes the request body. A body that is not valid JSON is
// reported as inconsistent data.
func bindPeriod(c *gin.Context) (dto.GenerateReportRequest, bool) {
	var req dto.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("empty body")
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInconsistentData.Code, appErrors.ErrInconsistentData.Status, appErrors.ErrInconsistentData.Message))
		return req, false
	}
	return req, true
}

