package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-compliance-report/internal/dto"
	"github.com/noah-isme/sma-compliance-report/internal/models"
	"github.com/noah-isme/sma-compliance-report/internal/tabulation"
	"github.com/noah-isme/sma-compliance-report/pkg/chart"
	appErrors "github.com/noah-isme/sma-compliance-report/pkg/errors"
	"github.com/noah-isme/sma-compliance-report/pkg/export"
	"github.com/noah-isme/sma-compliance-report/pkg/storage"
)

type chartRenderer interface {
	Render(ctx context.Context, spec chart.Spec) ([]byte, error)
}

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

type reportStorage interface {
	Save(folder, name string, data []byte) (string, error)
	Open(folder, name string) (*os.File, error)
	Delete(folder, name string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ReportServiceConfig tunes report generation.
type ReportServiceConfig struct {
	APIPrefix       string
	MidpointLabel   string
	DefaultFormat   models.ReportFormat
	ResultTTL       time.Duration
	CleanupInterval time.Duration
	CacheTTL        time.Duration
}

// ReportDownload aggregates resolved download data.
type ReportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
	ExpiresAt   *time.Time
}

// ReportLayout is the tabulated form of a period without rendered charts.
type ReportLayout struct {
	Stage  string                   `json:"stage" yaml:"stage"`
	Phase  string                   `json:"phase" yaml:"phase"`
	Degree string                   `json:"degree" yaml:"degree"`
	Grades []tabulation.GradeReport `json:"grades" yaml:"grades"`
	Stats  models.ReportStats       `json:"stats" yaml:"stats"`
}

// ReportService turns evaluation periods into stored report documents.
type ReportService struct {
	validator *validator.Validate
	engine    *tabulation.Engine
	charts    chartRenderer
	renderers map[models.ReportFormat]documentRenderer
	storage   reportStorage
	signer    *storage.SignedURLSigner
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ReportServiceConfig
	newID     func() string
}

// ReportServiceDeps groups the collaborators of ReportService. Nil renderers
// default to the built-in PNG, PDF and CSV implementations.
type ReportServiceDeps struct {
	Validator *validator.Validate
	Engine    *tabulation.Engine
	Charts    chartRenderer
	PDF       documentRenderer
	CSV       documentRenderer
	Storage   reportStorage
	Signer    *storage.SignedURLSigner
	Cache     *CacheService
	Metrics   *MetricsService
	Logger    *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(deps ReportServiceDeps, cfg ReportServiceConfig) *ReportService {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Engine == nil {
		deps.Engine = tabulation.NewEngine(tabulation.DefaultVocabulary())
	}
	if deps.Charts == nil {
		deps.Charts = chart.NewPNGRenderer()
	}
	if deps.PDF == nil {
		deps.PDF = export.NewPDFExporter()
	}
	if deps.CSV == nil {
		deps.CSV = export.NewCSVExporter()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if !cfg.DefaultFormat.Valid() {
		cfg.DefaultFormat = models.ReportFormatPDF
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 72 * time.Hour
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	return &ReportService{
		validator: deps.Validator,
		engine:    deps.Engine,
		charts:    deps.Charts,
		renderers: map[models.ReportFormat]documentRenderer{
			models.ReportFormatPDF: deps.PDF,
			models.ReportFormatCSV: deps.CSV,
		},
		storage: deps.Storage,
		signer:  deps.Signer,
		cache:   deps.Cache,
		metrics: deps.Metrics,
		logger:  deps.Logger,
		cfg:     cfg,
		newID: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		},
	}
}

// DefaultFormat is used when a request does not name one.
func (s *ReportService) DefaultFormat() models.ReportFormat {
	return s.cfg.DefaultFormat
}

// Generate tabulates the period, renders the document and stores it.
func (s *ReportService) Generate(ctx context.Context, req dto.GenerateReportRequest, format models.ReportFormat) (*models.ReportDescriptor, error) {
	start := time.Now()
	if format == "" {
		format = s.cfg.DefaultFormat
	}
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}

	descriptor, outcome, err := s.generate(ctx, req, format)
	s.metrics.ObserveReport(string(format), outcome, time.Since(start))
	if err != nil {
		return nil, err
	}
	return descriptor, nil
}

func (s *ReportService) generate(ctx context.Context, req dto.GenerateReportRequest, format models.ReportFormat) (*models.ReportDescriptor, string, error) {
	period, stats, err := s.ingest(req)
	if err != nil {
		return nil, OutcomeInconsistent, err
	}

	cacheKey := ""
	if s.cache.Enabled() {
		if raw, err := json.Marshal(req); err == nil {
			cacheKey = ReportKey(string(format), raw)
			var cached models.ReportDescriptor
			if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit && s.stillStored(cached) {
				return &cached, OutcomeCached, nil
			}
		}
	}

	renderer := s.renderers[format]
	builder := export.NewDocumentBuilder(documentTitle(period))
	for i, grade := range period.Grades {
		report, err := s.engine.TabulateGrade(period, grade)
		if err != nil {
			s.logger.Warn("grade layout rejected", zap.Int("grade", grade.Number), zap.String("parallel", grade.Parallel), zap.Error(err))
			return nil, OutcomeInconsistent, appErrors.Wrap(err, appErrors.ErrInconsistentData.Code, appErrors.ErrInconsistentData.Status, appErrors.ErrInconsistentData.Message)
		}
		stats.UnmatchedVotes += report.UnmatchedVotes()

		var charts gradeCharts
		if format == models.ReportFormatPDF {
			charts, err = s.renderCharts(ctx, report)
			if err != nil {
				return nil, OutcomeFailed, appErrors.Wrap(err, appErrors.ErrRenderFailed.Code, appErrors.ErrRenderFailed.Status, "failed to render charts")
			}
		}
		appendGrade(builder, i, report, charts)
	}

	payload, err := renderer.Render(builder.Document())
	if err != nil {
		return nil, OutcomeFailed, appErrors.Wrap(err, appErrors.ErrRenderFailed.Code, appErrors.ErrRenderFailed.Status, "failed to render document")
	}

	id := s.newID()
	folder := sanitizeSegment(period.Degree)
	name := DocumentName(period.Phase, period.InitDate, id, format)
	relPath, err := s.storage.Save(folder, name, payload)
	if err != nil {
		return nil, OutcomeFailed, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	descriptor := &models.ReportDescriptor{
		DocumentName: name,
		Folder:       folder,
		Format:       format,
		DownloadURL:  fmt.Sprintf("%s/reports/download/%s/%s", strings.TrimRight(s.cfg.APIPrefix, "/"), folder, name),
		Stats:        stats,
	}
	if s.signer != nil {
		token, expiresAt, err := s.signer.Generate(id, relPath)
		if err != nil {
			_ = s.storage.Delete(folder, name)
			return nil, OutcomeFailed, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download")
		}
		descriptor.DownloadURL = fmt.Sprintf("%s/reports/files/%s", strings.TrimRight(s.cfg.APIPrefix, "/"), token)
		descriptor.ExpiresAt = &expiresAt
	}

	s.metrics.RecordDataQuality(stats.DroppedAnswers, stats.UnmatchedVotes)
	if cacheKey != "" {
		_ = s.cache.Set(ctx, cacheKey, descriptor, s.cacheTTL(descriptor))
	}
	s.logger.Info("report generated",
		zap.String("folder", folder),
		zap.String("document", name),
		zap.String("format", string(format)),
		zap.String("phase", period.Phase.String()),
		zap.Int("grades", stats.Grades),
		zap.Int("sheets", stats.Sheets),
	)
	return descriptor, OutcomeSuccess, nil
}

// Layout validates and tabulates the period without rendering anything.
func (s *ReportService) Layout(ctx context.Context, req dto.GenerateReportRequest) (*ReportLayout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	period, stats, err := s.ingest(req)
	if err != nil {
		return nil, err
	}
	grades, err := s.engine.Tabulate(period)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInconsistentData.Code, appErrors.ErrInconsistentData.Status, appErrors.ErrInconsistentData.Message)
	}
	for _, g := range grades {
		stats.UnmatchedVotes += g.UnmatchedVotes()
	}
	return &ReportLayout{
		Stage:  period.Stage,
		Phase:  period.Phase.String(),
		Degree: period.Degree,
		Grades: grades,
		Stats:  stats,
	}, nil
}

// ResolveDownload opens a stored document by folder and name.
func (s *ReportService) ResolveDownload(ctx context.Context, folder, name string) (*ReportDownload, error) {
	file, err := s.storage.Open(folder, name)
	if err != nil {
		return nil, s.storageError(err)
	}
	return &ReportDownload{
		File:        file,
		Filename:    name,
		ContentType: formatOf(name).ContentType(),
	}, nil
}

// ResolveSignedDownload opens the document referenced by a signed token.
func (s *ReportService) ResolveSignedDownload(ctx context.Context, token string) (*ReportDownload, error) {
	if s.signer == nil {
		return nil, appErrors.ErrNotFound
	}
	id, relPath, expiresAt, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	folder, name, err := storage.SplitRelative(relPath)
	if err != nil || !strings.Contains(name, id) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	download, err := s.ResolveDownload(ctx, folder, name)
	if err != nil {
		return nil, err
	}
	download.ExpiresAt = &expiresAt
	return download, nil
}

// StartCleanup removes expired documents every CleanupInterval until ctx is
// done. The returned channel closes once the loop has exited.
func (s *ReportService) StartCleanup(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	if s.cfg.CleanupInterval <= 0 {
		close(done)
		return done
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup(ctx)
			}
		}
	}()
	return done
}

// Cleanup removes documents older than ResultTTL and returns how many were deleted.
func (s *ReportService) Cleanup(ctx context.Context) int {
	deleted, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		s.logger.Warn("report cleanup failed", zap.Error(err))
		return 0
	}
	if len(deleted) > 0 {
		s.metrics.RecordCleanup(len(deleted))
		_ = s.cache.InvalidateReports(ctx)
		s.logger.Info("expired reports removed", zap.Int("count", len(deleted)))
	}
	return len(deleted)
}

func (s *ReportService) ingest(req dto.GenerateReportRequest) (models.Period, models.ReportStats, error) {
	var stats models.ReportStats
	if err := s.validator.Struct(req); err != nil {
		return models.Period{}, stats, appErrors.Wrap(err, appErrors.ErrInconsistentData.Code, appErrors.ErrInconsistentData.Status, appErrors.ErrInconsistentData.Message)
	}
	period, ingest, err := req.Period.ToModel(s.cfg.MidpointLabel)
	if err != nil {
		return models.Period{}, stats, appErrors.Wrap(err, appErrors.ErrInconsistentData.Code, appErrors.ErrInconsistentData.Status, appErrors.ErrInconsistentData.Message)
	}
	if ingest.DroppedAnswers > 0 {
		s.logger.Warn("answers dropped at ingestion", zap.Int("count", ingest.DroppedAnswers), zap.String("degree", period.Degree))
	}
	stats = models.ReportStats{
		Grades:         len(period.Grades),
		Indicators:     len(period.Indicators),
		Alternatives:   len(period.Alternatives),
		Sheets:         ingest.Sheets,
		DroppedAnswers: ingest.DroppedAnswers,
	}
	return period, stats, nil
}

// renderCharts draws the two charts of one grade concurrently.
func (s *ReportService) renderCharts(ctx context.Context, report tabulation.GradeReport) (gradeCharts, error) {
	var out gradeCharts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := s.renderChart(gctx, "syllabus", report.SyllabusChart)
		out.syllabus = data
		return err
	})
	g.Go(func() error {
		data, err := s.renderChart(gctx, "indicator", report.IndicatorChart)
		out.indicator = data
		return err
	})
	if err := g.Wait(); err != nil {
		return gradeCharts{}, fmt.Errorf("grade %d%s: %w", report.Number, report.Parallel, err)
	}
	return out, nil
}

func (s *ReportService) renderChart(ctx context.Context, kind string, spec chart.Spec) ([]byte, error) {
	start := time.Now()
	data, err := s.charts.Render(ctx, spec)
	s.metrics.ObserveChart(kind, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("render %s chart: %w", kind, err)
	}
	return data, nil
}

func (s *ReportService) stillStored(d models.ReportDescriptor) bool {
	if d.ExpiresAt != nil && time.Now().After(*d.ExpiresAt) {
		return false
	}
	file, err := s.storage.Open(d.Folder, d.DocumentName)
	if err != nil {
		return false
	}
	_ = file.Close()
	return true
}

func (s *ReportService) cacheTTL(d *models.ReportDescriptor) time.Duration {
	ttl := s.cfg.CacheTTL
	if d.ExpiresAt != nil {
		if remaining := time.Until(*d.ExpiresAt); ttl <= 0 || remaining < ttl {
			ttl = remaining
		}
	}
	return ttl
}

func (s *ReportService) storageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrInvalidPath):
		return appErrors.Clone(appErrors.ErrForbidden, "invalid document path")
	case errors.Is(err, storage.ErrNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, "report not found")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open report")
	}
}

// DocumentName builds "report-{MITAD|FINAL}-{initDate}-{id}.{ext}".
func DocumentName(phase models.Phase, initDate, id string, format models.ReportFormat) string {
	date := sanitizeSegment(initDate)
	if date == "na" {
		date = "undated"
	}
	return fmt.Sprintf("report-%s-%s-%s.%s", phase.ShortName(), date, id, format)
}

const maxSegmentRunes = 100

var unsafeSegment = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// sanitizeSegment makes a value safe to use as a single path element.
func sanitizeSegment(raw string) string {
	cleaned := unsafeSegment.ReplaceAllString(strings.TrimSpace(raw), "_")
	cleaned = strings.Trim(cleaned, "._")
	if cleaned == "" {
		return "na"
	}
	if runes := []rune(cleaned); len(runes) > maxSegmentRunes {
		cleaned = string(runes[:maxSegmentRunes])
	}
	return cleaned
}

func formatOf(name string) models.ReportFormat {
	if strings.HasSuffix(strings.ToLower(name), "."+string(models.ReportFormatCSV)) {
		return models.ReportFormatCSV
	}
	return models.ReportFormatPDF
}
