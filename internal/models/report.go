package models

import (
	"strings"
	"time"
)

// ReportFormat enumerates supported document formats.
type ReportFormat string

const (
	ReportFormatPDF ReportFormat = "pdf"
	ReportFormatCSV ReportFormat = "csv"
)

// Valid reports whether the format is supported.
func (f ReportFormat) Valid() bool {
	return f == ReportFormatPDF || f == ReportFormatCSV
}

// ReportDescriptor tells the caller where a rendered report was written.
type ReportDescriptor struct {
	DocumentName string       `json:"documentName"`
	Folder       string       `json:"folder"`
	Format       ReportFormat `json:"format"`
	DownloadURL  string       `json:"downloadUrl,omitempty"`
	ExpiresAt    *time.Time   `json:"expiresAt,omitempty"`
	Stats        ReportStats  `json:"stats"`
}

// ReportStats summarises what was tabulated.
type ReportStats struct {
	Grades         int `json:"grades"`
	Indicators     int `json:"indicators"`
	Alternatives   int `json:"alternatives"`
	Sheets         int `json:"sheets"`
	DroppedAnswers int `json:"droppedAnswers"`
	UnmatchedVotes int `json:"unmatchedVotes"`
}

// ContentType is the MIME type served for the format.
func (f ReportFormat) ContentType() string {
	if f == ReportFormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/pdf"
}

// ParseReportFormat resolves a user supplied format, falling back to def when raw is empty.
func ParseReportFormat(raw string, def ReportFormat) (ReportFormat, bool) {
	if raw == "" {
		return def, def.Valid()
	}
	f := ReportFormat(strings.ToLower(strings.TrimSpace(raw)))
	return f, f.Valid()
}
