package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
)

const reportsPath = "/api/reports"

// Export formats.
const (
	ExportExcel = "excel"
	ExportCSV   = "csv"
)

// MonthlyReport returns the report for a month.
func (c *Client) MonthlyReport(ctx context.Context, p Period) (MonthlyReport, error) {
	if err := ValidatePeriod(p.Month, p.Year); err != nil {
		return MonthlyReport{}, err
	}
	var out MonthlyReport
	err := c.getJSON(ctx, reportsPath+"/monthly", periodQuery(p), &out)
	return out, err
}

// ExportReport streams the month's transactions as Excel or CSV into w.
func (c *Client) ExportReport(ctx context.Context, format string, p Period, w io.Writer) (Download, error) {
	if format != ExportExcel && format != ExportCSV {
		return Download{}, fmt.Errorf("unsupported export format %q: use %s or %s", format, ExportExcel, ExportCSV)
	}
	if err := ValidatePeriod(p.Month, p.Year); err != nil {
		return Download{}, err
	}
	ext := ".xlsx"
	if format == ExportCSV {
		ext = ".csv"
	}
	fallback := fmt.Sprintf("transactions_%d_%d%s", p.Year, p.Month, ext)
	return c.download(ctx, reportsPath+"/export/"+format, periodQuery(p), w, fallback)
}

// Download describes a file streamed from the server.
type Download struct {
	FileName    string
	ContentType string
	Bytes       int64
}

// download GETs relPath and copies the body into w.
func (c *Client) download(
	ctx context.Context,
	relPath string,
	query url.Values,
	w io.Writer,
	fallbackName string,
) (Download, error) {
	req, err := c.newRequest(ctx, http.MethodGet, relPath, query, nil)
	if err != nil {
		return Download{}, err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.do(req)
	if err != nil {
		return Download{}, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return Download{}, fmt.Errorf("downloading %s: %w", relPath, err)
	}
	return Download{
		FileName:    attachmentName(resp.Header.Get("Content-Disposition"), fallbackName),
		ContentType: resp.Header.Get("Content-Type"),
		Bytes:       n,
	}, nil
}

// attachmentName extracts the filename parameter from a Content-Disposition
// header, keeping only the base name.
func attachmentName(header, fallback string) string {
	if header == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return fallback
	}
	name := filepath.Base(params["filename"])
	if name == "" || name == "." || name == "/" {
		return fallback
	}
	return name
}
