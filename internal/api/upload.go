package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ProgressFunc receives upload progress. total is the full request size.
type ProgressFunc func(sent, total int64)

// ValidateImportName checks the file extension the backend accepts.
func ValidateImportName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".xlsx" && ext != ".xls" {
		return fmt.Errorf("%w: %s", ErrInvalidImportFile, filepath.Base(name))
	}
	return nil
}

// ImportFile uploads the Excel file at path.
func (c *Client) ImportFile(ctx context.Context, path string, progress ProgressFunc) (ImportResult, error) {
	if err := ValidateImportName(path); err != nil {
		return ImportResult{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, err
	}
	defer f.Close()
	return c.ImportTransactions(ctx, filepath.Base(path), f, progress)
}

// ImportTransactions uploads an Excel workbook as the multipart "file" field
// and returns the server's per-row result.
func (c *Client) ImportTransactions(
	ctx context.Context,
	fileName string,
	r io.Reader,
	progress ProgressFunc,
) (ImportResult, error) {
	if err := ValidateImportName(fileName); err != nil {
		return ImportResult{}, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return ImportResult{}, err
	}
	n, err := io.Copy(part, r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("reading %s: %w", fileName, err)
	}
	if n == 0 {
		return ImportResult{}, ErrEmptyImportFile
	}
	if err = mw.Close(); err != nil {
		return ImportResult{}, err
	}

	total := int64(buf.Len())
	body := &progressReader{r: bytes.NewReader(buf.Bytes()), total: total, fn: progress}
	req, err := c.newRequest(ctx, http.MethodPost, transactionsPath+"/import", nil, body)
	if err != nil {
		return ImportResult{}, err
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return ImportResult{}, err
	}
	defer resp.Body.Close()

	var out ImportResult
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ImportResult{}, fmt.Errorf("decoding import result: %w", err)
	}
	return out, nil
}

// progressReader reports bytes read to fn.
type progressReader struct {
	mu    sync.Mutex
	r     io.Reader
	sent  int64
	total int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.fn != nil {
		p.mu.Lock()
		p.sent += int64(n)
		sent := p.sent
		p.mu.Unlock()
		p.fn(sent, p.total)
	}
	return n, err
}
