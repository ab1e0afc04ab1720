// Package dataset ingests the bulk policy table: a statically hosted CSV
// fetched once and parsed into loosely-keyed records. A parse failure is
// surfaced whole; no partial list is ever served.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"youthpolicy/internal/logger"
	"youthpolicy/internal/models"
	"youthpolicy/internal/search"

	"golang.org/x/net/html"
)

// ErrNotLoaded is returned while the dataset has not been ingested yet.
var ErrNotLoaded = errors.New("dataset: not loaded")

// ParseError marks a malformed dataset file. It blocks the whole list.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string { return fmt.Sprintf("dataset: parse %s: %v", e.Source, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Loader fetches and holds the parsed dataset.
type Loader struct {
	mu      sync.RWMutex
	records []models.RawPolicyRecord
	loadErr error
	loaded  bool

	url       string
	path      string
	userAgent string
	client    *http.Client
}

// NewLoader creates a loader that reads from url when set, otherwise from
// the local path.
func NewLoader(url, path, userAgent string) *Loader {
	return &Loader{
		url:       url,
		path:      path,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Load ingests the dataset once. Safe to call from a goroutine at startup;
// concurrent readers see either nothing or the full list.
func (l *Loader) Load() error {
	records, err := l.ingest()

	l.mu.Lock()
	l.loaded = true
	l.loadErr = err
	if err == nil {
		l.records = records
	}
	l.mu.Unlock()

	if err != nil {
		logger.Error("dataset: load failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	logger.Info("dataset: loaded", map[string]interface{}{"records": len(records)})
	return nil
}

func (l *Loader) ingest() ([]models.RawPolicyRecord, error) {
	var (
		r      io.ReadCloser
		source string
		err    error
	)
	if l.url != "" {
		source = l.url
		r, err = l.open(l.url)
	} else {
		source = l.path
		r, err = os.Open(l.path)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", source, err)
	}
	defer r.Close()

	return parseCSV(r, source)
}

func (l *Loader) open(url string) (io.ReadCloser, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", l.userAgent)
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return resp.Body, nil
}

// parseCSV reads the header row as column names and every following row as
// one record. Ragged rows or broken quoting fail the whole parse.
func parseCSV(r io.Reader, source string) ([]models.RawPolicyRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\uFEFF"))
	}

	var records []models.RawPolicyRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Source: source, Err: err}
		}
		record := make(models.RawPolicyRecord, len(header))
		for i, col := range header {
			if i < len(row) {
				record[col] = stripHTML(row[i])
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// stripHTML flattens any embedded markup to its text content. Open-data
// exports occasionally ship description cells with raw HTML in them.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	node, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(textContent(node))
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

// Records returns the full parsed dataset. ErrNotLoaded before ingestion
// completes; the original parse error if ingestion failed.
func (l *Loader) Records() ([]models.RawPolicyRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return nil, ErrNotLoaded
	}
	if l.loadErr != nil {
		return nil, l.loadErr
	}
	return l.records, nil
}

// Search filters the dataset by the multi-field fallback contract.
func (l *Loader) Search(term string) ([]models.RawPolicyRecord, error) {
	records, err := l.Records()
	if err != nil {
		return nil, err
	}
	return search.FilterRecords(records, term), nil
}
