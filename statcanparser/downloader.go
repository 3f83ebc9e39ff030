package statcanparser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/giygas/statcan-api/logging"
	"github.com/giygas/statcan-api/metrics"
	"github.com/giygas/statcan-api/statcanparser/entities"
	"golang.org/x/text/encoding/charmap"
)

// baseURL is the provider's fixed download endpoint. A variable so package
// tests can point it at a local server.
var baseURL = "https://www150.statcan.gc.ca/n1/tbl/csv/"

const downloadTimeout = 5 * time.Minute

// DefaultCacheDir returns the per-user cache location used when no cache
// directory is supplied.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to a relative directory rather than failing before
		// any I/O has been attempted.
		return ".statcan_cache"
	}
	return filepath.Join(home, ".statcan_cache")
}

// tableURL converts a table id to its download URL. Dashes and spaces are
// stripped from the id; the id is not validated against the catalog.
func tableURL(tableID string, language entities.Language) string {
	clean := strings.NewReplacer("-", "", " ", "").Replace(tableID)
	return baseURL + clean + "-" + language.Code() + ".zip"
}

// cachePaths computes the deterministic cache layout for a
// (table id, language, cache root) triple.
func cachePaths(cacheDir, tableID string, language entities.Language) (zipPath, tableDir, csvPath string) {
	key := entities.TableKey(tableID, language)
	zipPath = filepath.Join(cacheDir, key+".zip")
	tableDir = filepath.Join(cacheDir, key)
	csvPath = filepath.Join(tableDir, key+".csv")
	return zipPath, tableDir, csvPath
}

// downloadTable returns the path of the cached CSV for the pair, downloading
// and extracting the provider's archive on a cache miss. A cache hit is any
// existing file at the expected path, regardless of staleness.
func downloadTable(tableID string, language entities.Language, cacheDir string) (string, error) {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir()
	}
	if err := os.MkdirAll(cacheDir, 0750); err != nil {
		return "", fmt.Errorf("%w: creating cache directory %s: %w", ErrFilesystem, cacheDir, err)
	}

	zipPath, tableDir, csvPath := cachePaths(cacheDir, tableID, language)

	if _, err := os.Stat(csvPath); err == nil {
		logging.Debug("Cache hit", "table", tableID, "language", language.Code(), "path", csvPath)
		metrics.TableFetchTotal.WithLabelValues(tableID, language.Code(), "hit").Inc()
		return csvPath, nil
	}

	if err := os.MkdirAll(tableDir, 0750); err != nil {
		return "", fmt.Errorf("%w: creating table directory %s: %w", ErrFilesystem, tableDir, err)
	}

	url := tableURL(tableID, language)
	start := time.Now()

	client := &http.Client{
		Timeout: downloadTimeout,
	}
	response, err := client.Get(url)
	if err != nil {
		metrics.TableFetchTotal.WithLabelValues(tableID, language.Code(), "error").Inc()
		return "", fmt.Errorf("%w: GET %s: %w", ErrTransport, url, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		metrics.TableFetchTotal.WithLabelValues(tableID, language.Code(), "error").Inc()
		return "", fmt.Errorf("%w: GET %s: unexpected status %s", ErrTransport, url, response.Status)
	}

	bodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		metrics.TableFetchTotal.WithLabelValues(tableID, language.Code(), "error").Inc()
		return "", fmt.Errorf("%w: reading response for %s: %w", ErrTransport, url, err)
	}

	if err := os.WriteFile(zipPath, bodyBytes, 0640); err != nil {
		return "", fmt.Errorf("%w: writing %s: %w", ErrFilesystem, zipPath, err)
	}

	if err := extractTableCSV(zipPath, csvPath); err != nil {
		return "", err
	}

	// The archive is not needed once the CSV is in place.
	if err := os.Remove(zipPath); err != nil {
		logging.Warn("Failed to remove downloaded archive", "path", zipPath, "error", err)
	}

	elapsed := time.Since(start)
	metrics.TableFetchTotal.WithLabelValues(tableID, language.Code(), "download").Inc()
	metrics.TableFetchDuration.WithLabelValues(tableID, language.Code()).Observe(elapsed.Seconds())
	logging.Debug("Table downloaded", "table", tableID, "language", language.Code(), "duration", elapsed.String())

	return csvPath, nil
}

// extractTableCSV copies the first CSV member of the archive to csvPath.
// Archives normally ship UTF-8 with a BOM, but some older tables are
// ISO-8859-1, so the content is checked and decoded before writing.
func extractTableCSV(zipPath, csvPath string) error {
	archive, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("%w: opening archive %s: %w", ErrParse, zipPath, err)
	}
	defer func() {
		if err := archive.Close(); err != nil {
			logging.Warn("Failed to close archive", "path", zipPath, "error", err)
		}
	}()

	var member *zip.File
	for _, f := range archive.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			member = f
			break
		}
	}
	if member == nil {
		return fmt.Errorf("%w: no CSV file found in archive %s", ErrParse, zipPath)
	}

	rc, err := member.Open()
	if err != nil {
		return fmt.Errorf("%w: opening archive member %s: %w", ErrParse, member.Name, err)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			logging.Warn("Failed to close archive member", "member", member.Name, "error", err)
		}
	}()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("%w: reading archive member %s: %w", ErrParse, member.Name, err)
	}

	if !utf8.Valid(raw) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return fmt.Errorf("%w: decoding archive member %s: %w", ErrParse, member.Name, err)
		}
		raw = decoded
	}
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	if err := os.WriteFile(csvPath, raw, 0640); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrFilesystem, csvPath, err)
	}

	return nil
}
