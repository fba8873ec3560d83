package analysis

import (
	"crypto/sha1"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadDataset reads the named columns of a CSV dataset into a frame.
// The source is either a local path or an http(s) URL; remote files are
// cached on disk so repeated runs do not re-download. MaxEvents and Skip
// from the configuration are honored while reading.
func ReadDataset(source string, columns []string) (*Frame, error) {
	path := source
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		cached, err := fetchRemote(source)
		if err != nil {
			return nil, err
		}
		path = cached
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &ErrOpenFile{Filename: path, Err: err}
	}
	defer file.Close()

	return readCSV(file, source, columns)
}

func readCSV(r io.Reader, source string, columns []string) (*Frame, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading header of %q: %w", source, err)
	}

	// Map requested columns to CSV field indices.
	indices := make([]int, len(columns))
	for i, column := range columns {
		indices[i] = -1
		for j, name := range header {
			if strings.TrimSpace(name) == column {
				indices[i] = j
				break
			}
		}
		if indices[i] == -1 {
			return nil, &ErrColumnNotFound{Column: column}
		}
	}

	values := make([][]float64, len(columns))
	row := make([]float64, len(columns))
	evtCount := -1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading %q: %w", source, err)
		}
		evtCount++
		if evtCount < configuration.Skip {
			continue
		}
		if configuration.MaxEvents > 0 && evtCount-configuration.Skip >= configuration.MaxEvents {
			if configuration.Verbosity > 0 && logger != nil {
				logger.Info("Max events reached", "reader")
			}
			break
		}
		discarded := false
		for i, index := range indices {
			x, err := strconv.ParseFloat(strings.TrimSpace(record[index]), 64)
			if err != nil {
				if !configuration.Discard {
					return nil, fmt.Errorf("error parsing %q row %d column %q: %w", source, evtCount, columns[i], err)
				}
				if logger != nil {
					logger.Error(fmt.Sprintf("discarding row %d of %s: %v", evtCount, source, err))
				}
				discarded = true
				break
			}
			row[i] = x
		}
		if discarded {
			continue
		}
		for i := range indices {
			values[i] = append(values[i], row[i])
		}
	}

	frame := NewFrame()
	for i, column := range columns {
		if err := frame.AddColumn(column, values[i]); err != nil {
			return nil, err
		}
	}
	if configuration.Verbosity > 0 && logger != nil {
		logger.Info(fmt.Sprintf("Read %d events from %s", frame.NEvents(), source), "reader")
	}
	return frame, nil
}

func cachePath(url string) string {
	dir := configuration.CacheDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "sweights_cache")
	}
	sum := sha1.Sum([]byte(url))
	return filepath.Join(dir, hex.EncodeToString(sum[:])+".csv")
}

func fetchRemote(url string) (string, error) {
	path := cachePath(url)
	if _, err := os.Stat(path); err == nil {
		if configuration.Verbosity > 0 && logger != nil {
			logger.Info(fmt.Sprintf("Using cached copy of %s", url), "reader")
		}
		return path, nil
	}

	resp, err := http.Get(url)
	if err != nil {
		return "", &ErrFetch{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &ErrFetch{URL: url, Status: resp.StatusCode}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", &ErrFetch{URL: url, Err: err}
	}
	// Download to a temp file first so an interrupted fetch never
	// leaves a truncated file at the cache path.
	tmp, err := os.CreateTemp(filepath.Dir(path), "fetch-*")
	if err != nil {
		return "", &ErrFetch{URL: url, Err: err}
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", &ErrFetch{URL: url, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", &ErrFetch{URL: url, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", &ErrFetch{URL: url, Err: err}
	}
	if configuration.Verbosity > 0 && logger != nil {
		logger.Info(fmt.Sprintf("Fetched %s into cache", url), "reader")
	}
	return path, nil
}
