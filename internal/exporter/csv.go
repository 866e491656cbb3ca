package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With(slog.String("component", "csv_writer"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes a whole CSV file. The file appears only once complete.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	return WriteFileAtomic(filePath, func(out io.Writer) error {
		if options.BOMPrefix {
			if _, err := out.Write(utf8BOM); err != nil {
				return fmt.Errorf("failed to write BOM: %w", err)
			}
		}

		writer := csv.NewWriter(out)
		if len(options.Headers) > 0 {
			if err := writer.Write(options.Headers); err != nil {
				return fmt.Errorf("failed to write headers: %w", err)
			}
		}
		for i, record := range options.Records {
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write record %d: %w", i, err)
			}
		}
		writer.Flush()
		return writer.Error()
	})
}

// WriteSimpleCSV writes a CSV file with headers, records and a BOM
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// StreamWriter writes large tables row by row into a temporary file.
// Commit moves the file into place; Abort discards it.
type StreamWriter struct {
	path   string
	file   *os.File
	writer *csv.Writer
	rows   int
}

// CreateStreamWriter creates a new streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	w.logger.Info("creating CSV stream writer",
		slog.String("file_path", filePath),
		slog.Int("header_count", len(headers)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".tmp-*")
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to create temporary file for %s", filePath), err)
	}

	s := &StreamWriter{path: filePath, file: file, writer: csv.NewWriter(file)}

	if _, err := file.Write(utf8BOM); err != nil {
		s.Abort()
		return nil, apperrors.NewStorageError("failed to write BOM", err)
	}
	if len(headers) > 0 {
		if err := s.writer.Write(headers); err != nil {
			s.Abort()
			return nil, apperrors.NewStorageError("failed to write headers", err)
		}
	}
	return s, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	if err := s.writer.Write(record); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write record %d", s.rows), err)
	}
	s.rows++
	return nil
}

// Rows returns the number of records written so far
func (s *StreamWriter) Rows() int {
	return s.rows
}

// Commit flushes the stream and renames it to its final path
func (s *StreamWriter) Commit() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.Abort()
		return apperrors.NewStorageError(fmt.Sprintf("failed to flush %s", s.path), err)
	}
	if err := s.file.Chmod(0644); err != nil {
		s.Abort()
		return apperrors.NewStorageError(fmt.Sprintf("failed to set permissions on %s", s.path), err)
	}
	if err := s.file.Close(); err != nil {
		os.Remove(s.file.Name())
		return apperrors.NewStorageError(fmt.Sprintf("failed to close %s", s.path), err)
	}
	if err := os.Rename(s.file.Name(), s.path); err != nil {
		os.Remove(s.file.Name())
		return apperrors.NewStorageError(fmt.Sprintf("failed to move %s into place", s.path), err)
	}
	return nil
}

// Abort closes and removes the temporary file
func (s *StreamWriter) Abort() {
	s.file.Close()
	os.Remove(s.file.Name())
}
