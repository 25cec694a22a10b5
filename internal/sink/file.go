package sink

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"salesim/internal/simulation"
)

// CSVSink writes the ledger as CSV with a header row.
type CSVSink struct {
	w      *csv.Writer
	closer io.Closer
	header bool
}

// NewCSV writes to w; the caller keeps ownership of w.
func NewCSV(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

// CreateCSV creates (or truncates) the file at path.
func CreateCSV(path string) (*CSVSink, error) {
	f, err := createFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create csv output: %w", err)
	}
	s := NewCSV(f)
	s.closer = f
	return s, nil
}

func (s *CSVSink) Write(ctx context.Context, items []simulation.LineItem) error {
	if !s.header {
		if err := s.w.Write(Header); err != nil {
			return err
		}
		s.header = true
	}
	for _, it := range items {
		if err := s.w.Write(record(it)); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (s *CSVSink) Close() error {
	if !s.header {
		_ = s.w.Write(Header)
	}
	s.w.Flush()
	return closeAll(s.w.Error(), s.closer)
}

// JSONLSink writes one JSON object per line item.
type JSONLSink struct {
	buf    *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
}

// NewJSONL writes to w; the caller keeps ownership of w.
func NewJSONL(w io.Writer) *JSONLSink {
	buf := bufio.NewWriter(w)
	return &JSONLSink{buf: buf, enc: json.NewEncoder(buf)}
}

// CreateJSONL creates (or truncates) the file at path.
func CreateJSONL(path string) (*JSONLSink, error) {
	f, err := createFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create jsonl output: %w", err)
	}
	s := NewJSONL(f)
	s.closer = f
	return s, nil
}

func (s *JSONLSink) Write(ctx context.Context, items []simulation.LineItem) error {
	for _, it := range items {
		if err := s.enc.Encode(it); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// Flush pushes buffered lines to the underlying writer.
func (s *JSONLSink) Flush() error {
	return s.buf.Flush()
}

func (s *JSONLSink) Close() error {
	return closeAll(s.buf.Flush(), s.closer)
}
