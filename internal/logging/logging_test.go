package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInit_WritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Options{Verbose: true, Dir: dir}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level, got %v", zerolog.GlobalLevel())
	}

	log.Info().Str("probe", "file-sink").Msg("hello")

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("Expected log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected log file to contain the probe entry")
	}
}

func TestInit_NoFile(t *testing.T) {
	if err := Init(Options{NoFile: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info level, got %v", zerolog.GlobalLevel())
	}
}
