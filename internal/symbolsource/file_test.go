package symbolsource

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSourceEmitsChunks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.bin")
	data := make([]byte, 10)
	for i := range data {
		data[i] = byte(i)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	src := NewFileSource(path, 4)
	samples := make(chan Sample, 10)
	stop := make(chan struct{})

	if err := src.Run(samples, stop); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	close(samples)

	var total int
	for s := range samples {
		total += len(s.Bits)
	}
	if total != len(data) {
		t.Errorf("total bytes read = %d, want %d", total, len(data))
	}
}

func TestFileSourceStopsEarly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.bin")
	if err := os.WriteFile(path, make([]byte, 1024), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	src := NewFileSource(path, 4)
	samples := make(chan Sample)
	stop := make(chan struct{})
	close(stop)

	if err := src.Run(samples, stop); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource("/nonexistent/capture.bin", 4)
	samples := make(chan Sample, 1)
	stop := make(chan struct{})

	if err := src.Run(samples, stop); err == nil {
		t.Error("Run() with missing file should return error")
	}
}
