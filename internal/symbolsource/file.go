package symbolsource

import (
	"io"
	"os"
	"time"
)

// FileSource replays a captured file of byte-packed dibits, chunked to look like UDP payloads,
// for offline testing and diagnostics replay without a live radio input.
type FileSource struct {
	path      string
	chunkSize int
}

// NewFileSource creates a file-backed symbol source reading chunkSize bytes per Sample.
func NewFileSource(path string, chunkSize int) *FileSource {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	return &FileSource{path: path, chunkSize: chunkSize}
}

// Run reads the file to completion, sending one Sample per chunk, until stop is closed or EOF.
func (s *FileSource) Run(samples chan<- Sample, stop <-chan struct{}) error {
	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, s.chunkSize)
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		n, err := f.Read(buf)
		if n > 0 {
			bits := make([]byte, n)
			copy(bits, buf[:n])

			select {
			case samples <- Sample{Bits: bits, TimestampMs: uint64(time.Now().UnixMilli())}:
			case <-stop:
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
