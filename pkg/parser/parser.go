package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// FileSource implements Source for reading a single log file.
// Files ending in .gz are decompressed transparently. All bytes pass through
// a UTF-8 decoder that substitutes invalid sequences with U+FFFD, so a
// corrupt capture can never abort analysis with a decode error.
type FileSource struct {
	path string

	file    *os.File
	gz      *gzip.Reader
	scanner *bufio.Scanner
	lineNum int
}

// NewFileSource creates a Source reading from the given file path.
// The file is opened on the first call to Next.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Next returns the next raw log line.
// Returns io.EOF once the file is exhausted.
func (s *FileSource) Next(ctx context.Context) (*LogLine, error) {
	// Check for context cancellation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.scanner == nil {
		if err := s.open(); err != nil {
			return nil, err
		}
	}

	if s.scanner.Scan() {
		s.lineNum++
		return &LogLine{
			Content: s.scanner.Text(),
			LineNum: s.lineNum,
		}, nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	return nil, io.EOF
}

// Close releases resources.
func (s *FileSource) Close() error {
	if s.gz != nil {
		_ = s.gz.Close()
		s.gz = nil
	}
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		s.scanner = nil
		return err
	}
	return nil
}

func (s *FileSource) open() error {
	f, err := os.Open(s.path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", s.path, err)
	}

	var r io.Reader = f
	if strings.HasSuffix(s.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("opening gzip log %s: %w", s.path, err)
		}
		s.gz = gz
		r = gz
	}

	// The UTF-8 decoder replaces undecodable bytes with U+FFFD.
	r = transform.NewReader(r, unicode.UTF8.NewDecoder())

	s.file = f
	s.scanner = bufio.NewScanner(r)
	s.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size
	s.lineNum = 0

	return nil
}
