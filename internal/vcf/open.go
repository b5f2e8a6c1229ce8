package vcf

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
)

// DecompressError reports a corrupt or truncated compressed input.
type DecompressError struct {
	Path string
	Err  error
}

func (e *DecompressError) Error() string {
	return fmt.Sprintf("decompress %s: %v", e.Path, e.Err)
}

func (e *DecompressError) Unwrap() error { return e.Err }

// Open opens a VCF file for reading. Gzip input (including bgzip) is
// detected by its magic bytes, bzip2 by magic bytes or the .bz2 extension.
// The path "-" reads from stdin.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return decompress(io.NopCloser(os.Stdin), "stdin")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	rc, err := decompress(file, path)
	if err != nil {
		file.Close()
		return nil, err
	}
	return rc, nil
}

func decompress(f io.ReadCloser, path string) (io.ReadCloser, error) {
	br := bufio.NewReader(f)
	magic, err := br.Peek(3)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read vcf header: %w", err)
	}

	switch {
	case len(magic) >= 2 && magic[0] == 0x1f && magic[1] == 0x8b:
		gz, err := pgzip.NewReader(br)
		if err != nil {
			return nil, &DecompressError{Path: path, Err: err}
		}
		return &readCloser{r: gz, path: path, compressed: true, closers: []io.Closer{gz, f}}, nil
	case bytes.HasPrefix(magic, []byte("BZh")) || strings.HasSuffix(strings.ToLower(path), ".bz2"):
		return &readCloser{r: bzip2.NewReader(br), path: path, compressed: true, closers: []io.Closer{f}}, nil
	}

	return &readCloser{r: br, path: path, closers: []io.Closer{f}}, nil
}

// readCloser closes the decompressor before the file and tags stream
// errors of compressed input as *DecompressError.
type readCloser struct {
	r          io.Reader
	path       string
	compressed bool
	closers    []io.Closer
}

func (rc *readCloser) Read(p []byte) (int, error) {
	n, err := rc.r.Read(p)
	if err != nil && err != io.EOF && rc.compressed {
		var de *DecompressError
		if !errors.As(err, &de) {
			err = &DecompressError{Path: rc.path, Err: err}
		}
	}
	return n, err
}

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
