// Package source opens trip files for ingestion.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ReaderKind selects how a trip file is read.
type ReaderKind string

const (
	// Disk streams the file through regular reads.
	Disk ReaderKind = "disk"
	// Mmap maps the whole file read-only and serves it from memory.
	Mmap ReaderKind = "mmap"
)

// ParseReaderKind validates a configured reader name.
func ParseReaderKind(s string) (ReaderKind, error) {
	switch kind := ReaderKind(s); kind {
	case Disk, Mmap:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown reader kind %q", s)
	}
}

// Open returns a reader over the file at path. The caller must close it.
func Open(path string, kind ReaderKind) (io.ReadCloser, error) {
	switch kind {
	case Disk:
		return os.Open(path)
	case Mmap:
		return openMapped(path)
	default:
		return nil, fmt.Errorf("unknown reader kind %q", kind)
	}
}

type mappedFile struct {
	*bytes.Reader
	data []byte
}

func openMapped(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	size := info.Size()
	if size == 0 {
		// mmap rejects zero-length mappings.
		return io.NopCloser(bytes.NewReader(nil)), nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	// Sequential hint only; failure is harmless.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return &mappedFile{Reader: bytes.NewReader(data), data: data}, nil
}

// Close unmaps the file. Reads after Close are invalid.
func (m *mappedFile) Close() error {
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	m.Reader = bytes.NewReader(nil)
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}
