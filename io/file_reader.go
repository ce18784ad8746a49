package io

import (
	"errors"
	"fmt"
	"os"
)

var errNotOpened = errors.New("file not opened")

// FileReader is a thin positional IO wrapper around one slab file.
// Buffers handed to ReadAt and WriteAt are usually pooled and larger
// than the region of interest, so both honor the explicit length
// instead of the buffer size.
type FileReader struct {
	path   string
	file   *os.File
	opened bool

	exists bool
}

func NewFileReader(path string) *FileReader {
	_, err := os.Stat(path)

	return &FileReader{
		path:   path,
		exists: err == nil,
	}
}

func (f *FileReader) Open(readOnly bool) error {
	var err error

	if readOnly {
		f.file, err = os.OpenFile(f.path, os.O_RDONLY, 0644)
	} else {
		f.file, err = os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY, 0644)
	}
	if err != nil {
		return err
	}

	f.opened = true
	return nil
}

func (f *FileReader) Close() error {
	if !f.opened {
		return nil
	}
	return f.file.Close()
}

// Raw exposes the underlying os.File for operations FileReader doesn't
// wrap itself, such as Truncate.
func (f *FileReader) Raw() *os.File {
	return f.file
}

func (f *FileReader) ReadAt(out []byte, off, length int) error {
	if !f.opened {
		return errNotOpened
	}

	n, err := f.file.ReadAt(out[:length], int64(off))
	if n != length {
		return fmt.Errorf("short read: %d of %d bytes at offset %d", n, length, off)
	}

	// err may be io.EOF when the read ended exactly at the file edge
	_ = err
	return nil
}

func (f *FileReader) WriteAt(in []byte, off, length int) error {
	if !f.opened {
		return errNotOpened
	}

	n, err := f.file.WriteAt(in[:length], int64(off))
	if err != nil {
		return err
	}
	if n != length {
		return fmt.Errorf("short write: %d of %d bytes at offset %d", n, length, off)
	}

	return nil
}

// FillZeroes writes size zero bytes at offset, growing the file if
// needed.
func (f *FileReader) FillZeroes(offset, size int) error {
	if !f.opened {
		return errNotOpened
	}

	return f.WriteAt(make([]byte, size), offset, size)
}
