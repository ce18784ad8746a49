package compression

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
)

// CompressLz4 compresses src into dst, returning the number of
// compressed bytes written. dst must be large enough to hold the
// compressed output; for incompressible input that can exceed len(src),
// so callers size dst independently rather than reusing src's buffer.
func CompressLz4(src []byte, dst []byte) (int, error) {
	output := bytes.NewBuffer(dst[:0])
	zw := lz4.NewWriter(output)

	if _, err := zw.Write(src); err != nil {
		return 0, err
	}

	if err := zw.Flush(); err != nil {
		return 0, err
	}

	if err := zw.Close(); err != nil {
		return 0, err
	}

	return output.Len(), nil
}

// DecompressLz4 inflates src into dst, returning the number of bytes
// written. dst is sized for the slab's decompressed content and is
// usually larger than the actual output, so a short read at EOF is not
// an error.
func DecompressLz4(src, dst []byte) (int, error) {
	zr := lz4.NewReader(bytes.NewReader(src))

	n, err := io.ReadFull(zr, dst)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return n, err
	}

	return n, nil
}
