package deb

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// Compression identifies how a tar member of the package is compressed. Its
// value is the file extension following ".tar" in the member name.
type Compression string

const (
	// CompressionNone is a plain tar member (control.tar, data.tar).
	CompressionNone Compression = ""
	// CompressionGzip is the canonical control member compression.
	CompressionGzip Compression = "gz"
	// CompressionXz is the canonical data member compression.
	CompressionXz Compression = "xz"
	// CompressionZstd, CompressionBzip2 and CompressionLzma are only
	// recognized with WithMemberVariants.
	CompressionZstd  Compression = "zst"
	CompressionBzip2 Compression = "bz2"
	CompressionLzma  Compression = "lzma"
)

// controlCompressions and dataCompressions list what dpkg-deb accepts for
// each member.
var (
	controlCompressions = []Compression{CompressionNone, CompressionGzip, CompressionXz, CompressionZstd}
	dataCompressions    = []Compression{CompressionNone, CompressionGzip, CompressionXz, CompressionZstd, CompressionBzip2, CompressionLzma}
)

// compressionOf extracts the compression from a member name starting with prefix.
func compressionOf(name, prefix string) (Compression, bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok {
		return "", false
	}
	if rest == "" {
		return CompressionNone, true
	}
	ext, ok := strings.CutPrefix(rest, ".")
	if !ok {
		return "", false
	}
	return Compression(ext), true
}

// reader returns a decompressing reader over src. Every read error coming from
// the decompressor is tagged with ErrDecompression.
func (c Compression) reader(src io.Reader) (io.ReadCloser, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	switch c {
	case CompressionNone:
		return io.NopCloser(src), nil
	case CompressionGzip:
		rc, err = gzip.NewReader(src)
	case CompressionXz:
		var r *xz.Reader
		r, err = xz.NewReader(src)
		rc = io.NopCloser(r)
	case CompressionZstd:
		var d *zstd.Decoder
		d, err = zstd.NewReader(src)
		if err == nil {
			rc = d.IOReadCloser()
		}
	case CompressionBzip2:
		rc, err = bzip2.NewReader(src, nil)
	case CompressionLzma:
		var r *lzma.Reader
		r, err = lzma.NewReader(src)
		rc = io.NopCloser(r)
	default:
		return nil, fmt.Errorf("%w: unsupported compression %q", ErrDecompression, string(c))
	}
	if err != nil {
		return nil, decompressionError(c, err)
	}
	return &codecReader{c: c, rc: rc}, nil
}

// codecReader tags decompressor errors.
type codecReader struct {
	c  Compression
	rc io.ReadCloser
}

func (r *codecReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if err != nil && err != io.EOF {
		err = decompressionError(r.c, err)
	}
	return n, err
}

func (r *codecReader) Close() error {
	return r.rc.Close()
}

// decompressionError wraps err with ErrDecompression unless it already reports
// a framing problem of the outer archive.
func decompressionError(c Compression, err error) error {
	if errors.Is(err, ErrArchiveFormat) || errors.Is(err, ErrDecompression) {
		return err
	}
	name := string(c)
	if c == CompressionNone {
		name = "none"
	}
	return fmt.Errorf("%w: %s: %w", ErrDecompression, name, err)
}
