package deb

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/blakesmith/ar"
)

// Walk reads the .deb package from r in a single forward pass and reports its
// content to v.
//
// The control member (control.tar.gz) is parsed and its fields are passed to
// v.VisitControl once the member is exhausted. Only the first control member
// is read; later ones are skipped. Every entry of the data member
// (data.tar.xz) is passed to v.VisitFile. Other members are skipped. Members may
// come in any order and either may be missing.
//
// The first error aborts the walk: malformed input wraps one of
// ErrArchiveFormat, ErrDecompression, ErrInnerArchiveFormat or ErrControlFormat,
// and an error returned by v is returned wrapped with its location. Callbacks
// that ran before the failure are not undone.
func Walk(r io.Reader, v Visitor, opts ...Option) error {
	cfg := newConfig(opts...)
	w := &walker{
		cfg:     cfg,
		visitor: v,
		log:     cfg.logger,
	}
	return w.walk(r)
}

// walker holds the state of a single Walk.
type walker struct {
	cfg     *config
	visitor Visitor
	log     *slog.Logger

	// controlSeen is set once a control member has been handled.
	controlSeen bool
}

// memberKind classifies the members of the outer archive.
type memberKind int

const (
	memberOther memberKind = iota
	memberControl
	memberData
)

func (w *walker) walk(r io.Reader) error {
	magic := make([]byte, len(arMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return fmt.Errorf("%w: reading global header: %w", ErrArchiveFormat, err)
	}
	if string(magic) != arMagic {
		return fmt.Errorf("%w: bad global header %q", ErrArchiveFormat, magic)
	}
	// ar.NewReader discards the global header without looking at it, give it
	// back the bytes we just checked.
	arR := ar.NewReader(io.MultiReader(bytes.NewReader(magic), r))

	for {
		header, err := arR.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: reading member header: %w", ErrArchiveFormat, err)
		}
		if header.Size < 0 {
			return fmt.Errorf("%w: member %q has negative size %d", ErrArchiveFormat, header.Name, header.Size)
		}

		// GNU ar terminates names with a slash.
		name := strings.TrimSuffix(header.Name, "/")
		m := &memberReader{name: name, r: arR, size: header.Size}

		kind, c := w.classify(name)
		switch kind {
		case memberControl:
			if w.controlSeen {
				w.log.Debug("skipping duplicate control member", "member", name, "size", header.Size)
				break
			}
			w.controlSeen = true
			w.log.Debug("reading control member", "member", name, "size", header.Size)
			err = w.extractControl(name, c, m)
		case memberData:
			w.log.Debug("reading data member", "member", name, "size", header.Size)
			err = w.extractData(name, c, m)
		default:
			w.log.Debug("skipping member", "member", name, "size", header.Size)
		}
		if err != nil {
			return err
		}

		// Consume what the extractors left so that truncation is detected on
		// every member.
		if _, err := io.Copy(io.Discard, m); err != nil {
			if errors.Is(err, ErrArchiveFormat) {
				return err
			}
			return fmt.Errorf("reading member %q: %w", name, err)
		}
	}
}

// classify tells what a member is and how it is compressed. Only the canonical
// names match unless member variants are enabled.
func (w *walker) classify(name string) (memberKind, Compression) {
	switch PackageMember(name) {
	case MemberControlTarGz:
		return memberControl, CompressionGzip
	case MemberDataTarXz:
		return memberData, CompressionXz
	}
	if !w.cfg.memberVariants {
		return memberOther, ""
	}
	if c, ok := compressionOf(name, memberControlPrefix); ok && slices.Contains(controlCompressions, c) {
		return memberControl, c
	}
	if c, ok := compressionOf(name, memberDataPrefix); ok && slices.Contains(dataCompressions, c) {
		return memberData, c
	}
	return memberOther, ""
}

// memberReader counts the bytes read from an ar member and turns a premature
// end of the member into ErrArchiveFormat.
type memberReader struct {
	name string
	r    io.Reader
	size int64
	n    int64
}

// Read reads from the member and increments the byte count.
func (m *memberReader) Read(p []byte) (int, error) {
	n, err := m.r.Read(p)
	m.n += int64(n)
	if err == io.EOF && m.n < m.size {
		err = fmt.Errorf("%w: member %q truncated after %d of %d bytes", ErrArchiveFormat, m.name, m.n, m.size)
	}
	return n, err
}
