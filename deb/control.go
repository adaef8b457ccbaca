package deb

import (
	"archive/tar"
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// fieldSeparator separates the key from the value in a control record.
const fieldSeparator = ": "

// ParseControlField splits a control record line into its key and value at the
// first ": ". The value is everything after the separator, untrimmed.
func ParseControlField(line string) (key, value string, err error) {
	key, value, ok := strings.Cut(line, fieldSeparator)
	if !ok {
		return "", "", fmt.Errorf("%w: missing %q separator in %q", ErrControlFormat, fieldSeparator, line)
	}
	return key, value, nil
}

// parseControl reads control records from r into fields. Lines starting with a
// space continue the previous record: they are dropped unless fold is set, in
// which case they are appended to the previous value after a newline.
func parseControl(r io.Reader, fields map[string]string, fold bool) error {
	br := bufio.NewReader(r)
	var lastKey string
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if line == "" && err == io.EOF {
			return nil
		}
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		if strings.HasPrefix(line, " ") {
			if fold && lastKey != "" {
				fields[lastKey] += "\n" + line
			}
		} else {
			key, value, perr := ParseControlField(line)
			if perr != nil {
				return fmt.Errorf("line %d: %w", lineNo, perr)
			}
			fields[key] = value
			lastKey = key
		}

		if err == io.EOF {
			return nil
		}
	}
}

// extractControl reads the control member: it parses ./control, forwards
// ./conffiles to the visitor if it wants it, then delivers the fields.
func (w *walker) extractControl(member string, c Compression, src io.Reader) error {
	zr, err := c.reader(src)
	if err != nil {
		return err
	}
	defer zr.Close()

	fields := make(map[string]string)
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return innerArchiveError(member, err)
		}
		if !utf8.ValidString(hdr.Name) {
			return fmt.Errorf("%w: %s: entry path %q is not valid UTF-8", ErrInnerArchiveFormat, member, hdr.Name)
		}

		switch ControlEntry(hdr.Name) {
		case EntryControl:
			if err := parseControl(tr, fields, w.cfg.foldFields); err != nil {
				if errors.Is(err, ErrControlFormat) {
					return fmt.Errorf("%s: parsing %s: %w", member, hdr.Name, err)
				}
				return innerArchiveError(member, err)
			}
		case EntryConffiles:
			cv, ok := w.visitor.(ConffilesVisitor)
			if !ok {
				w.log.Debug("visitor ignores conffiles", "member", member)
				continue
			}
			if err := visitEntry(hdr, tr, cv.VisitConffiles); err != nil {
				return fmt.Errorf("visiting %s in %s: %w", hdr.Name, member, err)
			}
		default:
			w.log.Debug("skipping control entry", "member", member, "entry", hdr.Name)
		}
	}

	w.log.Debug("control parsed", "member", member, "fields", len(fields))
	if err := w.visitor.VisitControl(fields); err != nil {
		return fmt.Errorf("visiting control of %s: %w", member, err)
	}
	return nil
}

// innerArchiveError wraps a tar framing error with ErrInnerArchiveFormat,
// keeping errors that already carry a more precise cause.
func innerArchiveError(member string, err error) error {
	if errors.Is(err, ErrDecompression) || errors.Is(err, ErrArchiveFormat) {
		return fmt.Errorf("%s: %w", member, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrInnerArchiveFormat, member, err)
}
