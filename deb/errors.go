package deb

import "errors"

var (
	// ErrArchiveFormat reports malformed outer (ar) framing: bad magic, a
	// partial header or a member shorter than its declared size.
	ErrArchiveFormat = errors.New("deb: malformed ar archive")

	// ErrDecompression reports a corrupt compressed member.
	ErrDecompression = errors.New("deb: decompression failed")

	// ErrInnerArchiveFormat reports malformed tar framing inside a member, or an
	// entry path that cannot be read as text.
	ErrInnerArchiveFormat = errors.New("deb: malformed tar archive")

	// ErrControlFormat reports a control line that is neither a continuation
	// nor a "key: value" record.
	ErrControlFormat = errors.New("deb: malformed control file")

	// ErrEntryReleased is returned when an Entry is read after the callback it
	// was handed to has returned.
	ErrEntryReleased = errors.New("deb: entry used after its callback returned")
)
