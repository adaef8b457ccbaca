package deb

import (
	"archive/tar"
	"io"
)

// Visitor receives the content of a package during Walk.
//
// VisitControl is called at most once per walk, after the whole control member
// has been read. VisitFile is called once per entry of the data member, in
// archive order, including directories and symlinks. Returning an error aborts
// the walk and Walk returns it.
type Visitor interface {
	VisitControl(fields map[string]string) error
	VisitFile(e *Entry) error
}

// ConffilesVisitor is implemented by visitors that want the raw conffiles list.
// VisitConffiles is called at most once, only if the control member has a
// ./conffiles entry.
type ConffilesVisitor interface {
	VisitConffiles(e *Entry) error
}

// VisitorFuncs adapts plain functions to Visitor and ConffilesVisitor.
// Nil functions are no-ops.
type VisitorFuncs struct {
	Control   func(fields map[string]string) error
	Conffiles func(e *Entry) error
	File      func(e *Entry) error
}

// VisitControl implements Visitor.
func (f VisitorFuncs) VisitControl(fields map[string]string) error {
	if f.Control == nil {
		return nil
	}
	return f.Control(fields)
}

// VisitConffiles implements ConffilesVisitor.
func (f VisitorFuncs) VisitConffiles(e *Entry) error {
	if f.Conffiles == nil {
		return nil
	}
	return f.Conffiles(e)
}

// VisitFile implements Visitor.
func (f VisitorFuncs) VisitFile(e *Entry) error {
	if f.File == nil {
		return nil
	}
	return f.File(e)
}

// Entry is a tar entry handed to a Visitor. Its content can be read only while
// the callback that received it is running; afterwards Read returns
// ErrEntryReleased. Header is a copy and stays valid.
type Entry struct {
	Header tar.Header

	r io.Reader
}

// Name returns the path of the entry as stored in the archive.
func (e *Entry) Name() string {
	return e.Header.Name
}

// Read reads the content of the entry.
func (e *Entry) Read(p []byte) (int, error) {
	if e.r == nil {
		return 0, ErrEntryReleased
	}
	return e.r.Read(p)
}

// release invalidates the entry once the callback returned.
func (e *Entry) release() {
	e.r = nil
}

// visitEntry hands the current entry of tr to fn and invalidates it afterwards.
func visitEntry(hdr *tar.Header, tr *tar.Reader, fn func(*Entry) error) error {
	e := &Entry{Header: *hdr, r: tr}
	defer e.release()
	return fn(e)
}
