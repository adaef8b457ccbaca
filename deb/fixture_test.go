package deb

import (
	"archive/tar"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/blakesmith/ar"
	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

var fixtureTime = time.Unix(1700000000, 0)

// tarEntry describes one entry of a test tar archive. A zero Type means a
// regular file.
type tarEntry struct {
	Name string
	Body string
	Type byte
	Mode int64
	Link string
}

// arMember is one member of a test .deb.
type arMember struct {
	Name string
	Body []byte
}

// buildTar writes entries as an uncompressed tar archive.
func buildTar(t *testing.T, entries ...tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		header := &tar.Header{
			Name:     e.Name,
			Typeflag: e.Type,
			Mode:     e.Mode,
			Linkname: e.Link,
			ModTime:  fixtureTime,
		}
		if header.Typeflag == 0 {
			header.Typeflag = tar.TypeReg
		}
		if header.Mode == 0 {
			header.Mode = 0644
		}
		if header.Typeflag == tar.TypeReg {
			header.Size = int64(len(e.Body))
		}
		if err := tw.WriteHeader(header); err != nil {
			t.Fatalf("writing tar header %s: %v", e.Name, err)
		}
		if header.Size > 0 {
			if _, err := tw.Write([]byte(e.Body)); err != nil {
				t.Fatalf("writing tar body %s: %v", e.Name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("closing tar: %v", err)
	}
	return buf.Bytes()
}

// compress compresses data with c.
func compress(t *testing.T, c Compression, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var (
		w   io.Writer
		end func() error
	)
	switch c {
	case CompressionNone:
		return data
	case CompressionGzip:
		gw := gzip.NewWriter(&buf)
		w, end = gw, gw.Close
	case CompressionXz:
		xw, err := xz.NewWriter(&buf)
		if err != nil {
			t.Fatal(err)
		}
		w, end = xw, xw.Close
	case CompressionZstd:
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatal(err)
		}
		w, end = zw, zw.Close
	case CompressionBzip2:
		bw, err := bzip2.NewWriter(&buf, nil)
		if err != nil {
			t.Fatal(err)
		}
		w, end = bw, bw.Close
	case CompressionLzma:
		lw, err := lzma.NewWriter(&buf)
		if err != nil {
			t.Fatal(err)
		}
		w, end = lw, lw.Close
	default:
		t.Fatalf("unknown compression %q", c)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("compressing with %q: %v", c, err)
	}
	if err := end(); err != nil {
		t.Fatalf("closing %q writer: %v", c, err)
	}
	return buf.Bytes()
}

// memberName returns the ar member name for a tar archive with the given prefix
// ("control.tar" or "data.tar") compressed with c.
func memberName(prefix string, c Compression) string {
	if c == CompressionNone {
		return prefix
	}
	return prefix + "." + string(c)
}

// tarMember builds a member named prefix+compression holding entries.
func tarMember(t *testing.T, prefix string, c Compression, entries ...tarEntry) arMember {
	t.Helper()
	return arMember{
		Name: memberName(prefix, c),
		Body: compress(t, c, buildTar(t, entries...)),
	}
}

// buildDeb assembles members into an ar archive.
func buildDeb(t *testing.T, members ...arMember) []byte {
	t.Helper()
	var buf bytes.Buffer
	arW := ar.NewWriter(&buf)
	if err := arW.WriteGlobalHeader(); err != nil {
		t.Fatalf("writing ar global header: %v", err)
	}
	for _, m := range members {
		header := &ar.Header{
			Name:    m.Name,
			Size:    int64(len(m.Body)),
			Mode:    0644,
			ModTime: fixtureTime,
		}
		if err := arW.WriteHeader(header); err != nil {
			t.Fatalf("writing ar header %s: %v", m.Name, err)
		}
		// A single Write so that the writer pads odd sizes.
		if _, err := arW.Write(m.Body); err != nil {
			t.Fatalf("writing ar member %s: %v", m.Name, err)
		}
	}
	return buf.Bytes()
}

func debianBinary() arMember {
	return arMember{Name: string(MemberDebianBinary), Body: []byte("2.0\n")}
}

// standardDeb returns a canonical package: debian-binary, control.tar.gz with
// the given control text (and conffiles when not empty), data.tar.xz with files.
func standardDeb(t *testing.T, control, conffiles string, files ...tarEntry) []byte {
	t.Helper()
	controlEntries := []tarEntry{
		{Name: "./", Type: tar.TypeDir, Mode: 0755},
		{Name: string(EntryControl), Body: control},
	}
	if conffiles != "" {
		controlEntries = append(controlEntries, tarEntry{Name: string(EntryConffiles), Body: conffiles})
	}
	controlEntries = append(controlEntries, tarEntry{Name: "./md5sums", Body: "d41d8cd98f00b204e9800998ecf8427e  usr/bin/hello\n"})

	return buildDeb(t,
		debianBinary(),
		tarMember(t, memberControlPrefix, CompressionGzip, controlEntries...),
		tarMember(t, memberDataPrefix, CompressionXz, files...),
	)
}

// sampleFiles is a small payload with a directory, a regular file, a conffile
// and a symlink.
var sampleFiles = []tarEntry{
	{Name: "./", Type: tar.TypeDir, Mode: 0755},
	{Name: "./usr/", Type: tar.TypeDir, Mode: 0755},
	{Name: "./usr/bin/", Type: tar.TypeDir, Mode: 0755},
	{Name: "./usr/bin/hello", Body: "#!/bin/sh\necho hello\n", Mode: 0755},
	{Name: "./etc/", Type: tar.TypeDir, Mode: 0755},
	{Name: "./etc/hello.conf", Body: "greeting=hello\n"},
	{Name: "./usr/bin/hi", Type: tar.TypeSymlink, Link: "hello", Mode: 0777},
}

const sampleControl = "Package: hello\nVersion: 1.0-2\nArchitecture: amd64\nMaintainer: Jane <jane@example.com>\nDescription: greets\n the world\nDepends: libc6, bash (>= 5)\nInstalled-Size: 12\nBugs: mailto:bugs@example.com\n"

// recorder is a Visitor recording every callback.
type recorder struct {
	controls  []map[string]string
	conffiles []string
	files     []string
	bodies    map[string]string
}

func (r *recorder) VisitControl(fields map[string]string) error {
	r.controls = append(r.controls, fields)
	return nil
}

func (r *recorder) VisitConffiles(e *Entry) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(e); err != nil {
		return err
	}
	r.conffiles = append(r.conffiles, buf.String())
	return nil
}

func (r *recorder) VisitFile(e *Entry) error {
	r.files = append(r.files, e.Name())
	if e.Header.Typeflag == tar.TypeReg {
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(e); err != nil {
			return err
		}
		if r.bodies == nil {
			r.bodies = make(map[string]string)
		}
		r.bodies[e.Name()] = buf.String()
	}
	return nil
}
