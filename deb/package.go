package deb

import (
	"archive/tar"
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Package summarizes a Debian binary package: its metadata, its conffiles and
// the list of payload entries.
type Package struct {
	Metadata Metadata

	// Fields holds the control fields exactly as parsed.
	Fields map[string]string

	// Conffiles lists the configuration files declared in the control archive.
	Conffiles []string

	// Files lists the data archive entries in archive order.
	Files []File
}

// Metadata maps the fields of the Debian 'control' file.
//
// Reference: https://www.debian.org/doc/debian-policy/ch-controlfields.html#binary-package-control-files-debian-control
type Metadata struct {
	Package      string
	Version      string
	Architecture string
	Maintainer   string
	Description  string
	Section      string
	Priority     string
	Homepage     string
	Essential    bool

	// InstalledSize is the estimated disk usage in kilobytes, 0 when absent or
	// not a number.
	InstalledSize int64

	// Relationship fields, split on commas.
	//
	// Reference: https://www.debian.org/doc/debian-policy/ch-relationships.html
	Depends    []string
	PreDepends []string
	Recommends []string
	Suggests   []string
	Enhances   []string
	Conflicts  []string
	Breaks     []string
	Replaces   []string
	Provides   []string

	BuiltUsing string
	Source     string

	// ExtraFields holds the fields that have no dedicated member, e.g. "Bugs".
	ExtraFields map[string]string
}

// File describes one entry of the data archive.
type File struct {
	// DestPath is the absolute path on the target system (e.g., "/usr/bin/app").
	DestPath string

	// Type is the tar type flag (tar.TypeReg, tar.TypeDir, tar.TypeSymlink, ...).
	Type byte

	Mode int64
	Size int64

	// LinkTarget is the target of symlinks and hard links.
	LinkTarget string

	ModTime time.Time

	// SHA256 is the hex digest of the content of regular files, empty otherwise.
	SHA256 string

	// IsConf is true when the file is listed in conffiles.
	IsConf bool
}

// StandardFilename returns the canonical filename for the package.
// Format: {Package}_{Version}_{Architecture}.deb
//
// Reference: https://www.debian.org/doc/manuals/debian-faq/ch-pkg_basics.en.html#s-pkgname
func (p *Package) StandardFilename() string {
	return fmt.Sprintf("%s_%s_%s.deb", p.Metadata.Package, p.Metadata.Version, p.Metadata.Architecture)
}

// UpstreamVersion returns the upstream part of the version (everything before the last hyphen).
func (p *Package) UpstreamVersion() string {
	v := p.Metadata.Version
	lastHyphen := strings.LastIndex(v, "-")
	if lastHyphen == -1 {
		return v
	}
	return v[:lastHyphen]
}

// Iteration returns the debian revision part of the version (everything after the last hyphen).
func (p *Package) Iteration() string {
	v := p.Metadata.Version
	lastHyphen := strings.LastIndex(v, "-")
	if lastHyphen == -1 {
		return ""
	}
	return v[lastHyphen+1:]
}

// Set updates a specific field in the package's control metadata.
func (m *Metadata) Set(key, value string) {
	switch ControlField(key) {
	case FieldPackage:
		m.Package = value
	case FieldVersion:
		m.Version = value
	case FieldArchitecture:
		m.Architecture = value
	case FieldMaintainer:
		m.Maintainer = value
	case FieldDescription:
		m.Description = value
	case FieldSection:
		m.Section = value
	case FieldPriority:
		m.Priority = value
	case FieldHomepage:
		m.Homepage = value
	case FieldEssential:
		m.Essential = (value == "yes")
	case FieldInstalledSize:
		m.InstalledSize, _ = strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	case FieldDepends:
		m.Depends = splitList(value)
	case FieldPreDepends:
		m.PreDepends = splitList(value)
	case FieldRecommends:
		m.Recommends = splitList(value)
	case FieldSuggests:
		m.Suggests = splitList(value)
	case FieldEnhances:
		m.Enhances = splitList(value)
	case FieldConflicts:
		m.Conflicts = splitList(value)
	case FieldBreaks:
		m.Breaks = splitList(value)
	case FieldReplaces:
		m.Replaces = splitList(value)
	case FieldProvides:
		m.Provides = splitList(value)
	case FieldBuiltUsing:
		m.BuiltUsing = value
	case FieldSource:
		m.Source = value
	default:
		if m.ExtraFields == nil {
			m.ExtraFields = make(map[string]string)
		}
		m.ExtraFields[key] = value
	}
}

// splitList splits a comma-separated string into a slice of strings, trimming whitespace from each element.
// It returns nil if the input string is empty.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var res []string
	for _, p := range parts {
		res = append(res, strings.TrimSpace(p))
	}
	return res
}

// Inspect walks the .deb package from r and returns its summary. Regular files
// are hashed while streaming; their content is not kept.
func Inspect(r io.Reader, opts ...Option) (*Package, error) {
	c := &collector{
		pkg: &Package{
			Metadata: Metadata{ExtraFields: make(map[string]string)},
		},
	}
	if err := Walk(r, c, opts...); err != nil {
		return nil, err
	}

	if len(c.pkg.Conffiles) > 0 {
		confSet := make(map[string]bool, len(c.pkg.Conffiles))
		for _, cf := range c.pkg.Conffiles {
			confSet[cf] = true
		}
		for i := range c.pkg.Files {
			if confSet[c.pkg.Files[i].DestPath] {
				c.pkg.Files[i].IsConf = true
			}
		}
	}
	return c.pkg, nil
}

// collector is the Visitor behind Inspect.
type collector struct {
	pkg *Package
}

func (c *collector) VisitControl(fields map[string]string) error {
	c.pkg.Fields = fields
	for k, v := range fields {
		c.pkg.Metadata.Set(k, v)
	}
	return nil
}

func (c *collector) VisitConffiles(e *Entry) error {
	s := bufio.NewScanner(e)
	for s.Scan() {
		if line := strings.TrimSpace(s.Text()); line != "" {
			c.pkg.Conffiles = append(c.pkg.Conffiles, line)
		}
	}
	return s.Err()
}

func (c *collector) VisitFile(e *Entry) error {
	f := File{
		DestPath:   destPath(e.Name()),
		Type:       e.Header.Typeflag,
		Mode:       e.Header.Mode,
		Size:       e.Header.Size,
		LinkTarget: e.Header.Linkname,
		ModTime:    e.Header.ModTime,
	}
	if f.Type == tar.TypeReg {
		h := sha256.New()
		if _, err := io.Copy(h, e); err != nil {
			return fmt.Errorf("hashing %s: %w", e.Name(), err)
		}
		f.SHA256 = hex.EncodeToString(h.Sum(nil))
	}
	c.pkg.Files = append(c.pkg.Files, f)
	return nil
}

// destPath turns a data archive path ("./usr/bin/app") into the installed path
// ("/usr/bin/app").
func destPath(name string) string {
	p := "/" + strings.TrimPrefix(name, "./")
	return strings.ReplaceAll(p, "//", "/")
}
