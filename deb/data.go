package deb

import (
	"archive/tar"
	"fmt"
	"io"
)

// extractData hands every entry of the data member to the visitor, in archive
// order and without filtering on the entry type.
func (w *walker) extractData(member string, c Compression, src io.Reader) error {
	zr, err := c.reader(src)
	if err != nil {
		return err
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	var count int
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return innerArchiveError(member, err)
		}
		count++
		if err := visitEntry(hdr, tr, w.visitor.VisitFile); err != nil {
			return fmt.Errorf("visiting %s in %s: %w", hdr.Name, member, err)
		}
	}
	w.log.Debug("data walked", "member", member, "entries", count)
	return nil
}
