package ingest

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/cognicore/nptag/pkg/nptag/frontmatter"
)

// Doc is a markdown document split into header and body
type Doc struct {
	Path   string
	Header *frontmatter.Header
	Body   string
	Raw    []byte      // file content as read
	Mode   fs.FileMode // permission bits, kept on rewrite
}

// ReadDoc reads and splits the document at path. Parse failures wrap
// internalerr.ErrMalformedDocument.
func ReadDoc(path string) (*Doc, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	header, body, err := frontmatter.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Doc{
		Path:   path,
		Header: header,
		Body:   body,
		Raw:    raw,
		Mode:   info.Mode().Perm(),
	}, nil
}

// Sentences returns the candidate sentences stored under fields.
func (d *Doc) Sentences(fields []string) []string {
	return d.Header.Sentences(fields)
}

// Render returns the document with its current header.
func (d *Doc) Render() ([]byte, error) {
	return frontmatter.Render(d.Header, d.Body)
}
