// Package docx gives access to the parts of a .docx package that the
// converter reads: the main document, its relationships and embedded media.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	godocx "github.com/fumiama/go-docx"

	"github.com/dgallion1/docx2tex/internal/rels"
)

const (
	documentPart = "word/document.xml"
	relsPart     = "word/_rels/document.xml.rels"
	mediaPrefix  = "word/media/"
)

// ErrMissingPart is returned when a required part is absent from the package.
var ErrMissingPart = errors.New("missing package part")

// Package is an opened .docx archive.
type Package struct {
	zr     *zip.Reader
	ra     io.ReaderAt
	size   int64
	closer io.Closer
}

// Open opens the .docx file at name. The caller must Close it.
func Open(name string) (*Package, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat docx: %w", err)
	}
	p, err := NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	p.closer = f
	return p, nil
}

// NewReader reads a package of the given size from r.
func NewReader(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read docx archive: %w", err)
	}
	return &Package{zr: zr, ra: r, size: size}, nil
}

// Bytes reads a package held in memory.
func Bytes(data []byte) (*Package, error) {
	return NewReader(bytes.NewReader(data), int64(len(data)))
}

// Close releases the underlying file when the package was opened by Open.
func (p *Package) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

func (p *Package) file(name string) *zip.File {
	for _, f := range p.zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// DocumentXML opens word/document.xml.
func (p *Package) DocumentXML() (io.ReadCloser, error) {
	f := p.file(documentPart)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, documentPart)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", documentPart, err)
	}
	return rc, nil
}

// Relationships reads the main document's relationship map. A package
// without relationships yields an empty map.
func (p *Package) Relationships(log *slog.Logger) (rels.Map, error) {
	f := p.file(relsPart)
	if f == nil {
		log.Warn("docx has no document relationships", "part", relsPart)
		return rels.Map{}, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", relsPart, err)
	}
	defer rc.Close()
	return rels.Read(rc, log)
}

// Media returns the names of the embedded media files, relative to
// word/media/, in sorted order.
func (p *Package) Media() []string {
	var names []string
	for _, f := range p.zr.File {
		if name, ok := mediaName(f); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// EachMedia calls fn with the name and contents of every embedded media
// file. Iteration stops at the first error.
func (p *Package) EachMedia(fn func(name string, r io.Reader) error) error {
	for _, f := range p.zr.File {
		name, ok := mediaName(f)
		if !ok {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open media %s: %w", name, err)
		}
		err = fn(name, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// CopyMedia writes every embedded media file into dir, creating it if
// needed, and returns how many files were written.
func (p *Package) CopyMedia(dir string) (int, error) {
	if len(p.Media()) == 0 {
		return 0, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create media dir: %w", err)
	}
	n := 0
	err := p.EachMedia(func(name string, r io.Reader) error {
		out, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("create media file: %w", err)
		}
		if _, err := io.Copy(out, r); err != nil {
			out.Close()
			return fmt.Errorf("write media %s: %w", name, err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("close media %s: %w", name, err)
		}
		n++
		return nil
	})
	return n, err
}

// mediaName returns the flat file name of a media entry. Nested entries and
// names that would escape the target directory are ignored.
func mediaName(f *zip.File) (string, bool) {
	if !strings.HasPrefix(f.Name, mediaPrefix) || f.FileInfo().IsDir() {
		return "", false
	}
	name := strings.TrimPrefix(f.Name, mediaPrefix)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", false
	}
	return name, true
}

// Title returns the text of the first paragraph styled Title, or failing
// that the first Heading 1. It returns "" when neither exists.
func (p *Package) Title() (string, error) {
	doc, err := godocx.Parse(p.ra, p.size)
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var heading string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*godocx.Paragraph)
		if !ok {
			continue
		}
		style := paragraphStyle(para)
		if style == "" {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		switch {
		case strings.EqualFold(style, "Title"):
			return text, nil
		case heading == "" && (strings.EqualFold(style, "Heading1") || strings.EqualFold(style, "heading 1")):
			heading = text
		}
	}
	return heading, nil
}

func paragraphStyle(para *godocx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

func paragraphText(para *godocx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*godocx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*godocx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// Stem returns the file name of a .docx path without its extension.
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}
