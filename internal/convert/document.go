package convert

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/docx2tex/internal/docx"
	"github.com/dgallion1/docx2tex/internal/latex"
	"github.com/dgallion1/docx2tex/internal/rels"
)

// MediaDir is the directory, relative to the .tex file, that embedded media
// is written to.
const MediaDir = "media"

// Document converts a whole package into a standalone LaTeX file: preamble,
// converted body and closing environment.
func Document(w io.Writer, pkg *docx.Package, log *slog.Logger, opts Options) (Stats, error) {
	relMap, err := pkg.Relationships(log)
	if err != nil {
		return Stats{}, err
	}

	title, err := pkg.Title()
	if err != nil {
		log.Warn("read document title", "error", err)
		title = ""
	}

	meta := latex.Meta{Title: title}
	if len(pkg.Media()) > 0 {
		meta.GraphicsPath = MediaDir
	}
	if err := latex.WriteHeader(w, meta); err != nil {
		return Stats{}, fmt.Errorf("write preamble: %w", err)
	}

	stats, err := Body(w, pkg, relMap, log, opts)
	if err != nil {
		return stats, err
	}

	if err := latex.WriteFooter(w); err != nil {
		return stats, fmt.Errorf("write footer: %w", err)
	}
	return stats, nil
}

// Body converts the package's main document without any preamble.
// Relationships are read from the package when relMap is nil.
func Body(w io.Writer, pkg *docx.Package, relMap rels.Map, log *slog.Logger, opts Options) (Stats, error) {
	if relMap == nil {
		var err error
		if relMap, err = pkg.Relationships(log); err != nil {
			return Stats{}, err
		}
	}

	rc, err := pkg.DocumentXML()
	if err != nil {
		return Stats{}, err
	}
	defer rc.Close()

	return Convert(w, rc, relMap, log, opts)
}
