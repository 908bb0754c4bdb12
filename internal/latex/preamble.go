package latex

import (
	"fmt"
	"io"
)

// Meta describes the standalone document wrapped around a converted body.
type Meta struct {
	Title        string
	GraphicsPath string // directory holding copied media, relative to the .tex file
}

// WriteHeader writes the preamble and opens the document environment.
func WriteHeader(w io.Writer, meta Meta) error {
	ew := &errWriter{w: w}
	ew.printf("\\documentclass{article}\n")
	ew.printf("\\usepackage[utf8]{inputenc}\n")
	ew.printf("\\usepackage{amsmath}\n")
	ew.printf("\\usepackage{amssymb}\n")
	ew.printf("\\usepackage{graphicx}\n")
	ew.printf("\\usepackage{hyperref}\n")
	if meta.GraphicsPath != "" {
		ew.printf("\\graphicspath{{%s/}}\n", meta.GraphicsPath)
	}
	if meta.Title != "" {
		ew.printf("\\title{%s}\n", Escape(meta.Title, false))
		ew.printf("\\date{}\n")
	}
	ew.printf("\n\\begin{document}\n")
	if meta.Title != "" {
		ew.printf("\\maketitle\n")
	}
	ew.printf("\n")
	return ew.err
}

// WriteFooter closes the document environment.
func WriteFooter(w io.Writer) error {
	_, err := io.WriteString(w, "\n\\end{document}\n")
	return err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
