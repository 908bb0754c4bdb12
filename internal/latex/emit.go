package latex

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// DefaultImageWidth is the width given to every included graphic.
const DefaultImageWidth = `\textwidth`

// ErrNoFileStem is returned when a relationship resolves to a target from
// which no file name can be taken.
var ErrNoFileStem = errors.New("relationship target has no file stem")

// ErrBadImageWidth is returned for a width that would break out of the
// \includegraphics option list.
var ErrBadImageWidth = errors.New("image width must not contain brackets or braces")

// CheckImageWidth reports whether width can be placed in
// \includegraphics[width=...].
func CheckImageWidth(width string) error {
	if strings.ContainsAny(width, "[]{}") {
		return fmt.Errorf("%w: %q", ErrBadImageWidth, width)
	}
	return nil
}

var naryMacros = map[string]string{
	"⋀": "bigwedge",
	"⋁": "bigvee",
	"⋂": "bigcap",
	"⋃": "bigcup",
	"∐": "coprod",
	"∏": "prod",
	"∑": "sum",
	"∮": "oint",
}

// NaryMacro returns the macro name for an n-ary operator glyph, or "" when the
// glyph has none.
func NaryMacro(glyph string) string {
	return naryMacros[glyph]
}

// Hyperlink writes a link to an internal anchor.
func Hyperlink(w io.Writer, anchor, content string) error {
	_, err := fmt.Fprintf(w, `\hyperlink{%s}{%s}`, anchor, content)
	return err
}

// Href writes a link to an external URL.
func Href(w io.Writer, url, content string) error {
	_, err := fmt.Fprintf(w, `\href{%s}{%s}`, url, content)
	return err
}

// IncludeGraphics writes an \includegraphics for target scaled to width. The
// graphic is referenced by file stem so LaTeX picks the extension.
func IncludeGraphics(w io.Writer, target, width string) error {
	stem, err := FileStem(target)
	if err != nil {
		return err
	}
	if width == "" {
		width = DefaultImageWidth
	}
	_, err = fmt.Fprintf(w, `\includegraphics[width=%s]{%s}`, width, stem)
	return err
}

// FileStem returns the final path element of target without its extension.
// A leading dot does not start an extension.
func FileStem(target string) (string, error) {
	clean := strings.TrimRight(strings.ReplaceAll(target, `\`, "/"), "/")
	base := path.Base(clean)
	switch base {
	case "", ".", "..", "/":
		return "", fmt.Errorf("%w: %q", ErrNoFileStem, target)
	}
	ext := path.Ext(base)
	if ext == base {
		return base, nil
	}
	return strings.TrimSuffix(base, ext), nil
}
