// Package latex renders the LaTeX fragments produced while converting a
// WordprocessingML body.
package latex

import "strings"

var replacements = map[rune]string{
	'∞': `\infty `,
	'π': `\pi `,
	'&': `\& `,
	'%': `\% `,
	'$': `\$ `,
	'{': `\{ `,
	'#': `\# `,
	'}': `\} `,
	'~': `\~{} `,
	'_': `\_ `,
	'±': `\pm `,
	'∓': `\mp `,
}

// Escape makes text safe to place in LaTeX source. Each rune is handled on its
// own. Angle brackets are kept as-is inside math mode, where they are
// relations, and spelled out elsewhere.
func Escape(text string, mathMode bool) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if rep, ok := replacements[r]; ok {
			b.WriteString(rep)
			continue
		}
		switch {
		case r == '<' && !mathMode:
			b.WriteString(`\textless `)
		case r == '>' && !mathMode:
			b.WriteString(`\textgreater `)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
