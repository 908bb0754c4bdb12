// Package convert drives a single streaming conversion of a WordprocessingML
// body into LaTeX.
package convert

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/docx2tex/internal/latex"
	"github.com/dgallion1/docx2tex/internal/ooxml"
	"github.com/dgallion1/docx2tex/internal/peek"
	"github.com/dgallion1/docx2tex/internal/rels"
)

// NaryState tracks whether the n-ary construct being read declared its
// operator.
type NaryState int

const (
	// NaryNone means no m:naryPr is open.
	NaryNone NaryState = iota
	// NaryOpen means an m:naryPr is open and no operator has been seen.
	NaryOpen
	// NaryOperator means the open m:naryPr declared its operator.
	NaryOperator
)

func (s NaryState) String() string {
	switch s {
	case NaryNone:
		return "none"
	case NaryOpen:
		return "open"
	case NaryOperator:
		return "operator"
	}
	return fmt.Sprintf("NaryState(%d)", int(s))
}

// State is the mutable per-document conversion state.
type State struct {
	MathMode bool
	Nary     NaryState
}

// Stats counts what a conversion produced.
type Stats struct {
	Paragraphs int `json:"paragraphs"`
	Links      int `json:"links"`
	Images     int `json:"images"`
	Equations  int `json:"equations"`
	Skipped    int `json:"skipped_tags"`
	Unresolved int `json:"unresolved_relationships"`
	// Incomplete is set when the event source failed before the end of the
	// document. Output written up to that point is kept.
	Incomplete bool `json:"incomplete"`
}

// Options tune the emitted LaTeX.
type Options struct {
	// ImageWidth is the width given to \includegraphics. Defaults to
	// \textwidth.
	ImageWidth string
}

// Converter turns one document event stream into LaTeX. A Converter is not
// safe for concurrent use; build one per document.
type Converter struct {
	w      *bufio.Writer
	rels   rels.Map
	log    *slog.Logger
	opts   Options
	stack  peek.Stack[ooxml.Tag]
	cursor *ooxml.Cursor
	state  State
	stats  Stats

	// skipped holds the stack depth at which each unclassifiable element was
	// dropped, so its end event does not pop its parent.
	skipped []int
	err     error
}

// New returns a Converter writing to w and resolving relationships through
// relMap.
func New(w io.Writer, relMap rels.Map, log *slog.Logger, opts Options) *Converter {
	if opts.ImageWidth == "" {
		opts.ImageWidth = latex.DefaultImageWidth
	}
	c := &Converter{
		w:    bufio.NewWriter(w),
		rels: relMap,
		log:  log,
		opts: opts,
	}
	c.cursor = c.stack.Cursor()
	return c
}

// Convert reads document.xml from r and writes its LaTeX body to w.
func Convert(w io.Writer, r io.Reader, relMap rels.Map, log *slog.Logger, opts Options) (Stats, error) {
	c := New(w, relMap, log, opts)
	err := c.Run(ooxml.NewDecoderSource(r))
	return c.Stats(), err
}

// Run consumes src until the end of the document. A read error stops the
// conversion but is only logged: the output written so far stays valid and
// Stats reports the conversion as incomplete. Run returns an error only when
// the output cannot be written or an image target is unusable.
func (c *Converter) Run(src ooxml.Source) error {
loop:
	for c.err == nil {
		ev, err := src.Next()
		if err != nil {
			c.log.Error("read event", "error", err)
			c.stats.Incomplete = true
			break
		}
		switch ev.Kind {
		case ooxml.StartDocument:
			c.log.Debug("start document")
		case ooxml.EndDocument:
			c.log.Debug("end document")
			if last, ok := c.stack.Last(); ok {
				c.log.Warn("document ended with open tags", "depth", c.stack.Len(), "innermost", ooxml.TagName(last))
			}
			break loop
		default:
			c.handle(ev)
		}
	}

	if err := c.w.Flush(); err != nil && c.err == nil {
		c.err = fmt.Errorf("flush output: %w", err)
	}
	return c.err
}

// State returns the current conversion state.
func (c *Converter) State() State {
	return c.state
}

// Stats returns the counters collected so far.
func (c *Converter) Stats() Stats {
	return c.stats
}

func (c *Converter) handle(ev ooxml.Event) {
	switch ev.Kind {
	case ooxml.StartElement:
		c.log.Debug("start element", "tag", ev.Name.String())
		c.startElement(ev)
	case ooxml.EndElement:
		c.log.Debug("end element", "tag", ev.Name.String())
		c.endElement()
	case ooxml.Characters:
		c.log.Debug("characters", "text", ev.Text)
		c.stack.Push(ooxml.Content{Text: latex.Escape(ev.Text, c.state.MathMode)})
		c.process()
		c.stack.Pop()
	}
}

func (c *Converter) startElement(ev ooxml.Event) {
	tag, err := ooxml.Classify(ev.Name, ev.Attrs)
	if err != nil {
		c.skip(err)
		return
	}

	switch t := tag.(type) {
	case ooxml.Kind:
		c.open(t)
	case ooxml.MathChr:
		c.write(`\` + latex.NaryMacro(t.Value))
		c.sawOperator()
	case ooxml.BookmarkStart:
		if !ooxml.HasAnchor(ev.Attrs) {
			c.log.Warn("bookmark has no name", "tag", ev.Name.String())
		}
	case ooxml.Unknown:
		c.log.Debug("unknown tag", "tag", t.ID)
	}
	c.stack.Push(tag)
}

func (c *Converter) skip(err error) {
	c.stats.Skipped++
	c.skipped = append(c.skipped, c.stack.Len())

	var missing *ooxml.MissingAttributesError
	if !errors.As(err, &missing) {
		c.log.Error("classify tag", "error", err)
		return
	}
	c.log.Warn("skipping tag with missing attributes", "tag", missing.ID, "missing", missing.Missing)
	// An operator without a value still means the n-ary construct named one.
	if missing.ID == "m:chr" && c.state.Nary != NaryNone {
		c.sawOperator()
	}
}

// open writes the literal emitted when a structural tag opens and updates
// the math state.
func (c *Converter) open(k ooxml.Kind) {
	switch k {
	case ooxml.MathPara:
		if c.state.MathMode {
			c.log.Error("math paragraph opened while already in math mode")
		}
		c.state.MathMode = true
		c.stats.Equations++
		c.write("$$")
	case ooxml.Delim:
		c.write("(")
	case ooxml.Radical:
		c.write(`\sqrt`)
	case ooxml.Degree:
		c.write("[")
	case ooxml.Sub:
		c.write("_{")
	case ooxml.Sup:
		c.write("^{")
	case ooxml.Fraction:
		c.write(`\frac`)
	case ooxml.Num, ooxml.Den:
		c.write("{")
	case ooxml.NaryPr:
		if c.state.Nary != NaryNone {
			c.log.Error("nested n-ary properties", "state", c.state.Nary.String())
			return
		}
		c.state.Nary = NaryOpen
	}
}

func (c *Converter) sawOperator() {
	switch c.state.Nary {
	case NaryOpen:
		c.state.Nary = NaryOperator
	case NaryOperator:
		c.log.Error("n-ary properties declare more than one operator")
	}
}

func (c *Converter) endElement() {
	if n := len(c.skipped); n > 0 && c.skipped[n-1] == c.stack.Len() {
		c.skipped = c.skipped[:n-1]
		return
	}
	if c.stack.Len() == 0 {
		c.log.Warn("end element with empty context stack")
		return
	}
	c.process()
	c.stack.Pop()
}

// process emits whatever the top of the stack calls for. Structural patterns
// are tried first, most specific first; a hyperlink's text also looks like
// plain run text, so the order matters.
func (c *Converter) process() {
	if rel, ok := ooxml.MatchDrawing(c.cursor); ok {
		c.drawing(rel)
		return
	}
	if link, text, ok := ooxml.MatchHyperlink(c.cursor); ok {
		c.hyperlink(link, text)
		return
	}
	if text, ok := ooxml.MatchWordText(c.cursor); ok {
		c.write(text)
		return
	}
	if text, ok := ooxml.MatchMathText(c.cursor); ok {
		c.write(text)
		return
	}

	last, ok := c.stack.Last()
	if !ok {
		return
	}
	switch t := last.(type) {
	case ooxml.Kind:
		c.close(t)
	case ooxml.BookmarkStart:
		c.write(`\hypertarget{` + t.Anchor + `}{`)
	}
}

// close writes the literal emitted when a structural tag closes.
func (c *Converter) close(k ooxml.Kind) {
	switch k {
	case ooxml.Paragraph:
		c.write("\n")
		c.write("\n")
		c.stats.Paragraphs++
	case ooxml.Delim:
		c.write(")")
	case ooxml.MathPara:
		c.write("$$\n")
		if !c.state.MathMode {
			c.log.Error("math paragraph closed outside math mode")
		}
		c.state.MathMode = false
	case ooxml.Degree:
		c.write("]{")
	case ooxml.Sub, ooxml.Sup, ooxml.Num, ooxml.Den, ooxml.Radical, ooxml.BookmarkEnd:
		c.write("}")
	case ooxml.NaryPr:
		if c.state.Nary == NaryOpen {
			c.write(`\int`)
		}
		c.state.Nary = NaryNone
	}
}

func (c *Converter) hyperlink(link ooxml.Link, text string) {
	switch link.Kind {
	case ooxml.LinkAnchor:
		c.check(latex.Hyperlink(c.w, link.Value, text))
	case ooxml.LinkRelationship:
		url, ok := c.rels.Lookup(link.Value)
		if !ok {
			c.log.Warn("hyperlink relies on a missing relationship", "rel_id", link.Value)
			c.stats.Unresolved++
			c.write(text)
			return
		}
		c.check(latex.Href(c.w, url, text))
	}
	c.stats.Links++
}

func (c *Converter) drawing(rel string) {
	target, ok := c.rels.Lookup(rel)
	if !ok {
		c.log.Error("drawing relies on a missing relationship", "rel_id", rel)
		c.stats.Unresolved++
		return
	}
	if err := latex.IncludeGraphics(c.w, target, c.opts.ImageWidth); err != nil {
		c.check(fmt.Errorf("include graphics %s: %w", rel, err))
		return
	}
	c.stats.Images++
}

func (c *Converter) write(s string) {
	if c.err != nil {
		return
	}
	if _, err := c.w.WriteString(s); err != nil {
		c.err = fmt.Errorf("write output: %w", err)
	}
}

func (c *Converter) check(err error) {
	if err != nil && c.err == nil {
		c.err = err
	}
}
