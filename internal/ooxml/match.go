package ooxml

import "github.com/dgallion1/docx2tex/internal/peek"

// Cursor is the read-only view the matchers walk.
type Cursor = peek.Cursor[Tag]

// The matchers below look back from the top of the stack. Each one resets
// the cursor, then requires every peeked frame to have the expected shape;
// a single mismatch discards the whole match.

// MatchDrawing matches an image reference embedded in a drawing:
//
//	w:drawing > (wp:inline | wp:anchor) > a:graphic > a:graphicData > pic:pic > pic:blipFill > a:blip
//
// and returns the relationship id of the image.
func MatchDrawing(c *Cursor) (string, bool) {
	c.Reset()
	blip, ok := next[Blip](c)
	if !ok {
		return "", false
	}
	if !expect(c, BlipFill) ||
		!expect(c, Picture) ||
		!expect(c, GraphicData) ||
		!expect(c, Graphic) ||
		!expect(c, Inline, Anchor) ||
		!expect(c, Drawing) {
		return "", false
	}
	return blip.Rel, true
}

// MatchHyperlink matches text inside a run inside a hyperlink:
//
//	w:hyperlink > w:r > w:t > #text
func MatchHyperlink(c *Cursor) (Link, string, bool) {
	c.Reset()
	content, ok := next[Content](c)
	if !ok || !expect(c, Text) || !expect(c, Run) {
		return Link{}, "", false
	}
	link, ok := next[Hyperlink](c)
	if !ok {
		return Link{}, "", false
	}
	return link.Link, content.Text, true
}

// MatchWordText matches text inside a run:
//
//	w:r > w:t > #text
func MatchWordText(c *Cursor) (string, bool) {
	c.Reset()
	content, ok := next[Content](c)
	if !ok || !expect(c, Text) || !expect(c, Run) {
		return "", false
	}
	return content.Text, true
}

// MatchMathText matches text inside a math run:
//
//	m:r > m:t > #text
func MatchMathText(c *Cursor) (string, bool) {
	c.Reset()
	content, ok := next[Content](c)
	if !ok || !expect(c, MathText) || !expect(c, MathRun) {
		return "", false
	}
	return content.Text, true
}

// next peeks one frame and requires it to be a T.
func next[T Tag](c *Cursor) (T, bool) {
	var zero T
	tag, ok := c.Peek()
	if !ok {
		return zero, false
	}
	v, ok := tag.(T)
	return v, ok
}

// expect peeks one frame and requires it to be one of kinds.
func expect(c *Cursor, kinds ...Kind) bool {
	k, ok := next[Kind](c)
	if !ok {
		return false
	}
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}
