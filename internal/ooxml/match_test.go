package ooxml

import (
	"testing"

	"github.com/dgallion1/docx2tex/internal/peek"
)

func TestMatchHyperlink(t *testing.T) {
	var s peek.Stack[Tag]
	c := s.Cursor()
	if _, _, ok := MatchHyperlink(c); ok {
		t.Fatal("expected no match on empty stack")
	}

	s.Push(Hyperlink{Link: Link{Kind: LinkAnchor, Value: "Anchor"}})
	if _, _, ok := MatchHyperlink(c); ok {
		t.Error("expected no match with hyperlink only")
	}

	s.Push(Run)
	if _, _, ok := MatchHyperlink(c); ok {
		t.Error("expected no match without text node")
	}

	s.Push(Content{Text: "Content"})
	if _, _, ok := MatchHyperlink(c); ok {
		t.Error("expected no match for content directly in run")
	}

	s.Pop()
	s.Push(Text)
	if _, _, ok := MatchHyperlink(c); ok {
		t.Error("expected no match without content")
	}

	s.Push(Content{Text: "Content"})
	link, text, ok := MatchHyperlink(c)
	if !ok {
		t.Fatal("expected match")
	}
	if link != (Link{Kind: LinkAnchor, Value: "Anchor"}) {
		t.Errorf("expected anchor link, got %v", link)
	}
	if text != "Content" {
		t.Errorf("expected %q, got %q", "Content", text)
	}

	// Matching again from a used cursor gives the same result.
	if _, _, ok := MatchHyperlink(c); !ok {
		t.Error("expected repeated match")
	}
}

func TestMatchHyperlink_RunOutsideHyperlink(t *testing.T) {
	var s peek.Stack[Tag]
	for _, tag := range []Tag{Paragraph, Run, Text, Content{Text: "x"}} {
		s.Push(tag)
	}
	if _, _, ok := MatchHyperlink(s.Cursor()); ok {
		t.Error("expected no hyperlink match for plain run")
	}
	if text, ok := MatchWordText(s.Cursor()); !ok || text != "x" {
		t.Errorf("expected word text %q, got %q (ok=%v)", "x", text, ok)
	}
}

func drawingChain(wrapper Kind) []Tag {
	return []Tag{Drawing, wrapper, Graphic, GraphicData, Picture, BlipFill, Blip{Rel: "RelId"}}
}

func TestMatchDrawing(t *testing.T) {
	for _, wrapper := range []Kind{Inline, Anchor} {
		var s peek.Stack[Tag]
		c := s.Cursor()
		chain := drawingChain(wrapper)
		for i, tag := range chain {
			s.Push(tag)
			_, ok := MatchDrawing(c)
			if want := i == len(chain)-1; ok != want {
				t.Errorf("%v: after pushing %d frames expected match=%v, got %v", wrapper, i+1, want, ok)
			}
		}
		rel, ok := MatchDrawing(c)
		if !ok || rel != "RelId" {
			t.Errorf("%v: expected rel %q, got %q (ok=%v)", wrapper, "RelId", rel, ok)
		}

		for s.Len() > 0 {
			s.Pop()
			if _, ok := MatchDrawing(c); ok {
				t.Errorf("%v: expected no match with %d frames", wrapper, s.Len())
			}
		}
	}
}

func TestMatchDrawing_WrongFrame(t *testing.T) {
	chain := drawingChain(Inline)
	for i := 0; i < len(chain)-1; i++ {
		var s peek.Stack[Tag]
		for j, tag := range chain {
			if j == i {
				tag = Run
			}
			s.Push(tag)
		}
		if _, ok := MatchDrawing(s.Cursor()); ok {
			t.Errorf("expected no match with frame %d replaced", i)
		}
	}
}

func TestMatchDrawing_DeeperStack(t *testing.T) {
	var s peek.Stack[Tag]
	s.Push(Document)
	s.Push(Paragraph)
	s.Push(Run)
	for _, tag := range drawingChain(Anchor) {
		s.Push(tag)
	}
	if rel, ok := MatchDrawing(s.Cursor()); !ok || rel != "RelId" {
		t.Errorf("expected rel %q, got %q (ok=%v)", "RelId", rel, ok)
	}
}

func TestMatchWordText(t *testing.T) {
	var s peek.Stack[Tag]
	c := s.Cursor()
	if _, ok := MatchWordText(c); ok {
		t.Fatal("expected no match on empty stack")
	}

	s.Push(Run)
	s.Push(Content{Text: "Content"})
	if _, ok := MatchWordText(c); ok {
		t.Error("expected no match for content directly in run")
	}

	s.Pop()
	s.Push(Text)
	if _, ok := MatchWordText(c); ok {
		t.Error("expected no match without content")
	}

	s.Push(Content{Text: "Content"})
	text, ok := MatchWordText(c)
	if !ok || text != "Content" {
		t.Errorf("expected %q, got %q (ok=%v)", "Content", text, ok)
	}
}

func TestMatchMathText(t *testing.T) {
	var s peek.Stack[Tag]
	c := s.Cursor()

	s.Push(MathRun)
	s.Push(Content{Text: "x"})
	if _, ok := MatchMathText(c); ok {
		t.Error("expected no match for content directly in math run")
	}

	s.Pop()
	s.Push(MathText)
	s.Push(Content{Text: "x"})
	text, ok := MatchMathText(c)
	if !ok || text != "x" {
		t.Errorf("expected %q, got %q (ok=%v)", "x", text, ok)
	}

	// Word text nodes inside a math run do not count.
	var w peek.Stack[Tag]
	w.Push(MathRun)
	w.Push(Text)
	w.Push(Content{Text: "x"})
	if _, ok := MatchMathText(w.Cursor()); ok {
		t.Error("expected no match for w:t inside m:r")
	}
}
