// Package ooxml classifies WordprocessingML markup into semantic tags and
// recognises the structural shapes the LaTeX emitter cares about.
package ooxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// Name is a qualified XML name as written in the document. Namespace URIs are
// not resolved; classification only looks at the prefix.
type Name struct {
	Prefix string
	Local  string
}

// String returns the normalised "prefix:local" form. An empty prefix yields a
// leading colon.
func (n Name) String() string {
	return n.Prefix + ":" + n.Local
}

// Attr is a single attribute on a start element.
type Attr struct {
	Name  Name
	Value string
}

// EventKind identifies the type of an Event.
type EventKind int

const (
	StartDocument EventKind = iota
	StartElement
	EndElement
	Characters
	EndDocument
)

func (k EventKind) String() string {
	switch k {
	case StartDocument:
		return "StartDocument"
	case StartElement:
		return "StartElement"
	case EndElement:
		return "EndElement"
	case Characters:
		return "Characters"
	case EndDocument:
		return "EndDocument"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one item of the document event stream.
type Event struct {
	Kind  EventKind
	Name  Name   // StartElement, EndElement
	Attrs []Attr // StartElement
	Text  string // Characters
}

// Source produces document events in order. After EndDocument has been
// returned, further calls keep returning EndDocument.
type Source interface {
	Next() (Event, error)
}

// DecoderSource adapts an encoding/xml decoder to Source. It reads raw tokens
// so element and attribute prefixes are preserved as written.
type DecoderSource struct {
	dec     *xml.Decoder
	started bool
	done    bool
	open    []Name
}

// NewDecoderSource returns a Source reading XML from r. Documents declaring
// a non-UTF-8 encoding are transcoded.
func NewDecoderSource(r io.Reader) *DecoderSource {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	return &DecoderSource{dec: dec}
}

// Next returns the next event. A malformed document surfaces as an error at
// the point of failure.
func (s *DecoderSource) Next() (Event, error) {
	if !s.started {
		s.started = true
		return Event{Kind: StartDocument}, nil
	}
	if s.done {
		return Event{Kind: EndDocument}, nil
	}
	for {
		tok, err := s.dec.RawToken()
		if errors.Is(err, io.EOF) {
			if len(s.open) != 0 {
				return Event{}, fmt.Errorf("read token: %w", io.ErrUnexpectedEOF)
			}
			s.done = true
			return Event{Kind: EndDocument}, nil
		}
		if err != nil {
			return Event{}, fmt.Errorf("read token: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			ev := Event{Kind: StartElement, Name: rawName(t.Name)}
			s.open = append(s.open, ev.Name)
			if len(t.Attr) > 0 {
				ev.Attrs = make([]Attr, 0, len(t.Attr))
				for _, a := range t.Attr {
					ev.Attrs = append(ev.Attrs, Attr{Name: rawName(a.Name), Value: a.Value})
				}
			}
			return ev, nil
		case xml.EndElement:
			name := rawName(t.Name)
			if len(s.open) == 0 {
				return Event{}, fmt.Errorf("read token: unexpected end element %s", name)
			}
			// RawToken does not pair end tags with their start tags.
			if top := s.open[len(s.open)-1]; top != name {
				return Event{}, fmt.Errorf("read token: element <%s> closed by </%s>", top, name)
			}
			s.open = s.open[:len(s.open)-1]
			return Event{Kind: EndElement, Name: name}, nil
		case xml.CharData:
			if len(s.open) == 0 {
				// Whitespace around the root element.
				if len(bytes.TrimSpace(t)) == 0 {
					continue
				}
				return Event{}, fmt.Errorf("read token: character data outside root element")
			}
			return Event{Kind: Characters, Text: string(t)}, nil
		default:
			// Processing instructions, comments and directives carry no content.
			continue
		}
	}
}

// RawToken leaves the prefix in Space.
func rawName(n xml.Name) Name {
	return Name{Prefix: n.Space, Local: n.Local}
}
