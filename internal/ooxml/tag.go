package ooxml

import (
	"fmt"
	"strings"
)

// Tag is a classified element. The set of implementations is closed: Kind for
// payload-free structure, and Hyperlink, BookmarkStart, Blip, MathChr,
// Content and Unknown for tags that carry data.
type Tag interface {
	isTag()
}

// Kind identifies a structural tag that carries no payload.
type Kind int

const (
	Document Kind = iota
	Paragraph
	Run
	Text
	BookmarkEnd
	Drawing
	Inline
	Anchor
	Graphic
	GraphicData
	Picture
	BlipFill
	MathPara
	Math
	MathRun
	MathText
	Delim
	Radical
	Degree
	Sub
	Sup
	Nary
	NaryPr
	Fraction
	Func
	FuncName
	Num
	Den
)

var kindNames = map[Kind]string{
	Document:    "w:document",
	Paragraph:   "w:p",
	Run:         "w:r",
	Text:        "w:t",
	BookmarkEnd: "w:bookmarkEnd",
	Drawing:     "w:drawing",
	Inline:      "wp:inline",
	Anchor:      "wp:anchor",
	Graphic:     "a:graphic",
	GraphicData: "a:graphicData",
	Picture:     "pic:pic",
	BlipFill:    "pic:blipFill",
	MathPara:    "m:oMathPara",
	Math:        "m:oMath",
	MathRun:     "m:r",
	MathText:    "m:t",
	Delim:       "m:d",
	Radical:     "m:rad",
	Degree:      "m:deg",
	Sub:         "m:sub",
	Sup:         "m:sup",
	Nary:        "m:nary",
	NaryPr:      "m:naryPr",
	Fraction:    "m:f",
	Func:        "m:func",
	FuncName:    "m:fName",
	Num:         "m:num",
	Den:         "m:den",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

func (Kind) isTag() {}

// String returns the qualified element name the kind is classified from.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// LinkKind says how a hyperlink addresses its target.
type LinkKind int

const (
	// LinkAnchor points at a bookmark inside the document.
	LinkAnchor LinkKind = iota
	// LinkRelationship points at a relationship id resolved through the
	// package relationship table.
	LinkRelationship
)

// Link is the target of a w:hyperlink.
type Link struct {
	Kind  LinkKind
	Value string
}

func (l Link) String() string {
	if l.Kind == LinkAnchor {
		return "anchor:" + l.Value
	}
	return "rel:" + l.Value
}

// Hyperlink is a w:hyperlink element.
type Hyperlink struct {
	Link Link
}

// BookmarkStart is a w:bookmarkStart element.
type BookmarkStart struct {
	Anchor string
}

// Blip is an a:blip element referencing embedded image data.
type Blip struct {
	Rel string
}

// MathChr is an m:chr element naming an operator glyph.
type MathChr struct {
	Value string
}

// Content is character data between tags.
type Content struct {
	Text string
}

// Unknown is any element outside the recognised set.
type Unknown struct {
	ID string
}

func (Hyperlink) isTag()     {}
func (BookmarkStart) isTag() {}
func (Blip) isTag()          {}
func (MathChr) isTag()       {}
func (Content) isTag()       {}
func (Unknown) isTag()       {}

// MissingAttributesError reports a tag lacking attributes it cannot be
// classified without.
type MissingAttributesError struct {
	ID      string
	Missing []string
}

func (e *MissingAttributesError) Error() string {
	return fmt.Sprintf("tag %q is missing attributes %s", e.ID, strings.Join(e.Missing, ", "))
}

// Attribute names consulted during classification.
const (
	attrRelID   = "r:id"
	attrEmbed   = "r:embed"
	attrAnchor  = "w:anchor"
	attrName    = "w:name"
	attrMathVal = "m:val"
)

// Classify maps an element name and its attributes to a Tag. It fails with a
// *MissingAttributesError when a tag that needs an attribute to be emitted
// correctly does not have it. Unrecognised names classify as Unknown.
func Classify(name Name, attrs []Attr) (Tag, error) {
	id := name.String()
	if k, ok := kindsByName[id]; ok {
		return k, nil
	}

	switch id {
	case "w:hyperlink":
		if rel, ok := lookup(attrs, attrRelID); ok {
			return Hyperlink{Link: Link{Kind: LinkRelationship, Value: rel}}, nil
		}
		if anchor, ok := lookup(attrs, attrAnchor); ok {
			return Hyperlink{Link: Link{Kind: LinkAnchor, Value: anchor}}, nil
		}
		return nil, &MissingAttributesError{ID: id, Missing: []string{attrRelID, attrAnchor}}
	case "w:bookmarkStart":
		// w:anchor is authoritative. Word itself writes only w:name.
		if anchor, ok := lookup(attrs, attrAnchor); ok {
			return BookmarkStart{Anchor: anchor}, nil
		}
		anchor, _ := lookup(attrs, attrName)
		return BookmarkStart{Anchor: anchor}, nil
	case "a:blip":
		if rel, ok := lookup(attrs, attrEmbed); ok {
			return Blip{Rel: rel}, nil
		}
		return nil, &MissingAttributesError{ID: id, Missing: []string{attrEmbed}}
	case "m:chr":
		if val, ok := lookup(attrs, attrMathVal); ok {
			return MathChr{Value: val}, nil
		}
		return nil, &MissingAttributesError{ID: id, Missing: []string{attrMathVal}}
	}
	return Unknown{ID: id}, nil
}

// HasAnchor reports whether a w:bookmarkStart carries a name. Classify never
// fails for a nameless bookmark, so callers use this to warn about it.
func HasAnchor(attrs []Attr) bool {
	_, byName := lookup(attrs, attrName)
	_, byAnchor := lookup(attrs, attrAnchor)
	return byName || byAnchor
}

func lookup(attrs []Attr, qualified string) (string, bool) {
	for _, a := range attrs {
		if a.Name.String() == qualified {
			return a.Value, true
		}
	}
	return "", false
}

// TagName returns the qualified name or a short description of t for logs.
func TagName(t Tag) string {
	switch v := t.(type) {
	case Kind:
		return v.String()
	case Hyperlink:
		return "w:hyperlink"
	case BookmarkStart:
		return "w:bookmarkStart"
	case Blip:
		return "a:blip"
	case MathChr:
		return "m:chr"
	case Content:
		return "#text"
	case Unknown:
		return v.ID
	}
	return fmt.Sprintf("%T", t)
}
