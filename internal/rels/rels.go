// Package rels reads OOXML relationship parts into a lookup table.
package rels

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Map resolves relationship ids to their targets (a URL or a package-relative
// path). It is not modified after Read returns and may be shared between
// conversions.
type Map map[string]string

// Lookup returns the target for id.
func (m Map) Lookup(id string) (string, bool) {
	target, ok := m[id]
	return target, ok
}

// IDs returns the relationship ids in sorted order.
func (m Map) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Relationships is the root element; anything else under it is reported.
var (
	entriesExpr   = xpath.MustCompile("/*[local-name()='Relationships']/*")
	rootExpr      = xpath.MustCompile("/*")
	relationLocal = "Relationship"
)

// Read parses a relationships part. Entries missing Id or Target are logged
// and dropped; a repeated Id replaces the earlier target.
func Read(r io.Reader, log *slog.Logger) (Map, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse relationships: %w", err)
	}

	root := xmlquery.QuerySelector(doc, rootExpr)
	if root == nil || root.Data != "Relationships" {
		return nil, fmt.Errorf("parse relationships: missing Relationships root element")
	}

	m := make(Map)
	count := 0
	for _, n := range xmlquery.QuerySelectorAll(doc, entriesExpr) {
		if n.Data != relationLocal {
			log.Warn("unknown entry in relationships", "element", n.Data)
			continue
		}
		count++

		id, hasID := attr(n, "Id")
		target, hasTarget := attr(n, "Target")
		switch {
		case !hasID && !hasTarget:
			log.Error("relationship is missing attributes", "index", count, "missing", []string{"Id", "Target"})
			continue
		case !hasID:
			log.Error("relationship is missing attributes", "index", count, "missing", []string{"Id"})
			continue
		case !hasTarget:
			log.Error("relationship is missing attributes", "index", count, "missing", []string{"Target"}, "id", id)
			continue
		}

		if prev, dup := m[id]; dup {
			log.Warn("duplicate relationship id", "id", id, "previous", prev, "target", target)
		}
		m[id] = target
	}
	log.Debug("read relationships", "entries", count, "resolved", len(m))
	return m, nil
}

func attr(n *xmlquery.Node, local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == local && a.Name.Space == "" {
			return a.Value, true
		}
	}
	return "", false
}
