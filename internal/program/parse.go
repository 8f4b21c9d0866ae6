// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package program extracts paper records from conference program listing
// pages. Each paper is announced by an anchor whose onclick handler calls
// viewAbstract('<id>'); authors are the author-index links around that
// anchor and the abstract lives in a hidden element with id "Ab<id>".
package program

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pdiddy/program-scraper/pkg/types"
)

// Defaults for the IROS 2025 program pages on papercept.
const (
	DefaultAbstractIDPrefix   = "Ab"
	DefaultAuthorIndexMarker  = "IROS25_AuthorIndexWeb.html"
	DefaultKeywordIndexMarker = "KeywordIndexWeb"
)

// maxAncestorLevels bounds the container search above a trigger anchor.
const maxAncestorLevels = 3

var triggerPattern = regexp.MustCompile(`viewAbstract\('(\d+)'\)`)

// DefaultParserConfig returns the markup conventions of the IROS 2025 pages.
func DefaultParserConfig() types.ParserConfig {
	return types.ParserConfig{
		AbstractIDPrefix:   DefaultAbstractIDPrefix,
		AuthorIndexMarker:  DefaultAuthorIndexMarker,
		KeywordIndexMarker: DefaultKeywordIndexMarker,
	}
}

// Parser turns program listing HTML into paper records.
type Parser struct {
	cfg types.ParserConfig
}

// NewParser returns a Parser. Empty fields in cfg take the IROS 2025 defaults.
func NewParser(cfg types.ParserConfig) *Parser {
	def := DefaultParserConfig()
	if cfg.AbstractIDPrefix == "" {
		cfg.AbstractIDPrefix = def.AbstractIDPrefix
	}
	if cfg.AuthorIndexMarker == "" {
		cfg.AuthorIndexMarker = def.AuthorIndexMarker
	}
	if cfg.KeywordIndexMarker == "" {
		cfg.KeywordIndexMarker = def.KeywordIndexMarker
	}
	return &Parser{cfg: cfg}
}

// Parse parses raw HTML and returns the records in document order.
func (p *Parser) Parse(text string) ([]types.PaperRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return p.ParseDocument(doc), nil
}

// ParseDocument extracts one record per anchor whose onclick attribute
// carries a viewAbstract id. Anchors without a parsable id are skipped;
// every other missing piece leaves its field empty.
func (p *Parser) ParseDocument(doc *goquery.Document) []types.PaperRecord {
	records := []types.PaperRecord{}

	doc.Find("a[onclick]").Each(func(_ int, a *goquery.Selection) {
		onclick, _ := a.Attr("onclick")
		id, ok := ExtractID(onclick)
		if !ok {
			return
		}

		rec := types.PaperRecord{
			ID:       id,
			Title:    collapse(a.Text()),
			Authors:  LinkTexts(ContainerScope(a), p.cfg.AuthorIndexMarker),
			Keywords: []string{},
		}

		if box := AbstractContainer(doc.Selection, p.cfg.AbstractIDPrefix, id); box != nil {
			rec.Abstract = BlockText(box)
			rec.Keywords = LinkTexts(box, p.cfg.KeywordIndexMarker)
		}

		records = append(records, rec)
	})

	return records
}

// ExtractID returns the quoted number from a viewAbstract('<digits>') call
// in trigger. The second result is false when trigger has no such call.
func ExtractID(trigger string) (string, bool) {
	m := triggerPattern.FindStringSubmatch(trigger)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ContainerScope returns the nearest li or div ancestor of anchor within
// three levels. When none is found the anchor itself is the scope.
func ContainerScope(anchor *goquery.Selection) *goquery.Selection {
	node := anchor
	for level := 0; level < maxAncestorLevels; level++ {
		node = node.Parent()
		if node.Length() == 0 {
			break
		}
		switch goquery.NodeName(node) {
		case "li", "div":
			return node
		}
	}
	return anchor
}

// AbstractContainer returns the first element under root whose id attribute
// equals prefix+id, or nil.
func AbstractContainer(root *goquery.Selection, prefix, id string) *goquery.Selection {
	key := prefix + id
	box := root.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == key
	}).First()
	if box.Length() == 0 {
		return nil
	}
	return box
}

// LinkTexts returns the collapsed text of every link below scope whose href
// contains marker, in document order. Repeated links are kept. The result is
// never nil.
func LinkTexts(scope *goquery.Selection, marker string) []string {
	texts := []string{}
	scope.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if strings.Contains(href, marker) {
			texts = append(texts, collapse(link.Text()))
		}
	})
	return texts
}

// BlockText returns the visible text of sel. Each text node is trimmed,
// empty ones are dropped, and the rest are joined with single spaces.
// Script and style content is not visible text.
func BlockText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := collapse(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

// collapse trims s and folds internal whitespace runs to one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
