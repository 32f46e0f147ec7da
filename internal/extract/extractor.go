package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"archivedoc/internal/model"
)

// ErrNoContent is returned when a page has no body region to extract.
// Callers treat it as "nothing to add": the page contributes no blocks
// and no links, and the crawl continues.
var ErrNoContent = errors.New("no content: page has no body region")

// Extractor turns raw page bytes into content blocks.
// It holds only configuration; extraction itself is stateless.
type Extractor struct {
	// bannerSelectors are CSS selectors for archive-injected chrome
	// removed from every page before anything else happens.
	bannerSelectors []string
}

// New creates an Extractor that strips elements matching the given
// selectors before processing.
func New(bannerSelectors ...string) *Extractor {
	return &Extractor{bannerSelectors: bannerSelectors}
}

// Body isolates the page's body region with the archive banner removed.
// The raw bytes are decoded according to the response charset first;
// archived pages frequently predate UTF-8 ubiquity.
func (e *Extractor) Body(page *model.Page) (*goquery.Selection, error) {
	reader, err := charset.NewReader(bytes.NewReader(page.Raw), page.ContentType)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", page.URL, err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", page.URL, err)
	}

	// Required pre-filter: the toolbar differs per snapshot and would
	// make byte-identical content fingerprint as distinct.
	for _, sel := range e.bannerSelectors {
		doc.Find(sel).Remove()
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return nil, ErrNoContent
	}

	return body, nil
}

// Fingerprint returns the raw serialized HTML of the body region.
// Byte-identical bodies reached via different URLs produce identical
// fingerprints.
func (e *Extractor) Fingerprint(body *goquery.Selection) string {
	s, err := goquery.OuterHtml(body)
	if err != nil {
		return ""
	}
	return s
}

// Blocks decomposes the body's direct structural children into ordered
// content blocks. Each block is followed by a Spacer for visual
// separation in the rendered document.
func (e *Extractor) Blocks(body *goquery.Selection) []model.Block {
	var blocks []model.Block

	body.Children().Each(func(_ int, s *goquery.Selection) {
		switch name := goquery.NodeName(s); name {
		case "h1", "h2", "h3", "h4":
			blocks = append(blocks,
				model.Heading{Level: int(name[1] - '0'), Text: strings.TrimSpace(s.Text())},
				model.Spacer{},
			)

		case "p":
			blocks = append(blocks, paragraph(s), model.Spacer{})

		case "ul", "ol":
			blocks = append(blocks, list(s, name == "ol"), model.Spacer{})
		}
	})

	return blocks
}

// paragraph classifies a <p> element's immediate children into runs.
// Text nodes become plain runs; <strong>/<b> children become bold runs;
// <em>/<i> children become italic runs. A run carries exactly one style:
// this is a single-pass classification, not style composition, so nested
// combinations are not represented.
func paragraph(s *goquery.Selection) model.Paragraph {
	var runs []model.Run

	for node := s.Get(0).FirstChild; node != nil; node = node.NextSibling {
		switch node.Type {
		case html.TextNode:
			runs = append(runs, model.Run{Text: node.Data})
		case html.ElementNode:
			switch node.Data {
			case "strong", "b":
				runs = append(runs, model.Run{Text: nodeText(node), Bold: true})
			case "em", "i":
				runs = append(runs, model.Run{Text: nodeText(node), Italic: true})
			}
		}
	}

	return model.Paragraph{Runs: runs}
}

// list collects the trimmed text of a list's direct <li> children.
func list(s *goquery.Selection, ordered bool) model.List {
	var items []string
	s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		items = append(items, strings.TrimSpace(li.Text()))
	})
	return model.List{Ordered: ordered, Items: items}
}

// nodeText concatenates the trimmed text of all text descendants.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// Links returns the href of every anchor in the body, in document order.
// The body has already had the banner removed, so archive-toolbar links
// never reach the crawl engine.
func (e *Extractor) Links(body *goquery.Selection) []string {
	var links []string
	body.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})
	return links
}
