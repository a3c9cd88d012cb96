package scraper

import (
	"fmt"
	"iter"
	"strings"

	"headlines/model"

	"github.com/PuerkitoBio/goquery"
)

const (
	blockSelector   = "article"
	summarySelector = "p.summary"
)

var _ Extractor = (*DOMExtractor)(nil)

// DOMExtractor reads one candidate out of every article block on the page.
type DOMExtractor struct{}

func NewDOMExtractor() *DOMExtractor {
	return &DOMExtractor{}
}

// Extract parses html once and returns a single-pass sequence of
// candidates in document order. Blocks without a title or link are still
// yielded; filtering is left to the store.
func (e *DOMExtractor) Extract(html string) (iter.Seq[model.Candidate], error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	blocks := doc.Find(blockSelector)
	consumed := false

	return func(yield func(model.Candidate) bool) {
		if consumed {
			return
		}
		consumed = true

		for i := range blocks.Length() {
			if !yield(candidateFromBlock(blocks.Eq(i))) {
				return
			}
		}
	}, nil
}

func candidateFromBlock(block *goquery.Selection) model.Candidate {
	anchor := block.Find("a").First()

	heading := firstText(block, "h2")
	anchorText := strings.TrimSpace(anchor.Text())
	subheading := firstText(block, "h3")

	var c model.Candidate
	c.Title = resolveTitle(heading, anchorText, subheading)
	if href, ok := anchor.Attr("href"); ok {
		c.Link = href
	}
	if summary := firstText(block, summarySelector); summary != "" {
		c.Summary = summary
	}
	return c
}

// resolveTitle prefers the link text over the h2 heading even when both
// are present, so a heading only survives when its block has no link text.
// The h3 is the last resort.
func resolveTitle(heading, anchorText, subheading string) string {
	if anchorText != "" {
		return anchorText
	}
	if heading != "" {
		return heading
	}
	return subheading
}

func firstText(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}
