// Package scraper fetches the news front page and pulls article summaries
// out of it.
package scraper

import (
	"context"
	"iter"

	"headlines/model"
)

// SourceURL is the only page ever scraped.
const SourceURL = "https://www.nytimes.com/"

// Fetcher retrieves raw HTML.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Extractor turns raw HTML into candidate articles.
type Extractor interface {
	Extract(html string) (iter.Seq[model.Candidate], error)
}
