package mock

import (
	"context"
	"iter"
	"slices"

	"headlines/model"
	"headlines/scraper"
)

var _ scraper.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of scraper.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

var _ scraper.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of scraper.Extractor.
type Extractor struct {
	ExtractFn func(html string) (iter.Seq[model.Candidate], error)
}

func (e *Extractor) Extract(html string) (iter.Seq[model.Candidate], error) {
	return e.ExtractFn(html)
}

// Candidates returns an ExtractFn that yields the given candidates.
func Candidates(candidates ...model.Candidate) func(string) (iter.Seq[model.Candidate], error) {
	return func(string) (iter.Seq[model.Candidate], error) {
		return slices.Values(candidates), nil
	}
}
