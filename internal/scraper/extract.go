package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/AbigailEBurns/EarningsDateUpdater/internal/earnings"
	"github.com/AbigailEBurns/EarningsDateUpdater/pkg/contracts/domain"
)

// Extractor locates the top and bottom candidate elements in a rendered page
type Extractor struct {
	top    cascadia.Selector
	bottom cascadia.Selector
}

// NewExtractor compiles the two CSS selectors
func NewExtractor(topSelector, bottomSelector string) (*Extractor, error) {
	top, err := cascadia.Compile(topSelector)
	if err != nil {
		return nil, fmt.Errorf("invalid top selector %q: %w", topSelector, err)
	}
	bottom, err := cascadia.Compile(bottomSelector)
	if err != nil {
		return nil, fmt.Errorf("invalid bottom selector %q: %w", bottomSelector, err)
	}
	return &Extractor{top: top, bottom: bottom}, nil
}

// Extract parses html and returns the first date-looking substring of each
// candidate element. A missing element or one without a date yields "".
func (e *Extractor) Extract(html string) (domain.Candidates, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return domain.Candidates{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return domain.Candidates{
		Top:    candidateText(doc, e.top),
		Bottom: candidateText(doc, e.bottom),
	}, nil
}

func candidateText(doc *goquery.Document, sel cascadia.Selector) string {
	match := doc.FindMatcher(sel).First()
	if match.Length() == 0 {
		return ""
	}
	return earnings.ExtractDate(match.Text())
}
