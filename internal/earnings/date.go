package earnings

import (
	"regexp"
	"strings"
	"time"

	"github.com/AbigailEBurns/EarningsDateUpdater/pkg/contracts/domain"
)

// datePattern matches m/d/yy or m/d/yyyy inside free-form element text.
var datePattern = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{2,4})`)

// dateLayouts are tried in order; the 4-digit year must win over the 2-digit one.
var dateLayouts = []string{
	"1/2/2006",
	"1/2/06",
}

// ExtractDate returns the first date-looking substring of text, or "" when none is present.
func ExtractDate(text string) string {
	return datePattern.FindString(text)
}

// ParseDate converts a month/day/year string into a calendar date.
// It reports false for empty input or when no layout matches.
func ParseDate(raw string) (domain.Date, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Date{}, false
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return domain.NewDate(t), true
	}

	return domain.Date{}, false
}
