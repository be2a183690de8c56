package feed

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LesleyGao/internship-tracker/internal/domain"
)

// UnknownDate is emitted when the feed's posting timestamp is absent or
// unparseable. It is a sentinel value, persisted as-is.
const UnknownDate = "Unknown"

// JSONParser handles the structured listings feed: a JSON array of posting
// objects with active/visibility flags and millisecond epoch posting dates.
type JSONParser struct{}

func (JSONParser) Name() string { return "json" }

func (JSONParser) Schema() domain.Schema { return domain.SchemaPostedDate }

type jsonListing struct {
	Active      bool     `json:"active"`
	IsVisible   *bool    `json:"is_visible"`
	CompanyName string   `json:"company_name"`
	Title       string   `json:"title"`
	Locations   []string `json:"locations"`
	URL         string   `json:"url"`
	DatePosted  rawepoch `json:"date_posted"`
}

// rawepoch keeps the date_posted field as text. The feed has shipped it both
// as a bare number and as a string; either way the value is validated later,
// so decoding must not reject the listing here.
type rawepoch string

func (r *rawepoch) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	*r = rawepoch(s)
	return nil
}

// Parse keeps listings that are active and not explicitly hidden (a missing
// is_visible counts as visible). A top-level shape mismatch fails the run;
// a single malformed listing is skipped.
func (JSONParser) Parse(raw []byte) ([]domain.Listing, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("feed is not a json array: %w", err)
	}

	out := make([]domain.Listing, 0, len(items))
	for _, item := range items {
		var l jsonListing
		if err := json.Unmarshal(item, &l); err != nil {
			continue
		}
		if !l.Active || (l.IsVisible != nil && !*l.IsVisible) {
			continue
		}

		out = append(out, domain.Listing{
			Company:          l.CompanyName,
			Role:             l.Title,
			Location:         formatLocations(l.Locations),
			Link:             l.URL,
			SourcePostedDate: postedDate(string(l.DatePosted)),
		})
	}
	return out, nil
}

// formatLocations shows at most three locations and folds the rest into a
// "+N more" suffix.
func formatLocations(locs []string) string {
	if len(locs) == 0 {
		return "Not specified"
	}
	n := len(locs)
	if n <= 3 {
		return strings.Join(locs, ", ")
	}
	return strings.Join(locs[:3], ", ") + fmt.Sprintf(" +%d more", n-3)
}

// postedDate converts a millisecond epoch to YYYY-MM-DD. Anything that does
// not parse becomes the Unknown sentinel rather than failing the run.
func postedDate(raw string) string {
	if raw == "" {
		return UnknownDate
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return UnknownDate
	}
	return time.Unix(ms/1000, 0).Format("2006-01-02")
}
