package feed

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/LesleyGao/internship-tracker/internal/domain"
)

// MarkdownParser handles feeds published as a README-style pipe table with
// Company / Role / Location columns. Cells mix plain text, markdown links,
// and raw HTML anchors.
type MarkdownParser struct{}

func (MarkdownParser) Name() string { return "markdown" }

func (MarkdownParser) Schema() domain.Schema { return domain.SchemaCompact }

var (
	mdLink     = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	mdLinkText = regexp.MustCompile(`\[([^\]]*)\]`)
)

// Parse scans for the header line, then the dashed separator, then reads data
// rows until the first empty or non-pipe line. A document with no such table
// parses to zero listings; the caller decides whether that is a problem.
func (MarkdownParser) Parse(raw []byte) ([]domain.Listing, error) {
	var (
		headerFound    bool
		separatorFound bool
		out            []domain.Listing
	)

	for _, line := range strings.Split(string(raw), "\n") {
		if !headerFound {
			if strings.Contains(line, "Company") && strings.Contains(line, "Role") && strings.Contains(line, "Location") {
				headerFound = true
			}
			continue
		}
		if !separatorFound {
			if strings.Contains(line, "---") {
				separatorFound = true
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.HasPrefix(trimmed, "|") {
			break
		}
		if l, ok := parseTableRow(trimmed); ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func parseTableRow(line string) (domain.Listing, bool) {
	var cells []string
	for _, c := range strings.Split(line, "|") {
		c = strings.TrimSpace(c)
		if c != "" {
			cells = append(cells, c)
		}
	}
	if len(cells) < 3 {
		return domain.Listing{}, false
	}

	company, companyLink := cellLink(cells[0])
	if company == "" {
		company = cells[0]
		companyLink = ""
	}

	role := cells[1]
	if m := mdLink.FindStringSubmatch(role); m != nil {
		role = strings.TrimSpace(m[1])
	} else if m := mdLinkText.FindStringSubmatch(role); m != nil {
		role = strings.TrimSpace(m[1])
	}

	location, appLink := cellLink(cells[2])
	if location == "" {
		location = cells[2]
		appLink = ""
	}

	link := appLink
	if link == "" {
		link = companyLink
	}

	if company == "" || isNonDataToken(company) {
		return domain.Listing{}, false
	}

	return domain.Listing{
		Company:  company,
		Role:     role,
		Location: location,
		Link:     link,
	}, true
}

// cellLink extracts display text and href from a linked cell. Markdown links
// first; raw HTML anchors (which some feeds embed) via goquery. Returns empty
// display when the cell is plain text.
func cellLink(cell string) (display, href string) {
	if m := mdLink.FindStringSubmatch(cell); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	if strings.Contains(cell, "<a") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(cell))
		if err != nil {
			return "", ""
		}
		a := doc.Find("a").First()
		if a.Length() > 0 {
			h, _ := a.Attr("href")
			return cleanText(a.Text()), strings.TrimSpace(h)
		}
	}
	return "", ""
}

// isNonDataToken filters rows the table format produces that aren't postings
// (stray header repeats, separator fragments).
func isNonDataToken(company string) bool {
	switch strings.ToLower(company) {
	case "company", "---":
		return true
	}
	return false
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}
