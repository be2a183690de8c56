package domain

// Schema describes the column layout a store carries. Feeds that report
// posting dates persist seven columns; feeds that don't persist six. The two
// layouts are not row-compatible and must not share a store.
type Schema int

const (
	// SchemaCompact: company, role, location, link, date_added, date_last_checked.
	SchemaCompact Schema = iota
	// SchemaPostedDate: company, role, location, link, date_added,
	// original_posted_date, date_last_checked.
	SchemaPostedDate
)

func (s Schema) Columns() int {
	if s == SchemaPostedDate {
		return 7
	}
	return 6
}

func (s Schema) Header() []string {
	if s == SchemaPostedDate {
		return []string{"Company", "Role", "Location", "Link", "Date Added", "Original Posted Date", "Last Checked"}
	}
	return []string{"Company", "Role", "Location", "Link", "Date Added", "Last Checked"}
}

func (s Schema) Encode(r StoredRow) []string {
	if s == SchemaPostedDate {
		return []string{r.Company, r.Role, r.Location, r.Link, r.DateFirstAdded, r.OriginalPostedDate, r.DateLastChecked}
	}
	return []string{r.Company, r.Role, r.Location, r.Link, r.DateFirstAdded, r.DateLastChecked}
}

// Decode rebuilds a StoredRow from raw cells. Short rows are tolerated: a row
// counts as long as it has a company and a role, and missing trailing cells
// decode as empty. Rows without both identity cells return ok=false and are
// skipped by callers.
func (s Schema) Decode(cells []string) (StoredRow, bool) {
	get := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}
	r := StoredRow{
		Company:        get(0),
		Role:           get(1),
		Location:       get(2),
		Link:           get(3),
		DateFirstAdded: get(4),
	}
	if r.Company == "" || r.Role == "" {
		return StoredRow{}, false
	}
	if s == SchemaPostedDate {
		r.OriginalPostedDate = get(5)
		r.DateLastChecked = get(6)
	} else {
		r.DateLastChecked = get(5)
	}
	return r, true
}
