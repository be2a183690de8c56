package domain

// Listing is a single internship posting as parsed from the feed this run.
// It carries no history; history lives on StoredRow.
type Listing struct {
	Company  string
	Role     string
	Location string
	Link     string

	// SourcePostedDate is the feed-reported posting date (YYYY-MM-DD or the
	// literal "Unknown"). Empty when the feed shape has no posting dates
	// (markdown tables).
	SourcePostedDate string
}

// Key is the identity of a posting across runs. Two listings with the same
// company and role are the same posting. No normalization is applied, so
// whitespace or casing drift in the feed splits history; legitimately
// distinct postings sharing both fields merge. Known limitation.
func (l Listing) Key() string {
	return l.Company + "_" + l.Role
}

// StoredRow is the persisted form of a listing, one per key.
type StoredRow struct {
	Company  string
	Role     string
	Location string
	Link     string

	// DateFirstAdded is the run date on which this key was first observed.
	// Never overwritten while the key persists.
	DateFirstAdded string

	// OriginalPostedDate is the feed-reported posting date captured the
	// first time the key was seen. Only present under SchemaPostedDate.
	OriginalPostedDate string

	// DateLastChecked is stamped with the run date on every run.
	DateLastChecked string
}

func (r StoredRow) Key() string {
	return r.Company + "_" + r.Role
}
