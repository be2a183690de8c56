package reconcile

import (
	"github.com/LesleyGao/internship-tracker/internal/domain"
)

// SnapshotSource says where the prior rows came from, so "genuinely empty
// store" and "read failed" stay distinguishable at the boundary. Current
// policy treats both as no prior history.
type SnapshotSource int

const (
	SnapshotOK SnapshotSource = iota
	SnapshotEmpty
	SnapshotReadError
)

// Snapshot is the prior state of the store, read once at the start of a run.
type Snapshot struct {
	Rows   []domain.StoredRow
	Source SnapshotSource
	Err    error // set when Source == SnapshotReadError
}

// FromRaw decodes raw store rows into a Snapshot. A read error degrades to an
// empty snapshot tagged with the error; rows missing their identity cells are
// dropped during decode.
func FromRaw(rows [][]string, schema domain.Schema, readErr error) Snapshot {
	if readErr != nil {
		return Snapshot{Source: SnapshotReadError, Err: readErr}
	}
	if len(rows) == 0 {
		return Snapshot{Source: SnapshotEmpty}
	}

	out := make([]domain.StoredRow, 0, len(rows))
	for _, cells := range rows {
		if r, ok := schema.Decode(cells); ok {
			out = append(out, r)
		}
	}
	return Snapshot{Rows: out, Source: SnapshotOK}
}

// Merge produces the next snapshot from the fresh listings and the prior one.
// Pure transform: the caller persists the result.
//
// Per key (company_role): a key seen before keeps its date_first_added and
// original_posted_date from the prior snapshot; a new key is stamped with the
// run date, seeding original_posted_date from the feed when the feed reports
// one. date_last_checked is the run date on every row. Output order follows
// the fresh listings; prior keys absent from the fetch drop out.
func Merge(fresh []domain.Listing, prior Snapshot, today string) []domain.StoredRow {
	// Last occurrence wins on duplicate prior keys.
	prev := make(map[string]domain.StoredRow, len(prior.Rows))
	for _, r := range prior.Rows {
		prev[r.Key()] = r
	}

	out := make([]domain.StoredRow, 0, len(fresh))
	for _, l := range fresh {
		row := domain.StoredRow{
			Company:         l.Company,
			Role:            l.Role,
			Location:        l.Location,
			Link:            l.Link,
			DateLastChecked: today,
		}
		if p, ok := prev[l.Key()]; ok {
			row.DateFirstAdded = p.DateFirstAdded
			row.OriginalPostedDate = p.OriginalPostedDate
		} else {
			row.DateFirstAdded = today
			row.OriginalPostedDate = l.SourcePostedDate
			if row.OriginalPostedDate == "" {
				row.OriginalPostedDate = today
			}
		}
		out = append(out, row)
	}
	return out
}
