package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/LesleyGao/internship-tracker/internal/config"
	"github.com/LesleyGao/internship-tracker/internal/feed"
	"github.com/LesleyGao/internship-tracker/internal/reconcile"
	"github.com/LesleyGao/internship-tracker/internal/store"
)

// overridable in tests
var now = time.Now

// Report summarizes one run.
type Report struct {
	Parsed  int // listings parsed from the feed
	Prior   int // raw rows read from the store
	New     int // keys never seen before
	Carried int // keys with history carried forward
	Written int // rows appended
}

// Run executes one fetch/parse/reconcile/rewrite cycle against the given
// store. Strictly sequential; no partial state is written before the
// clear/append phase.
func Run(ctx context.Context, cfg config.Config, st store.Store, log zerolog.Logger) (Report, error) {
	var rep Report

	parser, err := feed.ForKind(cfg.Source.Kind)
	if err != nil {
		return rep, err
	}
	schema := parser.Schema()

	log.Info().Str("source", parser.Name()).Str("url", cfg.Source.URL).Msg("fetching feed")
	raw, err := feed.NewFetcher(cfg).Fetch(ctx)
	if err != nil {
		return rep, fmt.Errorf("fetch: %w", err)
	}

	// A structurally broken feed degrades to zero listings; the on_empty
	// policy decides below whether that stops the run.
	listings, err := parser.Parse(raw)
	if err != nil {
		log.Error().Err(err).Msg("feed did not parse, treating as zero listings")
		listings = nil
	}
	rep.Parsed = len(listings)
	log.Info().Int("listings", len(listings)).Msg("parsed feed")

	for i, l := range listings {
		if i >= 5 {
			break
		}
		log.Debug().Str("company", l.Company).Str("role", l.Role).Msg("sample listing")
	}

	if len(listings) == 0 {
		if cfg.Pipeline.OnEmpty == config.OnEmptyFail {
			return rep, errors.New("feed produced zero listings")
		}
		log.Warn().Msg("feed produced zero listings, store will be emptied")
	}

	// Prior history. A read failure means every listing counts as new; the
	// snapshot keeps the distinction visible.
	rawRows, readErr := st.ReadAllRows(ctx)
	prior := reconcile.FromRaw(rawRows, schema, readErr)
	if prior.Source == reconcile.SnapshotReadError {
		log.Warn().Err(prior.Err).Msg("store read failed, treating as no prior history")
	}
	rep.Prior = len(rawRows)

	today := now().Format("2006-01-02")
	rows := reconcile.Merge(listings, prior, today)

	known := make(map[string]bool, len(prior.Rows))
	for _, r := range prior.Rows {
		known[r.Key()] = true
	}
	for _, r := range rows {
		if known[r.Key()] {
			rep.Carried++
		} else {
			rep.New++
		}
	}

	// Rewrite phase. Failures from here on are fatal; a failure between
	// clear and append leaves the store cleared (documented risk).
	if err := st.EnsureHeader(ctx, schema.Header()); err != nil {
		return rep, fmt.Errorf("store header: %w", err)
	}
	if len(rawRows) > 0 {
		if err := st.ClearRows(ctx, 2, len(rawRows)); err != nil {
			return rep, fmt.Errorf("store clear: %w", err)
		}
	}

	encoded := make([][]string, 0, len(rows))
	for _, r := range rows {
		encoded = append(encoded, schema.Encode(r))
	}
	if err := st.AppendRows(ctx, encoded); err != nil {
		return rep, fmt.Errorf("store append: %w", err)
	}
	rep.Written = len(encoded)

	log.Info().
		Int("written", rep.Written).
		Int("new", rep.New).
		Int("carried", rep.Carried).
		Msg("snapshot updated")
	return rep, nil
}
