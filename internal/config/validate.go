package config

import (
	"errors"
	"fmt"
	"strings"
)

func Validate(cfg Config) error {
	var errs []string

	switch cfg.Source.Kind {
	case SourceJSON, SourceMarkdown:
	default:
		errs = append(errs, fmt.Sprintf("source.kind must be %q or %q", SourceJSON, SourceMarkdown))
	}
	if strings.TrimSpace(cfg.Source.URL) == "" {
		errs = append(errs, "source.url is required")
	}

	switch cfg.Store.Backend {
	case StoreSheets:
		if strings.TrimSpace(cfg.Store.SheetID) == "" {
			errs = append(errs, "store.sheet_id is required for the sheets backend (or set SHEET_ID)")
		}
	case StoreSQLite:
		if strings.TrimSpace(cfg.Store.SQLitePath) == "" {
			errs = append(errs, "store.sqlite_path is required for the sqlite backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.backend must be %q or %q", StoreSheets, StoreSQLite))
	}

	switch cfg.Pipeline.OnEmpty {
	case OnEmptyWarn, OnEmptyFail:
	default:
		errs = append(errs, fmt.Sprintf("pipeline.on_empty must be %q or %q", OnEmptyWarn, OnEmptyFail))
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
