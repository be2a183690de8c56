package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/LesleyGao/internship-tracker/internal/config"
	"github.com/LesleyGao/internship-tracker/internal/feed"
	"github.com/LesleyGao/internship-tracker/internal/logger"
	"github.com/LesleyGao/internship-tracker/internal/pipeline"
	"github.com/LesleyGao/internship-tracker/internal/secrets"
	"github.com/LesleyGao/internship-tracker/internal/store"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "path to config.yml (default: <data-dir>/config.yml, created on first run)")
		dataDir  = flag.String("data-dir", defaultDataDir(), "directory for config and local store files")
		account  = flag.String("account", "default", "keyring account name for stored credentials")
		setCreds = flag.Bool("set-credentials", false, "read service-account JSON from stdin, store it in the OS keyring, and exit")
		delCreds = flag.Bool("delete-credentials", false, "remove stored service-account JSON from the OS keyring and exit")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logger.Init(*verbose)
	log := logger.Get()

	if *setCreds {
		blob, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal().Err(err).Msg("read credentials from stdin")
		}
		if err := secrets.SetServiceAccountJSON(*account, blob); err != nil {
			log.Fatal().Err(err).Msg("store credentials")
		}
		log.Info().Str("account", *account).Msg("credentials stored in keyring")
		return
	}
	if *delCreds {
		if err := secrets.DeleteServiceAccountJSON(*account); err != nil {
			log.Fatal().Err(err).Msg("delete credentials")
		}
		log.Info().Str("account", *account).Msg("credentials removed from keyring")
		return
	}

	path := *cfgPath
	if path == "" {
		var err error
		path, err = config.EnsureUserConfig(*dataDir)
		if err != nil {
			log.Fatal().Err(err).Msg("config bootstrap failed")
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("config load failed")
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	// Credentials are a startup concern: missing creds abort before any
	// network activity.
	var creds []byte
	if cfg.Store.Backend == config.StoreSheets {
		creds, err = secrets.ServiceAccountJSON(cfg.Credentials.KeyringAccount)
		if err != nil {
			log.Fatal().Err(err).Msg("credentials")
		}
	}

	parser, err := feed.ForKind(cfg.Source.Kind)
	if err != nil {
		log.Fatal().Err(err).Msg("source")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	st, err := store.New(ctx, cfg, parser.Schema(), creds)
	if err != nil {
		log.Fatal().Err(err).Msg("store open failed")
	}
	defer st.Close()

	rep, err := pipeline.Run(ctx, cfg, st, log)
	if err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
	log.Info().Int("written", rep.Written).Msg("done")
}

func defaultDataDir() string {
	if v := os.Getenv("TRACKER_DATA_DIR"); v != "" {
		return v
	}
	return "."
}
