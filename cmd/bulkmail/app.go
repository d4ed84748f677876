package main

import (
	"context"
	"fmt"
	"io"

	"github.com/bulkmail/bulkmail/internal/config"
	"github.com/bulkmail/bulkmail/internal/database"
	"github.com/bulkmail/bulkmail/internal/email"
	"github.com/bulkmail/bulkmail/internal/journal"
	"github.com/bulkmail/bulkmail/internal/logger"
	"github.com/bulkmail/bulkmail/internal/model"
	"github.com/bulkmail/bulkmail/internal/render"
	"github.com/bulkmail/bulkmail/internal/spreadsheet"
	"github.com/bulkmail/bulkmail/internal/store"
	"github.com/bulkmail/bulkmail/internal/workflow"
)

// app holds the wired collaborators of one command invocation
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	rdb     *database.Redis
	db      *database.Postgres
	closers []io.Closer
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, closer, err := logger.NewWithDir(cfg.Log.Level, cfg.Log.Format, cfg.Log.Dir)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log, closers: []io.Closer{closer}}, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

func (a *app) redis() (*database.Redis, error) {
	if a.rdb != nil {
		return a.rdb, nil
	}
	rdb, err := database.NewRedis(a.cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.rdb = rdb
	a.closers = append(a.closers, rdb)
	return rdb, nil
}

func (a *app) postgres() (*database.Postgres, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := database.NewPostgres(a.cfg.Journal.Database)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, db)
	return db, nil
}

func (a *app) store() (store.Store, error) {
	if a.cfg.Store.Secret == "" {
		a.log.Warn().Msg("store.secret is empty, remembered passwords are only obfuscated")
	}
	sealer := store.NewSealer(a.cfg.Store.Secret)

	switch a.cfg.Store.Driver {
	case "redis":
		rdb, err := a.redis()
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(rdb, a.cfg.Store.KeyPrefix, sealer), nil
	case "file", "":
		return store.NewFileStore(a.cfg.Store.Dir, sealer), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", a.cfg.Store.Driver)
	}
}

func (a *app) journal() (journal.Journal, error) {
	if !a.cfg.Journal.Enabled {
		return journal.Nop{}, nil
	}
	db, err := a.postgres()
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return journal.NewRepository(db), nil
}

func (a *app) transportFactory() workflow.TransportFactory {
	ec := a.cfg.Email
	return func(ctx context.Context, id model.Identity) (email.Transport, error) {
		switch ec.Provider {
		case "gmail":
			g, err := email.NewGmailSender(ctx, email.GmailConfig{
				CredentialsJSON: ec.Gmail.CredentialsJSON,
				ClientID:        ec.Gmail.ClientID,
				ClientSecret:    ec.Gmail.ClientSecret,
				RefreshToken:    ec.Gmail.RefreshToken,
				SenderName:      ec.Gmail.SenderName,
			}, email.FromAddress(id.Username, ec.Domain))
			if err != nil {
				return nil, err
			}
			return g, nil
		case "smtp", "":
			s, err := email.NewSMTPSender(email.SMTPConfig{
				Host:    ec.SMTP.Host,
				Port:    ec.SMTP.Port,
				TLS:     ec.SMTP.TLS,
				Auth:    ec.SMTP.Auth,
				Timeout: ec.SMTP.Timeout,
			}, id.Username, id.Password)
			if err != nil {
				return nil, err
			}
			return s, nil
		default:
			return nil, fmt.Errorf("unknown email provider: %s", ec.Provider)
		}
	}
}

func (a *app) ingestOptions() spreadsheet.Options {
	return spreadsheet.Options{
		Sheet:          a.cfg.Ingest.Sheet,
		EmailLabel:     a.cfg.Ingest.EmailLabel,
		SelectAllLabel: a.cfg.Ingest.SelectAllLabel,
	}
}

func (a *app) workflow(ctx context.Context) (*workflow.Workflow, store.Store, error) {
	s, err := a.store()
	if err != nil {
		return nil, nil, err
	}
	j, err := a.journal()
	if err != nil {
		return nil, nil, err
	}

	w, err := workflow.New(ctx, workflow.Options{
		Transport: a.transportFactory(),
		Store:     s,
		Journal:   j,
		Renderer:  render.New(a.cfg.Render.RemarkPrefix),
		Ingest:    a.ingestOptions(),
		Domain:    a.cfg.Email.Domain,
	}, a.log)
	if err != nil {
		return nil, nil, err
	}
	return w, s, nil
}

// login enters Ready with the flag credentials, falling back to the
// remembered identity for anything not given.
func (a *app) login(ctx context.Context, w *workflow.Workflow, username, password string, remember bool) error {
	id := w.RememberedIdentity()
	if username != "" && username != id.Username {
		id = model.Identity{Username: username}
	}
	if password != "" {
		id.Password = password
	}
	if remember {
		id.Remember = true
	}
	return w.Login(ctx, id)
}
