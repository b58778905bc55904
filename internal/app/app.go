package app

import (
	"context"
	"fmt"
	"net/http"

	"parliament-interests/internal/config"
	"parliament-interests/internal/db"
	ingestdomain "parliament-interests/internal/domain/ingest"
	interestsdomain "parliament-interests/internal/domain/interests"
	membersdomain "parliament-interests/internal/domain/members"
	ingestrepo "parliament-interests/internal/repository/ingest"
	interestsrepo "parliament-interests/internal/repository/interests"
	membersrepo "parliament-interests/internal/repository/members"
	"parliament-interests/internal/transport/httpserver"
	"parliament-interests/internal/transport/httpserver/handler"
	"parliament-interests/internal/transport/mcp"
	"parliament-interests/internal/upstream"
	"parliament-interests/pkg/logger"
)

// Version is stamped at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

type App struct {
	cfg        config.Config
	log        logger.Logger
	store      *db.Store
	ingest     *ingestdomain.Service
	httpServer *http.Server
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg, log)
}

func NewWithConfig(cfg config.Config, log logger.Logger) (*App, error) {
	log.Info("app: initializing database", "driver", cfg.DB.Driver)
	store, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	membersService := membersdomain.NewService(
		membersrepo.NewGorm(store.DB),
		membersdomain.WithPaging(cfg.Search.DefaultTake, cfg.Search.MaxTake),
	)
	interestsService := interestsdomain.NewService(
		interestsrepo.NewGorm(store.DB),
		membersService,
		cfg.Search.DefaultTake,
		cfg.Search.MaxTake,
	)

	log.Info("app: initializing ingestion",
		"members_api", cfg.Upstream.MembersBaseURL,
		"interests_api", cfg.Upstream.InterestsBaseURL,
	)
	ingestService := ingestdomain.NewService(
		ingestrepo.NewGorm(store.DB),
		upstream.NewHTTPClient(upstream.SourceMembers, cfg.Upstream.MembersBaseURL, cfg.Upstream.Timeout),
		upstream.NewHTTPClient(upstream.SourceInterests, cfg.Upstream.InterestsBaseURL, cfg.Upstream.Timeout),
		ingestdomain.Options{BatchSize: cfg.Ingest.BatchSize, PageSize: cfg.Upstream.PageSize},
		log,
	)

	log.Info("app: initializing router")
	handlers := handler.New(membersService, interestsService, log)
	mcpServer := mcp.NewServer(membersService, interestsService, Version, log)
	router := httpserver.NewRouter(cfg, handlers, mcpServer)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		log:        log,
		store:      store,
		ingest:     ingestService,
		httpServer: srv,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// ShouldIngestOnStartup applies INGEST_ON_STARTUP. In auto mode a run is
// needed until one has completed successfully against this store.
func (a *App) ShouldIngestOnStartup(ctx context.Context) (bool, error) {
	switch a.cfg.Ingest.OnStartup {
	case config.IngestAlways:
		return true, nil
	case config.IngestNever:
		return false, nil
	}
	if a.store.Fresh {
		return true, nil
	}
	completed, err := a.ingest.Completed(ctx)
	if err != nil {
		return false, err
	}
	if !completed {
		a.log.Warn("app: no completed ingest recorded", "driver", a.cfg.DB.Driver)
	}
	return !completed, nil
}

// Ingest runs one full ingestion against the configured upstream APIs.
func (a *App) Ingest(ctx context.Context) (ingestdomain.RunResult, error) {
	result, err := a.ingest.Run(ctx)
	if err != nil {
		return result, fmt.Errorf("ingest: %w", err)
	}
	return result, nil
}

func (a *App) Close() error {
	return a.store.Close()
}
