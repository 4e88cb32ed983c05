package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/haitaton/hanke-service/config"
	"github.com/haitaton/hanke-service/internal/allu"
	"github.com/haitaton/hanke-service/internal/application"
	"github.com/haitaton/hanke-service/internal/attachment"
	"github.com/haitaton/hanke-service/internal/auditlog"
	"github.com/haitaton/hanke-service/internal/geometry"
	"github.com/haitaton/hanke-service/internal/hanke/repository"
	hankeservice "github.com/haitaton/hanke-service/internal/hanke/service"
	"github.com/haitaton/hanke-service/internal/hanke/validation"
	"github.com/haitaton/hanke-service/internal/permissions"
	"github.com/haitaton/hanke-service/internal/search"
	"github.com/haitaton/hanke-service/internal/storage/postgres"
)

// Services is the wired application layer shared by the api and the worker.
type Services struct {
	Hankkeet     *hankeservice.Service
	Applications *application.Service
	Attachments  *attachment.Service
	Permissions  *permissions.Service
	Search       *search.Service
	Content      *attachment.ContentStore

	meili *search.Meili
}

func NewServices(cfg *config.Config, db *sql.DB, log *slog.Logger) (*Services, error) {
	alluClient := allu.NewClient(&cfg.Allu)
	perms := permissions.NewService(permissions.NewRepository(db), log.With("component", "permissions"))

	apps := application.NewService(application.NewRepository(db), alluClient, perms, log.With("component", "applications"))

	content, err := attachment.NewContentStore(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("attachment store: %w", err)
	}
	attachments := attachment.NewService(
		attachment.NewRepository(db),
		content,
		attachment.NewScanClient(&cfg.Scan),
		apps,
		alluClient,
		log.With("component", "attachments"),
	)
	apps.SetAttachmentSender(attachments)

	s := &Services{
		Applications: apps,
		Attachments:  attachments,
		Permissions:  perms,
		Content:      content,
	}

	// A nil *Meili must not reach the interface, the service checks for a nil indexer.
	var idx search.Indexer
	if cfg.Search.URL != "" {
		s.meili = search.NewMeili(cfg.Search.URL, cfg.Search.APIKey, log.With("component", "meili"))
		idx = s.meili
	}
	s.Search = search.NewService(idx, log.With("component", "search"))

	s.Hankkeet = hankeservice.NewService(hankeservice.Deps{
		Hankkeet:     repository.NewHankeRepository(db),
		Geometries:   geometry.NewRepository(db),
		Audit:        auditlog.NewRepository(db),
		Validator:    validation.NewPublicValidator(),
		Applications: apps,
		Tokens:       perms,
		Search:       s.Search,
		Tx:           postgres.NewTxManager(db),
	}, log.With("component", "hanke"))

	return s, nil
}

func (s *Services) Close() {
	if s.meili != nil {
		s.meili.Close()
	}
}
