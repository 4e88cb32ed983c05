// Package service runs the hanke lifecycle: create, update and delete with
// contact reconciliation, data-processing restrictions and audit logging.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/haitaton/hanke-service/internal/application"
	"github.com/haitaton/hanke-service/internal/auditlog"
	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/haitaton/hanke-service/internal/hanke/entity"
	"github.com/haitaton/hanke-service/internal/hanke/reconcile"
	"github.com/haitaton/hanke-service/internal/permissions"
	"github.com/haitaton/hanke-service/internal/storage/postgres"
)

type hankeStore interface {
	NextHankeTunnus(ctx context.Context) (string, error)
	FindByTunnus(ctx context.Context, hankeTunnus string) (*entity.Hanke, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*entity.Hanke, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Hanke, error)
	Save(ctx context.Context, h *entity.Hanke) error
	Delete(ctx context.Context, hankeID int) error
}

type geometryStore interface {
	Get(ctx context.Context, id int) (*domain.Geometries, error)
	Save(ctx context.Context, g *domain.Geometries, userID string) (*domain.Geometries, error)
}

// Scorer computes the traffic disturbance score of a hanke. A nil score means
// it could not be computed and the stored one is kept.
type Scorer interface {
	Calculate(ctx context.Context, h *domain.Hanke) (*domain.DisturbanceScore, error)
}

type validator interface {
	ValidateHankeHasMandatoryFields(h *domain.Hanke) domain.ValidationResult
}

type applications interface {
	ListByHanke(ctx context.Context, hankeTunnus string) ([]application.Application, error)
	IsStillPending(ctx context.Context, app *application.Application) (bool, error)
	Create(ctx context.Context, app application.Application, userID string) (*application.Application, error)
	Delete(ctx context.Context, id int64, userID string) error
}

type tokenIssuer interface {
	SaveNewTokensFromHanke(ctx context.Context, h *domain.Hanke) error
	SetPermission(ctx context.Context, hankeID int, userID string, role permissions.Role) error
}

type indexer interface {
	Sync(h *domain.Hanke)
	Remove(hankeTunnus string)
}

type txRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Deps struct {
	Hankkeet     hankeStore
	Geometries   geometryStore
	Audit        auditlog.Sink
	Validator    validator
	Applications applications
	Tokens       tokenIssuer
	Search       indexer
	Tx           txRunner
	Scorer       Scorer
}

type Service struct {
	Deps
	contacts *reconcile.ContactReconciler
	guard    *reconcile.RestrictionGuard
	log      *slog.Logger
	now      func() time.Time
}

func NewService(deps Deps, log *slog.Logger) *Service {
	return &Service{
		Deps:     deps,
		contacts: reconcile.NewContactReconciler(log),
		guard:    reconcile.NewRestrictionGuard(log),
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// HankeWithApplications is a hanke together with its hakemukset.
type HankeWithApplications struct {
	Hanke        *domain.Hanke             `json:"hanke"`
	Applications []application.Application `json:"applications"`
}

// Create stores a new hanke under a fresh hanketunnus. The creator gets full rights to it.
func (s *Service) Create(ctx context.Context, incoming *domain.Hanke, userID string) (*domain.Hanke, error) {
	var created *domain.Hanke
	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.create(ctx, incoming, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Search.Sync(created)
	return created, nil
}

// create runs inside the caller's transaction and leaves indexing to it.
func (s *Service) create(ctx context.Context, incoming *domain.Hanke, userID string) (*domain.Hanke, error) {
	tunnus, err := s.Hankkeet.NextHankeTunnus(ctx)
	if err != nil {
		return nil, err
	}
	incoming.HankeTunnus = tunnus

	e := &entity.Hanke{HankeTunnus: tunnus, Status: domain.StatusDraft}
	holder := auditlog.NewHolder(e.Contacts)

	if err := s.copyFields(ctx, incoming, e, userID); err != nil {
		return nil, err
	}
	if err := s.contacts.Reconcile(incoming, e, map[int]*entity.Contact{}, userID, holder); err != nil {
		return nil, err
	}

	version := 0
	now := s.now()
	e.Version = &version
	e.CreatedBy = &userID
	e.CreatedAt = &now
	e.ModifiedBy = nil
	e.ModifiedAt = nil

	created, err := s.persist(ctx, incoming, e, holder, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Tokens.SetPermission(ctx, *created.ID, userID, permissions.RoleAll); err != nil {
		return nil, err
	}
	if err := s.Tokens.SaveNewTokensFromHanke(ctx, created); err != nil {
		return nil, err
	}
	if err := s.logHankeCreate(ctx, created, userID); err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies incoming to the stored hanke with the same hanketunnus.
// Attempts to change or delete contacts under a processing restriction are
// recorded in the audit log and abort the update without changing anything.
func (s *Service) Update(ctx context.Context, incoming *domain.Hanke, userID string) (*domain.Hanke, error) {
	if incoming == nil || incoming.HankeTunnus == "" {
		return nil, domain.ArgumentError("hanke must have a hanketunnus")
	}

	var updated *domain.Hanke
	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		e, err := s.Hankkeet.FindByTunnus(ctx, incoming.HankeTunnus)
		if err != nil {
			return err
		}
		before, err := s.toDomain(ctx, e)
		if err != nil {
			return err
		}

		existing, err := reconcile.ExistingContacts(e)
		if err != nil {
			return err
		}
		if blocked := s.guard.Check(incoming, e, existing, userID); blocked != nil {
			// the failed attempts are committed in their own transaction and survive the rollback
			err := s.Tx.InTx(postgres.WithoutTx(ctx), func(ctx context.Context) error {
				return blocked.Flush(ctx, s.Audit)
			})
			if err != nil {
				return err
			}
			return &domain.ProcessingRestrictedError{ContactIDs: blocked.ObjectIDs()}
		}

		holder := auditlog.NewHolder(e.Contacts)
		if err := s.copyFields(ctx, incoming, e, userID); err != nil {
			return err
		}
		if err := s.contacts.Reconcile(incoming, e, existing, userID, holder); err != nil {
			return err
		}

		version := 1
		if e.Version != nil {
			version = *e.Version + 1
		}
		now := s.now()
		e.Version = &version
		e.ModifiedBy = &userID
		e.ModifiedAt = &now
		e.Generated = false

		if updated, err = s.persist(ctx, incoming, e, holder, userID); err != nil {
			return err
		}
		if err := s.Tokens.SaveNewTokensFromHanke(ctx, updated); err != nil {
			return err
		}
		return s.logHankeUpdate(ctx, before, updated, userID)
	})
	if err != nil {
		return nil, err
	}
	s.Search.Sync(updated)
	return updated, nil
}

// persist scores, decides the status, saves e and flushes the contact audit entries.
func (s *Service) persist(ctx context.Context, incoming *domain.Hanke, e *entity.Hanke, holder *auditlog.Holder, userID string) (*domain.Hanke, error) {
	if err := s.calculateScore(ctx, incoming, e); err != nil {
		return nil, err
	}
	status, err := s.decideStatus(ctx, e)
	if err != nil {
		return nil, err
	}
	e.Status = status

	s.log.Debug("saving hanke", "hanke_tunnus", e.HankeTunnus, "status", e.Status)
	if err := s.Hankkeet.Save(ctx, e); err != nil {
		return nil, err
	}

	holder.AddCreatedContacts(e.Contacts, userID)
	if err := holder.Flush(ctx, s.Audit); err != nil {
		return nil, err
	}
	return s.toDomain(ctx, e)
}

func (s *Service) calculateScore(ctx context.Context, incoming *domain.Hanke, e *entity.Hanke) error {
	if s.Scorer == nil {
		return nil
	}
	score, err := s.Scorer.Calculate(ctx, incoming)
	if err != nil {
		return err
	}
	if score != nil {
		e.Score = &entity.Score{Base: score.Base, Cycling: score.Cycling, PublicTransport: score.PublicTransport}
	}
	return nil
}

func (s *Service) decideStatus(ctx context.Context, e *entity.Hanke) (domain.Status, error) {
	d, err := s.toDomain(ctx, e)
	if err != nil {
		return "", err
	}
	result := s.Validator.ValidateHankeHasMandatoryFields(d)
	if !result.OK() && e.Status == domain.StatusDraft {
		s.log.Debug("hanke stays a draft, mandatory fields missing", "hanke_tunnus", e.HankeTunnus, "paths", result.Paths)
	}
	return domain.DecideStatus(e.Status, result, e.HankeTunnus)
}

// Delete removes a hanke and its applications. Applications Allu has started
// processing block the deletion.
func (s *Service) Delete(ctx context.Context, h *domain.Hanke, userID string) error {
	if h == nil || h.ID == nil {
		return domain.ArgumentError("hanke must have an id")
	}

	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		apps, err := s.Applications.ListByHanke(ctx, h.HankeTunnus)
		if err != nil {
			return err
		}
		for i := range apps {
			s.log.Info("checking hakemus before hanke delete", "application_id", apps[i].ID, "allu_status", apps[i].AlluStatus)
			pending, err := s.Applications.IsStillPending(ctx, &apps[i])
			if err != nil {
				return err
			}
			if !pending {
				return &domain.AlluConflictError{HankeTunnus: h.HankeTunnus}
			}
		}
		for _, app := range apps {
			if app.ID == nil {
				continue
			}
			if err := s.Applications.Delete(ctx, *app.ID, userID); err != nil {
				return err
			}
		}
		if err := s.Hankkeet.Delete(ctx, *h.ID); err != nil {
			return err
		}
		return s.logHankeDelete(ctx, h, userID)
	})
	if err != nil {
		return err
	}
	s.Search.Remove(h.HankeTunnus)
	return nil
}

// GenerateWithApplication creates a generated hanke for a cable report sent
// without one and stores the application under it. The sender gets full rights
// to the hanke through create.
func (s *Service) GenerateWithApplication(ctx context.Context, report application.CableReportWithoutHanke, userID string) (*HankeWithApplications, error) {
	var out *HankeWithApplications
	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		name := report.ApplicationData.Name
		h, err := s.create(ctx, &domain.Hanke{Name: &name, Status: domain.StatusDraft, Generated: true}, userID)
		if err != nil {
			return err
		}
		if h.HankeTunnus == "" || h.ID == nil {
			return domain.ArgumentError("hanke must have tunnus")
		}
		app, err := s.Applications.Create(ctx, report.ToNewApplication(h.HankeTunnus), userID)
		if err != nil {
			return err
		}
		out = &HankeWithApplications{Hanke: h, Applications: []application.Application{*app}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Search.Sync(out.Hanke)
	return out, nil
}
