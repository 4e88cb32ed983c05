package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/haitaton/hanke-service/internal/allu"
	"github.com/haitaton/hanke-service/internal/permissions"
)

type store interface {
	HankeID(ctx context.Context, hankeTunnus string) (int, error)
	FindByID(ctx context.Context, id int64) (*Application, error)
	ListByHanke(ctx context.Context, hankeTunnus string) ([]Application, error)
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	Create(ctx context.Context, hankeID int, app *Application) error
	Update(ctx context.Context, app *Application) error
	Delete(ctx context.Context, id int64) error
	ListAlluIDs(ctx context.Context) ([]int, error)
	UpdateAlluStatus(ctx context.Context, alluID int, status allu.ApplicationStatus, identifier string) (bool, error)
	HistoryLastUpdated(ctx context.Context) (time.Time, error)
	SetHistoryLastUpdated(ctx context.Context, t time.Time) error
}

// AlluClient is the part of the Allu API the application service needs.
type AlluClient interface {
	Create(ctx context.Context, data allu.CableReportApplicationData) (int, error)
	Update(ctx context.Context, alluID int, data allu.CableReportApplicationData) error
	Cancel(ctx context.Context, alluID int) error
	ApplicationInformation(ctx context.Context, alluID int) (*allu.ApplicationResponse, error)
	ApplicationStatusHistories(ctx context.Context, alluIDs []int, after time.Time) ([]allu.ApplicationHistory, error)
}

type tokenIssuer interface {
	SaveNewTokens(ctx context.Context, hankeID int, people []permissions.Person) error
}

// AttachmentSender forwards attachments added before the application reached Allu.
type AttachmentSender interface {
	SendInitialAttachments(ctx context.Context, alluID int, applicationID int64) error
}

type Service struct {
	repo        store
	allu        AlluClient
	tokens      tokenIssuer
	attachments AttachmentSender
	log         *slog.Logger
	now         func() time.Time
}

func NewService(repo store, alluClient AlluClient, tokens tokenIssuer, log *slog.Logger) *Service {
	return &Service{repo: repo, allu: alluClient, tokens: tokens, log: log, now: time.Now}
}

// SetAttachmentSender wires the attachment service, which itself depends on applications.
func (s *Service) SetAttachmentSender(sender AttachmentSender) {
	s.attachments = sender
}

// HankeID resolves the id of the hanke an application belongs to.
func (s *Service) HankeID(ctx context.Context, hankeTunnus string) (int, error) {
	return s.repo.HankeID(ctx, hankeTunnus)
}

func (s *Service) Get(ctx context.Context, id int64) (*Application, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) ListByHanke(ctx context.Context, hankeTunnus string) ([]Application, error) {
	return s.repo.ListByHanke(ctx, hankeTunnus)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	return s.repo.ListByUser(ctx, userID)
}

// IsStillPending reports whether Allu has not started processing the
// application. Applications not yet sent are always pending. When the stored
// status says pending, Allu is asked for the current one.
func (s *Service) IsStillPending(ctx context.Context, app *Application) (bool, error) {
	if app.AlluID == nil {
		return true, nil
	}
	if app.AlluStatus != nil && !app.AlluStatus.IsPending() {
		return false, nil
	}
	info, err := s.allu.ApplicationInformation(ctx, *app.AlluID)
	if err != nil {
		return false, err
	}
	return info.Status.IsPending(), nil
}

// Create stores a new application under its hanke and creates access tokens
// for its contacts.
func (s *Service) Create(ctx context.Context, app Application, userID string) (*Application, error) {
	hankeID, err := s.repo.HankeID(ctx, app.HankeTunnus)
	if err != nil {
		return nil, err
	}
	if app.ApplicationType == "" {
		app.ApplicationType = TypeCableReport
	}
	app.ApplicationData.ApplicationType = app.ApplicationType
	app.UserID = &userID
	app.AlluID = nil
	app.AlluStatus = nil
	app.ApplicationIdentifier = nil

	if err := s.repo.Create(ctx, hankeID, &app); err != nil {
		return nil, err
	}
	if err := s.tokens.SaveNewTokens(ctx, hankeID, contactPeople(app.ApplicationData)); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "created application", "application_id", *app.ID, "hanke_tunnus", app.HankeTunnus)
	return &app, nil
}

// UpdateData replaces the application data while Allu has not started
// processing it. Sent applications are updated in Allu as well.
func (s *Service) UpdateData(ctx context.Context, id int64, data CableReportApplicationData) (*Application, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePending(ctx, app); err != nil {
		return nil, err
	}
	data.ApplicationType = app.ApplicationType
	app.ApplicationData = data

	if app.AlluID != nil {
		alluData, err := data.ToAlluData(app.HankeTunnus)
		if err != nil {
			return nil, err
		}
		if err := s.allu.Update(ctx, *app.AlluID, alluData); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Send validates the application and sends it to Allu, creating it there on first send.
func (s *Service) Send(ctx context.Context, id int64) (*Application, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePending(ctx, app); err != nil {
		return nil, err
	}
	if res := app.ApplicationData.ValidateForMissing(); !res.OK() {
		return nil, &DataError{Path: res.Paths[0], Reason: "can't be empty or null"}
	}

	app.ApplicationData.PendingOnClient = false
	alluData, err := app.ApplicationData.ToAlluData(app.HankeTunnus)
	if err != nil {
		return nil, err
	}

	if app.AlluID != nil {
		if err := s.allu.Update(ctx, *app.AlluID, alluData); err != nil {
			return nil, err
		}
	} else {
		alluID, err := s.allu.Create(ctx, alluData)
		if err != nil {
			return nil, err
		}
		app.AlluID = &alluID
		s.log.InfoContext(ctx, "sent application to allu", "application_id", id, "alluid", alluID)
		if s.attachments != nil {
			if err := s.attachments.SendInitialAttachments(ctx, alluID, id); err != nil {
				s.log.ErrorContext(ctx, "sending initial attachments failed", "application_id", id, "alluid", alluID, "error", err)
			}
		}
	}

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Delete removes a pending application. Applications already in Allu are cancelled there first.
func (s *Service) Delete(ctx context.Context, id int64, userID string) error {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ensurePending(ctx, app); err != nil {
		return err
	}
	if app.AlluID != nil {
		s.log.InfoContext(ctx, "cancelling application in allu", "application_id", id, "alluid", *app.AlluID)
		if err := s.allu.Cancel(ctx, *app.AlluID); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "deleted application", "application_id", id, "user_id", userID)
	return nil
}

func (s *Service) ensurePending(ctx context.Context, app *Application) error {
	pending, err := s.IsStillPending(ctx, app)
	if err != nil {
		return err
	}
	if !pending {
		s.log.WarnContext(ctx, "application is already processing in allu", "application_id", fmtInt64(app.ID), "alluid", fmtInt(app.AlluID))
		return &AlreadyProcessingError{ID: app.ID, AlluID: app.AlluID}
	}
	return nil
}

func contactPeople(d CableReportApplicationData) []permissions.Person {
	var people []permissions.Person
	for _, c := range d.CustomersWithContacts() {
		for _, contact := range c.Contacts {
			if contact.Email == nil {
				continue
			}
			name := ""
			if full := contact.FullName(); full != nil {
				name = *full
			}
			people = append(people, permissions.Person{Name: name, Email: *contact.Email})
		}
	}
	return people
}
