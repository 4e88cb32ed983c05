package attachment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/haitaton/hanke-service/internal/allu"
	"github.com/haitaton/hanke-service/internal/application"
)

type metadataStore interface {
	ListByApplication(ctx context.Context, applicationID int64) ([]Metadata, error)
	Find(ctx context.Context, applicationID int64, id uuid.UUID) (*Metadata, error)
	Count(ctx context.Context, applicationID int64) (int, error)
	Create(ctx context.Context, m Metadata) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type contentStore interface {
	Put(ctx context.Context, applicationID int64, id uuid.UUID, contentType string, content []byte) error
	Get(ctx context.Context, applicationID int64, id uuid.UUID) ([]byte, error)
	Delete(ctx context.Context, applicationID int64, id uuid.UUID) error
}

type scanner interface {
	Scan(ctx context.Context, files []ScanInput) ([]ScanResult, error)
}

type applications interface {
	Get(ctx context.Context, id int64) (*application.Application, error)
	IsStillPending(ctx context.Context, app *application.Application) (bool, error)
}

type alluUploader interface {
	AddAttachment(ctx context.Context, alluID int, a allu.Attachment) error
}

type Service struct {
	meta    metadataStore
	content contentStore
	scan    scanner
	apps    applications
	allu    alluUploader
	log     *slog.Logger
	now     func() time.Time
}

func NewService(meta metadataStore, content contentStore, scan scanner, apps applications, alluClient alluUploader, log *slog.Logger) *Service {
	return &Service{meta: meta, content: content, scan: scan, apps: apps, allu: alluClient, log: log, now: time.Now}
}

func (s *Service) List(ctx context.Context, applicationID int64) ([]Metadata, error) {
	if _, err := s.apps.Get(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.meta.ListByApplication(ctx, applicationID)
}

func (s *Service) GetContent(ctx context.Context, applicationID int64, id uuid.UUID) (*Content, error) {
	m, err := s.meta.Find(ctx, applicationID, id)
	if err != nil {
		return nil, err
	}
	b, err := s.content.Get(ctx, applicationID, id)
	if err != nil {
		return nil, err
	}
	return &Content{FileName: m.FileName, ContentType: m.ContentType, Bytes: b}, nil
}

// Add stores a new attachment for an application Allu has not started
// processing. Applications already sent get the file forwarded to Allu too.
func (s *Service) Add(ctx context.Context, applicationID int64, typ Type, u Upload, userID string) (*Metadata, error) {
	app, err := s.apps.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	pending, err := s.apps.IsStillPending(ctx, app)
	if err != nil {
		return nil, err
	}
	if !pending {
		return nil, &application.AlreadyProcessingError{ID: app.ID, AlluID: app.AlluID}
	}

	if !typ.Valid() {
		return nil, &InvalidError{Reason: "unknown attachment type " + string(typ)}
	}
	if err := Validate(u); err != nil {
		return nil, err
	}
	n, err := s.meta.Count(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if n >= MaxPerApplication {
		return nil, &InvalidError{Reason: fmt.Sprintf("application %d already has %d attachments", applicationID, n)}
	}
	if err := s.ensureClean(ctx, u); err != nil {
		return nil, err
	}

	m := Metadata{
		ID:              uuid.New(),
		FileName:        u.FileName,
		ContentType:     u.ContentType,
		Size:            int64(len(u.Bytes)),
		CreatedByUserID: userID,
		CreatedAt:       s.now().UTC(),
		ApplicationID:   applicationID,
		AttachmentType:  typ,
	}
	if err := s.content.Put(ctx, applicationID, m.ID, m.ContentType, u.Bytes); err != nil {
		return nil, err
	}
	if err := s.meta.Create(ctx, m); err != nil {
		if delErr := s.content.Delete(ctx, applicationID, m.ID); delErr != nil {
			s.log.Warn("orphan attachment content left", "attachmentId", m.ID, "error", delErr)
		}
		return nil, err
	}

	if app.AlluID != nil {
		if err := s.allu.AddAttachment(ctx, *app.AlluID, toAllu(m, u.Bytes)); err != nil {
			return nil, err
		}
	}
	s.log.Info("attachment added", "applicationId", applicationID, "attachmentId", m.ID)
	return &m, nil
}

// Delete removes an attachment of an application that has not been sent.
func (s *Service) Delete(ctx context.Context, applicationID int64, id uuid.UUID) error {
	app, err := s.apps.Get(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.AlluID != nil {
		return &InAlluError{ApplicationID: applicationID, AlluID: *app.AlluID}
	}
	if _, err := s.meta.Find(ctx, applicationID, id); err != nil {
		return err
	}
	if err := s.meta.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.content.Delete(ctx, applicationID, id); err != nil {
		s.log.Warn("attachment content not removed", "attachmentId", id, "error", err)
	}
	return nil
}

// SendInitialAttachments uploads every stored attachment of a freshly
// created Allu application.
func (s *Service) SendInitialAttachments(ctx context.Context, alluID int, applicationID int64) error {
	list, err := s.meta.ListByApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	for _, m := range list {
		b, err := s.content.Get(ctx, applicationID, m.ID)
		if err != nil {
			return err
		}
		if err := s.allu.AddAttachment(ctx, alluID, toAllu(m, b)); err != nil {
			return fmt.Errorf("send attachment %s: %w", m.ID, err)
		}
	}
	s.log.Info("sent initial attachments", "alluId", alluID, "count", len(list))
	return nil
}

func (s *Service) ensureClean(ctx context.Context, u Upload) error {
	results, err := s.scan.Scan(ctx, []ScanInput{{Name: u.FileName, Bytes: u.Bytes}})
	if err != nil {
		return err
	}
	if hasInfected(results) {
		s.log.Warn("infected attachment rejected", "fileName", u.FileName)
		return &InvalidError{Reason: "infected file " + u.FileName}
	}
	return nil
}

func toAllu(m Metadata, content []byte) allu.Attachment {
	desc := string(m.AttachmentType)
	return allu.Attachment{
		Metadata: allu.AttachmentMetadata{MimeType: m.ContentType, Name: m.FileName, Description: &desc},
		Content:  content,
	}
}
