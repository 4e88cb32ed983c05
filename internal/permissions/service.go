package permissions

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/haitaton/hanke-service/internal/hanke/domain"
)

type store interface {
	SetPermission(ctx context.Context, hankeID int, userID string, role Role) error
	FindRole(ctx context.Context, hankeID int, userID string) (Role, bool, error)
	HankeUserEmails(ctx context.Context, hankeID int) ([]string, error)
	SaveUserWithToken(ctx context.Context, user HankeUser, token Token) error
}

// Person is someone who should be able to reach the hanke.
type Person struct {
	Name  string
	Email string
}

type Service struct {
	repo store
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo store, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

func (s *Service) SetPermission(ctx context.Context, hankeID int, userID string, role Role) error {
	return s.repo.SetPermission(ctx, hankeID, userID, role)
}

// HasPermission reports whether the user's role in the hanke grants p.
func (s *Service) HasPermission(ctx context.Context, hankeID int, userID string, p PermissionCode) (bool, error) {
	role, ok, err := s.repo.FindRole(ctx, hankeID, userID)
	if err != nil || !ok {
		return false, err
	}
	return role.Grants(p), nil
}

// SaveNewTokensFromHanke creates a token for each sub-contact of the hanke
// whose email is not yet known to the hanke.
func (s *Service) SaveNewTokensFromHanke(ctx context.Context, h *domain.Hanke) error {
	if h == nil || h.ID == nil {
		return domain.ArgumentError("hanke must have an id")
	}
	var people []Person
	for _, c := range h.AllContacts() {
		for _, sub := range c.SubContacts {
			people = append(people, Person{Name: sub.FullName(), Email: sub.Email})
		}
	}
	return s.SaveNewTokens(ctx, *h.ID, people)
}

// SaveNewTokens creates a token and a hanke user for every unique email among
// people that is not already attached to the hanke. The first person with a
// given email wins.
func (s *Service) SaveNewTokens(ctx context.Context, hankeID int, people []Person) error {
	existing, err := s.repo.HankeUserEmails(ctx, hankeID)
	if err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(existing)+len(people))
	for _, e := range existing {
		seen[e] = struct{}{}
	}

	created := 0
	for _, p := range people {
		email := strings.TrimSpace(p.Email)
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}

		token, err := NewToken(s.now())
		if err != nil {
			return err
		}
		tokenID := token.ID
		user := HankeUser{
			ID:      uuid.New(),
			HankeID: hankeID,
			Name:    p.Name,
			Email:   email,
			TokenID: &tokenID,
		}
		if err := s.repo.SaveUserWithToken(ctx, user, token); err != nil {
			return err
		}
		created++
	}

	if created > 0 {
		s.log.InfoContext(ctx, "created kayttaja tokens", "hanke_id", hankeID, "count", created)
	}
	return nil
}
