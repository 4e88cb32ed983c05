package service

import (
	"context"

	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/haitaton/hanke-service/internal/hanke/entity"
)

func (s *Service) GetByCode(ctx context.Context, hankeTunnus string) (*domain.Hanke, error) {
	e, err := s.Hankkeet.FindByTunnus(ctx, hankeTunnus)
	if err != nil {
		return nil, err
	}
	return s.toDomain(ctx, e)
}

func (s *Service) GetWithApplications(ctx context.Context, hankeTunnus string) (*HankeWithApplications, error) {
	h, err := s.GetByCode(ctx, hankeTunnus)
	if err != nil {
		return nil, err
	}
	apps, err := s.Applications.ListByHanke(ctx, hankeTunnus)
	if err != nil {
		return nil, err
	}
	return &HankeWithApplications{Hanke: h, Applications: apps}, nil
}

// ListByUser returns the hankkeet created or last modified by the user.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Hanke, error) {
	list, err := s.Hankkeet.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toDomainList(ctx, list)
}

func (s *Service) ListPublic(ctx context.Context) ([]domain.Hanke, error) {
	list, err := s.Hankkeet.ListByStatus(ctx, domain.StatusPublic)
	if err != nil {
		return nil, err
	}
	return s.toDomainList(ctx, list)
}

func (s *Service) toDomainList(ctx context.Context, list []*entity.Hanke) ([]domain.Hanke, error) {
	out := make([]domain.Hanke, 0, len(list))
	for _, e := range list {
		d, err := s.toDomain(ctx, e)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}
