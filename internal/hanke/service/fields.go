package service

import (
	"context"
	"fmt"

	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/haitaton/hanke-service/internal/hanke/entity"
	"github.com/haitaton/hanke-service/internal/hanke/reconcile"
)

// copyFields copies the client-editable hanke fields that are set in incoming.
// Id, hanketunnus, version and audit fields are left to the caller. Areas are
// merged by id and their geometries saved on the way.
func (s *Service) copyFields(ctx context.Context, incoming *domain.Hanke, e *entity.Hanke, userID string) error {
	if incoming.OnYKTHanke != nil {
		e.OnYKTHanke = incoming.OnYKTHanke
	}
	if incoming.Name != nil {
		e.Name = incoming.Name
	}
	if incoming.Description != nil {
		e.Description = incoming.Description
	}
	if incoming.Founder != nil {
		e.Founder = incoming.Founder
	}
	e.Generated = incoming.Generated
	if incoming.Stage != nil {
		e.Stage = incoming.Stage
	}
	if incoming.PlanningStage != nil {
		e.PlanningStage = incoming.PlanningStage
	}
	if incoming.WorksiteStreetAddress != nil {
		e.WorksiteStreetAddress = incoming.WorksiteStreetAddress
	}
	e.WorksiteTypes = incoming.WorksiteTypes

	var geomErr error
	reconcile.MergeInto(incoming.Areas, &e.Areas, func(src domain.Area, existing *entity.Area, found bool) *entity.Area {
		target := existing
		if !found {
			target = &entity.Area{}
		}
		if err := s.copyArea(ctx, e.HankeTunnus, src, target, userID); err != nil && geomErr == nil {
			geomErr = err
		}
		return target
	})
	if geomErr != nil {
		return geomErr
	}
	for _, a := range e.Areas {
		a.HankeID = e.ID
	}
	return nil
}

func (s *Service) copyArea(ctx context.Context, hankeTunnus string, src domain.Area, target *entity.Area, userID string) error {
	// Dates are stored without time; the repository truncates them.
	if src.NuisanceEnd != nil {
		target.NuisanceEnd = src.NuisanceEnd
	}
	if src.NuisanceStart != nil {
		target.NuisanceStart = src.NuisanceStart
	}
	if src.LaneNuisance != nil {
		target.LaneNuisance = src.LaneNuisance
	}
	if src.LaneLengthNuisance != nil {
		target.LaneLengthNuisance = src.LaneLengthNuisance
	}
	if src.NoiseNuisance != nil {
		target.NoiseNuisance = src.NoiseNuisance
	}
	if src.DustNuisance != nil {
		target.DustNuisance = src.DustNuisance
	}
	if src.VibrationNuisance != nil {
		target.VibrationNuisance = src.VibrationNuisance
	}
	if src.Geometries != nil {
		g := *src.Geometries
		if target.GeometryID != nil {
			g.ID = target.GeometryID
		}
		g.ResetFeatureProperties(hankeTunnus)
		saved, err := s.Geometries.Save(ctx, &g, userID)
		if err != nil {
			return fmt.Errorf("save geometriat of hanke %s: %w", hankeTunnus, err)
		}
		target.GeometryID = saved.ID
	}
	if src.Name != nil {
		target.Name = src.Name
	}
	return nil
}

// toDomain builds the client view of e with the geometries of its areas resolved.
func (s *Service) toDomain(ctx context.Context, e *entity.Hanke) (*domain.Hanke, error) {
	d := e.ToDomain()
	for i, a := range e.Areas {
		if a.GeometryID == nil {
			continue
		}
		g, err := s.Geometries.Get(ctx, *a.GeometryID)
		if err != nil {
			return nil, fmt.Errorf("load geometriat %d of hanke %s: %w", *a.GeometryID, e.HankeTunnus, err)
		}
		g.ResetFeatureProperties(e.HankeTunnus)
		d.Areas[i].Geometries = g
	}
	return d, nil
}
