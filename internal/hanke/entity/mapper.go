package entity

import (
	"github.com/haitaton/hanke-service/internal/hanke/domain"
)

// ToDomain builds the client-facing hanke. Geometries of the areas are not
// resolved here; only their ids are known to the entity.
func (h *Hanke) ToDomain() *domain.Hanke {
	out := &domain.Hanke{
		ID:                    h.ID,
		HankeTunnus:           h.HankeTunnus,
		OnYKTHanke:            h.OnYKTHanke,
		Name:                  h.Name,
		Description:           h.Description,
		Stage:                 h.Stage,
		PlanningStage:         h.PlanningStage,
		Version:               h.Version,
		CreatedAt:             h.CreatedAt,
		ModifiedBy:            h.ModifiedBy,
		ModifiedAt:            h.ModifiedAt,
		Status:                h.Status,
		Founder:               h.Founder,
		Generated:             h.Generated,
		WorksiteStreetAddress: h.WorksiteStreetAddress,
		WorksiteTypes:         h.WorksiteTypes,
		Owners:                []domain.Contact{},
		Builders:              []domain.Contact{},
		Implementers:          []domain.Contact{},
		Others:                []domain.Contact{},
		Areas:                 []domain.Area{},
	}
	if h.CreatedBy != nil {
		out.CreatedBy = *h.CreatedBy
	}

	for _, c := range h.Contacts {
		out.AppendContact(c.Role, c.ToDomain())
	}

	for _, a := range h.Areas {
		area := a.ToDomain()
		area.HankeID = h.ID
		out.Areas = append(out.Areas, area)
	}

	if h.Score != nil {
		out.DisturbanceScore = &domain.DisturbanceScore{
			Base:            h.Score.Base,
			Cycling:         h.Score.Cycling,
			PublicTransport: h.Score.PublicTransport,
		}
	}

	return out
}

func (c *Contact) ToDomain() domain.Contact {
	return domain.Contact{
		ID:               c.ID,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		OrganisationID:   c.OrganisationID,
		OrganisationName: c.OrganisationName,
		Department:       c.Department,
		Title:            c.Title,
		Type:             c.Type,
		SubContacts:      c.SubContacts,
		CreatedBy:        c.CreatedBy,
		CreatedAt:        c.CreatedAt,
		ModifiedBy:       c.ModifiedBy,
		ModifiedAt:       c.ModifiedAt,
	}
}

func (a *Area) ToDomain() domain.Area {
	return domain.Area{
		ID:                 a.ID,
		HankeID:            a.HankeID,
		NuisanceStart:      a.NuisanceStart,
		NuisanceEnd:        a.NuisanceEnd,
		LaneNuisance:       a.LaneNuisance,
		LaneLengthNuisance: a.LaneLengthNuisance,
		NoiseNuisance:      a.NoiseNuisance,
		DustNuisance:       a.DustNuisance,
		VibrationNuisance:  a.VibrationNuisance,
		Name:               a.Name,
	}
}
