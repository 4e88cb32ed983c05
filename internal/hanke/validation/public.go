// Package validation decides whether a hanke has everything it needs to be public.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/haitaton/hanke-service/internal/hanke/domain"
)

// PublicValidator checks the fields a hanke must have before it can be published.
type PublicValidator struct {
	v *validator.Validate
}

func NewPublicValidator() *PublicValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &PublicValidator{v: v}
}

type publicHanke struct {
	Name          string          `json:"nimi" validate:"required"`
	Description   string          `json:"kuvaus" validate:"required"`
	Stage         string          `json:"vaihe" validate:"required,oneof=OHJELMOINTI SUUNNITTELU RAKENTAMINEN"`
	PlanningStage string          `json:"suunnitteluVaihe" validate:"required_if=Stage SUUNNITTELU"`
	StreetAddress string          `json:"tyomaaKatuosoite" validate:"required"`
	Areas         []publicArea    `json:"alueet" validate:"required,min=1,dive"`
	Owners        []publicContact `json:"omistajat" validate:"required,min=1,dive"`
}

type publicArea struct {
	NuisanceStart      *time.Time `json:"haittaAlkuPvm" validate:"required"`
	NuisanceEnd        *time.Time `json:"haittaLoppuPvm" validate:"required"`
	Geometries         *struct{}  `json:"geometriat" validate:"required"`
	LaneNuisance       *string    `json:"kaistaHaitta" validate:"required"`
	LaneLengthNuisance *string    `json:"kaistaPituusHaitta" validate:"required"`
	NoiseNuisance      *string    `json:"meluHaitta" validate:"required"`
	DustNuisance       *string    `json:"polyHaitta" validate:"required"`
	VibrationNuisance  *string    `json:"tarinaHaitta" validate:"required"`
}

type publicContact struct {
	Name  string `json:"nimi" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// ValidateHankeHasMandatoryFields returns the json paths of the missing or invalid fields.
func (p *PublicValidator) ValidateHankeHasMandatoryFields(h *domain.Hanke) domain.ValidationResult {
	view := toPublicView(h)

	var paths []string
	if err := p.v.Struct(view); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return domain.ValidationResult{Paths: []string{err.Error()}}
		}
		for _, fe := range verrs {
			paths = append(paths, trimRoot(fe.Namespace()))
		}
	}

	for i, a := range view.Areas {
		if a.NuisanceStart != nil && a.NuisanceEnd != nil && a.NuisanceEnd.Before(*a.NuisanceStart) {
			paths = append(paths, fmt.Sprintf("alueet[%d].haittaLoppuPvm", i))
		}
	}

	return domain.ValidationResult{Paths: paths}
}

func toPublicView(h *domain.Hanke) publicHanke {
	view := publicHanke{
		Name:          trimmed(h.Name),
		Description:   trimmed(h.Description),
		StreetAddress: trimmed(h.WorksiteStreetAddress),
	}
	if h.Stage != nil {
		view.Stage = string(*h.Stage)
	}
	if h.PlanningStage != nil {
		view.PlanningStage = string(*h.PlanningStage)
	}
	if h.Areas != nil {
		view.Areas = make([]publicArea, 0, len(h.Areas))
	}
	for _, a := range h.Areas {
		pa := publicArea{
			NuisanceStart:      a.NuisanceStart,
			NuisanceEnd:        a.NuisanceEnd,
			LaneNuisance:       a.LaneNuisance,
			LaneLengthNuisance: a.LaneLengthNuisance,
			NoiseNuisance:      a.NoiseNuisance,
			DustNuisance:       a.DustNuisance,
			VibrationNuisance:  a.VibrationNuisance,
		}
		if a.Geometries.HasFeatures() {
			pa.Geometries = &struct{}{}
		}
		view.Areas = append(view.Areas, pa)
	}
	if h.Owners != nil {
		view.Owners = make([]publicContact, 0, len(h.Owners))
	}
	for _, c := range h.Owners {
		view.Owners = append(view.Owners, publicContact{
			Name:  strings.TrimSpace(c.Name),
			Email: strings.TrimSpace(c.Email),
		})
	}
	return view
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func trimRoot(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
