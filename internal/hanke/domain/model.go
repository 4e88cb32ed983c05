package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusDraft  Status = "DRAFT"
	StatusPublic Status = "PUBLIC"
	StatusEnded  Status = "ENDED"
)

type Stage string

const (
	StageProgramming  Stage = "OHJELMOINTI"
	StagePlanning     Stage = "SUUNNITTELU"
	StageConstruction Stage = "RAKENTAMINEN"
)

type PlanningStage string

const (
	PlanningStageGeneral      PlanningStage = "YLEIS_TAI_HANKE"
	PlanningStageStreet       PlanningStage = "KATUSUUNNITTELU_TAI_ALUEVARAUS"
	PlanningStageConstruction PlanningStage = "RAKENNUS_TAI_TOTEUTUS"
	PlanningStageWork         PlanningStage = "TYOMAAN_TAI_HANKKEEN_AIKAINEN"
)

type WorksiteType string

const (
	WorksiteTypeSewer      WorksiteType = "VIEMARI"
	WorksiteTypeWater      WorksiteType = "VESI"
	WorksiteTypeDistrictHt WorksiteType = "KAUKOLAMPO"
	WorksiteTypeElectric   WorksiteType = "SAHKO"
	WorksiteTypeTelecom    WorksiteType = "TIETOLIIKENNE"
	WorksiteTypeOther      WorksiteType = "MUU"
)

// ContactRole partitions the contacts of a hanke into the four lists it exposes.
type ContactRole string

const (
	RoleOwner       ContactRole = "OMISTAJA"
	RoleBuilder     ContactRole = "RAKENNUTTAJA"
	RoleImplementer ContactRole = "TOTEUTTAJA"
	RoleOther       ContactRole = "MUU"
)

// ContactRoles is the fixed order in which the role lists are processed.
var ContactRoles = []ContactRole{RoleOwner, RoleBuilder, RoleImplementer, RoleOther}

type ContactType string

const (
	ContactTypePerson    ContactType = "YKSITYISHENKILO"
	ContactTypeCompany   ContactType = "YRITYS"
	ContactTypeCommunity ContactType = "YHTEISO"
	ContactTypeAuthority ContactType = "VIRANOMAINEN"
)

// Hanke is the client-facing representation of a work project.
// Optional scalars are pointers so that an absent value can be told apart from an empty one.
type Hanke struct {
	ID                    *int              `json:"id"`
	HankeTunnus           string            `json:"hankeTunnus"`
	OnYKTHanke            *bool             `json:"onYKTHanke"`
	Name                  *string           `json:"nimi"`
	Description           *string           `json:"kuvaus"`
	Stage                 *Stage            `json:"vaihe"`
	PlanningStage         *PlanningStage    `json:"suunnitteluVaihe"`
	Version               *int              `json:"version"`
	CreatedBy             string            `json:"createdBy"`
	CreatedAt             *time.Time        `json:"createdAt"`
	ModifiedBy            *string           `json:"modifiedBy"`
	ModifiedAt            *time.Time        `json:"modifiedAt"`
	Status                Status            `json:"status"`
	Founder               *Founder          `json:"perustaja"`
	Generated             bool              `json:"generated"`
	WorksiteStreetAddress *string           `json:"tyomaaKatuosoite"`
	WorksiteTypes         []WorksiteType    `json:"tyomaaTyyppi"`
	Areas                 []Area            `json:"alueet"`
	Owners                []Contact         `json:"omistajat"`
	Builders              []Contact         `json:"rakennuttajat"`
	Implementers          []Contact         `json:"toteuttajat"`
	Others                []Contact         `json:"muut"`
	DisturbanceScore      *DisturbanceScore `json:"tormaystarkasteluTulos"`
}

// ContactsByRole returns the incoming contact list for a role.
func (h *Hanke) ContactsByRole(role ContactRole) []Contact {
	switch role {
	case RoleOwner:
		return h.Owners
	case RoleBuilder:
		return h.Builders
	case RoleImplementer:
		return h.Implementers
	default:
		return h.Others
	}
}

// AppendContact adds c to the list matching role.
func (h *Hanke) AppendContact(role ContactRole, c Contact) {
	switch role {
	case RoleOwner:
		h.Owners = append(h.Owners, c)
	case RoleBuilder:
		h.Builders = append(h.Builders, c)
	case RoleImplementer:
		h.Implementers = append(h.Implementers, c)
	default:
		h.Others = append(h.Others, c)
	}
}

// AllContacts returns the contacts of every role in processing order.
func (h *Hanke) AllContacts() []Contact {
	var out []Contact
	for _, role := range ContactRoles {
		out = append(out, h.ContactsByRole(role)...)
	}
	return out
}

type Founder struct {
	Name  *string `json:"nimi"`
	Email string  `json:"email"`
}

// Contact is a yhteystieto of a hanke.
type Contact struct {
	ID               *int         `json:"id"`
	Name             string       `json:"nimi"`
	Email            string       `json:"email"`
	Phone            string       `json:"puhelinnumero"`
	OrganisationID   *int         `json:"organisaatioId"`
	OrganisationName string       `json:"organisaatioNimi"`
	Department       string       `json:"osasto"`
	Title            string       `json:"rooli"`
	Type             *ContactType `json:"tyyppi"`
	SubContacts      []SubContact `json:"alikontaktit"`
	CreatedBy        *string      `json:"createdBy"`
	CreatedAt        *time.Time   `json:"createdAt"`
	ModifiedBy       *string      `json:"modifiedBy"`
	ModifiedAt       *time.Time   `json:"modifiedAt"`
}

func (c Contact) GetID() *int { return c.ID }

// IsAnyFieldSet reports whether any main field carries a non-blank value.
// A contact with none of them set is treated as an empty form row.
func (c Contact) IsAnyFieldSet() bool {
	return notBlank(c.Name) ||
		notBlank(c.Email) ||
		notBlank(c.Phone) ||
		c.OrganisationID != nil ||
		notBlank(c.OrganisationName) ||
		notBlank(c.Department)
}

// SubContact is a named contact person (yhteyshenkilö) of a contact.
type SubContact struct {
	FirstName string `json:"etunimi"`
	LastName  string `json:"sukunimi"`
	Email     string `json:"email"`
	Phone     string `json:"puhelinnumero"`
}

func (s SubContact) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Area is a hankealue: a geographical part of the hanke with its own nuisance estimates.
type Area struct {
	ID                 *int        `json:"id"`
	HankeID            *int        `json:"hankeId"`
	NuisanceStart      *time.Time  `json:"haittaAlkuPvm"`
	NuisanceEnd        *time.Time  `json:"haittaLoppuPvm"`
	Geometries         *Geometries `json:"geometriat"`
	LaneNuisance       *string     `json:"kaistaHaitta"`
	LaneLengthNuisance *string     `json:"kaistaPituusHaitta"`
	NoiseNuisance      *string     `json:"meluHaitta"`
	DustNuisance       *string     `json:"polyHaitta"`
	VibrationNuisance  *string     `json:"tarinaHaitta"`
	Name               *string     `json:"nimi"`
}

func (a Area) GetID() *int { return a.ID }

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
