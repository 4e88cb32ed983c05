// Package entity holds the persisted shape of a hanke: one row per hanke with
// its contacts stored as a single role-tagged collection.
package entity

import (
	"time"

	"github.com/haitaton/hanke-service/internal/hanke/domain"
)

type Hanke struct {
	ID                    *int
	HankeTunnus           string
	OnYKTHanke            *bool
	Name                  *string
	Description           *string
	Stage                 *domain.Stage
	PlanningStage         *domain.PlanningStage
	Version               *int
	CreatedBy             *string
	CreatedAt             *time.Time
	ModifiedBy            *string
	ModifiedAt            *time.Time
	Status                domain.Status
	Founder               *domain.Founder
	Generated             bool
	WorksiteStreetAddress *string
	WorksiteTypes         []domain.WorksiteType
	Areas                 []*Area
	Contacts              []*Contact
	Score                 *Score

	removedContacts  []*Contact
	persistedAreaIDs []int
}

// AddContact attaches c to the hanke.
func (h *Hanke) AddContact(c *Contact) {
	c.HankeID = h.ID
	h.Contacts = append(h.Contacts, c)
}

// RemoveContact detaches c. Detached contacts that have an id are deleted on the next save.
func (h *Hanke) RemoveContact(c *Contact) {
	for i, existing := range h.Contacts {
		if existing == c {
			h.Contacts = append(h.Contacts[:i], h.Contacts[i+1:]...)
			if c.ID != nil {
				h.removedContacts = append(h.removedContacts, c)
			}
			return
		}
	}
}

func (h *Hanke) RemovedContacts() []*Contact {
	return h.removedContacts
}

// MarkPersisted records the current children as stored. Called by the repository after load and save.
func (h *Hanke) MarkPersisted() {
	h.removedContacts = nil
	h.persistedAreaIDs = h.persistedAreaIDs[:0]
	for _, a := range h.Areas {
		if a.ID != nil {
			h.persistedAreaIDs = append(h.persistedAreaIDs, *a.ID)
		}
	}
}

// RemovedAreaIDs returns ids of stored areas that are no longer attached.
func (h *Hanke) RemovedAreaIDs() []int {
	current := make(map[int]struct{}, len(h.Areas))
	for _, a := range h.Areas {
		if a.ID != nil {
			current[*a.ID] = struct{}{}
		}
	}
	var removed []int
	for _, id := range h.persistedAreaIDs {
		if _, ok := current[id]; !ok {
			removed = append(removed, id)
		}
	}
	return removed
}

// Contact is a persisted yhteystieto. Role tells which of the hanke's lists it belongs to.
type Contact struct {
	ID               *int
	HankeID          *int
	Role             domain.ContactRole
	Name             string
	Email            string
	Phone            string
	OrganisationID   *int
	OrganisationName string
	Department       string
	Title            string
	Type             *domain.ContactType
	SubContacts      []domain.SubContact
	DataLocked       bool
	DataLockInfo     *string
	CreatedBy        *string
	CreatedAt        *time.Time
	ModifiedBy       *string
	ModifiedAt       *time.Time
}

func (c *Contact) GetID() *int { return c.ID }

// CloneMainFields copies the business fields, not the audit fields.
func (c *Contact) CloneMainFields() *Contact {
	clone := &Contact{
		ID:               copyInt(c.ID),
		HankeID:          copyInt(c.HankeID),
		Role:             c.Role,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		OrganisationID:   copyInt(c.OrganisationID),
		OrganisationName: c.OrganisationName,
		Department:       c.Department,
		Title:            c.Title,
		DataLocked:       c.DataLocked,
	}
	if c.Type != nil {
		t := *c.Type
		clone.Type = &t
	}
	if c.DataLockInfo != nil {
		info := *c.DataLockInfo
		clone.DataLockInfo = &info
	}
	if c.SubContacts != nil {
		clone.SubContacts = append([]domain.SubContact{}, c.SubContacts...)
	}
	return clone
}

// Snapshot is the changelog view of a contact. Audit fields are left out.
type Snapshot struct {
	ID               *int                `json:"id"`
	Role             domain.ContactRole  `json:"contactType"`
	Name             string              `json:"nimi"`
	Email            string              `json:"email"`
	Phone            string              `json:"puhelinnumero"`
	OrganisationID   *int                `json:"organisaatioId"`
	OrganisationName string              `json:"organisaatioNimi"`
	Department       string              `json:"osasto"`
	Title            string              `json:"rooli"`
	Type             *domain.ContactType `json:"tyyppi"`
	SubContacts      []domain.SubContact `json:"alikontaktit"`
	DataLocked       bool                `json:"dataLocked"`
	DataLockInfo     *string             `json:"dataLockInfo"`
}

func (c *Contact) Snapshot() Snapshot {
	return Snapshot{
		ID:               c.ID,
		Role:             c.Role,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		OrganisationID:   c.OrganisationID,
		OrganisationName: c.OrganisationName,
		Department:       c.Department,
		Title:            c.Title,
		Type:             c.Type,
		SubContacts:      c.SubContacts,
		DataLocked:       c.DataLocked,
		DataLockInfo:     c.DataLockInfo,
	}
}

type Area struct {
	ID                 *int
	HankeID            *int
	NuisanceStart      *time.Time
	NuisanceEnd        *time.Time
	GeometryID         *int
	LaneNuisance       *string
	LaneLengthNuisance *string
	NoiseNuisance      *string
	DustNuisance       *string
	VibrationNuisance  *string
	Name               *string
}

func (a *Area) GetID() *int { return a.ID }

// Score is the stored törmäystarkastelu result of a hanke.
type Score struct {
	ID              *int
	Base            float32
	Cycling         float32
	PublicTransport float32
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
