package reconcile

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/haitaton/hanke-service/internal/auditlog"
	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/haitaton/hanke-service/internal/hanke/entity"
)

// ExistingContacts maps the persisted contacts of a hanke by id. Every persisted
// contact must have an id.
func ExistingContacts(h *entity.Hanke) (map[int]*entity.Contact, error) {
	existing := make(map[int]*entity.Contact, len(h.Contacts))
	for _, c := range h.Contacts {
		if c.ID == nil {
			return nil, &domain.IntegrityError{
				Msg: fmt.Sprintf("a persisted yhteystieto is missing its id, hanke id %s", idString(h.ID)),
			}
		}
		existing[*c.ID] = c
	}
	return existing, nil
}

// ContactReconciler copies the four incoming contact lists onto the entity's single collection.
type ContactReconciler struct {
	log *slog.Logger
	now func() time.Time
}

func NewContactReconciler(log *slog.Logger) *ContactReconciler {
	if log == nil {
		log = slog.Default()
	}
	return &ContactReconciler{log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Reconcile applies incoming to target. existing is consumed as a working set:
// every id still in it after all roles are processed is removed from target
// with a DELETE entry. Contacts created here get ids only when saved, so their
// CREATE entries are left to the holder's post-save pass.
func (r *ContactReconciler) Reconcile(incoming *domain.Hanke, target *entity.Hanke, existing map[int]*entity.Contact, userID string, holder *auditlog.Holder) error {
	for _, role := range domain.ContactRoles {
		for _, c := range incoming.ContactsByRole(role) {
			if c.ID == nil {
				r.create(c, role, target, userID)
				continue
			}
			if err := r.update(c, target, existing, userID, holder); err != nil {
				return err
			}
		}
	}

	// Stable order for the DELETE entries.
	ids := make([]int, 0, len(existing))
	for id := range existing {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		c := existing[id]
		target.RemoveContact(c)
		holder.Add(auditlog.OperationDelete, false, "", c, nil, userID)
		delete(existing, id)
	}
	return nil
}

func (r *ContactReconciler) create(c domain.Contact, role domain.ContactRole, target *entity.Hanke, userID string) {
	if !c.IsAnyFieldSet() {
		r.log.Error("got a new yhteystieto with all main fields empty, skipping it",
			"hanke_id", idString(target.ID), "role", role)
		return
	}

	now := r.now()
	target.AddContact(&entity.Contact{
		Role:             role,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		OrganisationID:   c.OrganisationID,
		OrganisationName: c.OrganisationName,
		Department:       c.Department,
		Title:            c.Title,
		Type:             c.Type,
		SubContacts:      c.SubContacts,
		DataLocked:       false,
		CreatedBy:        &userID,
		CreatedAt:        &now,
	})
}

func (r *ContactReconciler) update(c domain.Contact, target *entity.Hanke, existing map[int]*entity.Contact, userID string, holder *auditlog.Holder) error {
	id := *c.ID
	persisted, ok := existing[id]
	if !ok {
		hankeID := 0
		if target.ID != nil {
			hankeID = *target.ID
		}
		return &domain.ContactNotFoundError{HankeID: hankeID, ContactID: id}
	}

	// All main fields blank means the client cleared the row; leaving the id
	// in the working set deletes it.
	if !c.IsAnyFieldSet() {
		return nil
	}

	if !Equal(c, persisted) {
		before := persisted.CloneMainFields()

		persisted.Name = c.Name
		persisted.Email = c.Email
		persisted.Phone = c.Phone
		persisted.OrganisationID = c.OrganisationID
		persisted.OrganisationName = c.OrganisationName
		persisted.Department = c.Department
		persisted.SubContacts = c.SubContacts
		now := r.now()
		persisted.ModifiedBy = &userID
		persisted.ModifiedAt = &now

		holder.Add(auditlog.OperationUpdate, false, "", before, persisted, userID)
	}

	delete(existing, id)
	return nil
}

// Equal compares the fields a client can change. Sub-contacts are compared as
// an unordered multiset.
func Equal(incoming domain.Contact, persisted *entity.Contact) bool {
	return incoming.Name == persisted.Name &&
		incoming.Email == persisted.Email &&
		incoming.Phone == persisted.Phone &&
		equalIntPtr(incoming.OrganisationID, persisted.OrganisationID) &&
		incoming.OrganisationName == persisted.OrganisationName &&
		incoming.Department == persisted.Department &&
		sameSubContacts(incoming.SubContacts, persisted.SubContacts)
}

func sameSubContacts(a, b []domain.SubContact) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[domain.SubContact]int, len(a))
	for _, s := range a {
		counts[s]++
	}
	for _, s := range b {
		if counts[s] == 0 {
			return false
		}
		counts[s]--
	}
	return true
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func idString(id *int) string {
	if id == nil {
		return "<new>"
	}
	return fmt.Sprint(*id)
}
