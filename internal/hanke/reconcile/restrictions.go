package reconcile

import (
	"log/slog"
	"slices"

	"github.com/haitaton/hanke-service/internal/auditlog"
	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/haitaton/hanke-service/internal/hanke/entity"
)

const (
	blockedUpdate = "update hanke yhteystieto BLOCKED by data processing restriction"
	blockedDelete = "delete hanke yhteystieto BLOCKED by data processing restriction"
)

// RestrictionGuard finds attempts to change or delete contacts whose data
// processing is restricted (DataLocked). It does not mutate anything.
type RestrictionGuard struct {
	log *slog.Logger
}

func NewRestrictionGuard(log *slog.Logger) *RestrictionGuard {
	if log == nil {
		log = slog.Default()
	}
	return &RestrictionGuard{log: log}
}

// Check returns nil when the update may proceed. Otherwise it returns a holder
// with one failed entry per blocked action; the caller must persist those
// entries outside its transaction and abort.
func (g *RestrictionGuard) Check(incoming *domain.Hanke, persisted *entity.Hanke, existing map[int]*entity.Contact, userID string) *auditlog.Holder {
	locked := make(map[int]*entity.Contact)
	for id, c := range existing {
		if c.DataLocked {
			locked[id] = c
		}
	}
	if len(locked) == 0 {
		g.log.Debug("yhteystietos of the hanke have no processing restrictions", "hanke_tunnus", persisted.HankeTunnus)
		return nil
	}

	g.log.Debug("some yhteystietos have processing restrictions, checking for effects",
		"hanke_tunnus", persisted.HankeTunnus, "locked", len(locked))

	holder := auditlog.NewHolder(persisted.Contacts)
	for _, c := range incoming.AllContacts() {
		if c.ID == nil {
			continue
		}
		lockedContact, ok := locked[*c.ID]
		if !ok {
			continue
		}

		switch {
		case !c.IsAnyFieldSet():
			holder.Add(auditlog.OperationDelete, true, blockedDelete, lockedContact, nil, userID)
		case !Equal(c, lockedContact):
			attempted := lockedContact.CloneMainFields()
			attempted.Name = c.Name
			attempted.Email = c.Email
			attempted.Phone = c.Phone
			attempted.OrganisationID = c.OrganisationID
			attempted.OrganisationName = c.OrganisationName
			attempted.Department = c.Department
			attempted.SubContacts = c.SubContacts
			holder.Add(auditlog.OperationUpdate, true, blockedUpdate, lockedContact, attempted, userID)
		}
		delete(locked, *c.ID)
	}

	// Locked contacts missing from the incoming data would be deleted.
	remaining := make([]int, 0, len(locked))
	for id := range locked {
		remaining = append(remaining, id)
	}
	slices.Sort(remaining)
	for _, id := range remaining {
		holder.Add(auditlog.OperationDelete, true, blockedDelete, locked[id], nil, userID)
	}

	if !holder.HasEntries() {
		g.log.Debug("no actual changes to the restricted yhteystietos", "hanke_tunnus", persisted.HankeTunnus)
		return nil
	}

	g.log.Warn("hanke update with actions on processing restricted data, saving details to audit log",
		"hanke_tunnus", persisted.HankeTunnus, "blocked", holder.ObjectIDs())
	return holder
}
