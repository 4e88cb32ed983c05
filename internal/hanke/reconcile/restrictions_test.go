package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/haitaton/hanke-service/internal/auditlog"
	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/haitaton/hanke-service/internal/hanke/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lockedContact(id int, name string) *entity.Contact {
	c := storedContact(id, domain.RoleOwner, name)
	c.DataLocked = true
	return c
}

func check(t *testing.T, incoming *domain.Hanke, persisted *entity.Hanke) *auditlog.Holder {
	t.Helper()
	existing, err := ExistingContacts(persisted)
	require.NoError(t, err)
	return NewRestrictionGuard(nil).Check(incoming, persisted, existing, "user-1")
}

func TestRestrictionGuard_Check(t *testing.T) {
	t.Run("no locked contacts permits the update", func(t *testing.T) {
		persisted := persistedHanke(storedContact(1, domain.RoleOwner, "a"))
		assert.Nil(t, check(t, &domain.Hanke{}, persisted))
	})

	t.Run("unchanged locked contact permits the update", func(t *testing.T) {
		persisted := persistedHanke(lockedContact(1, "a"))
		incoming := &domain.Hanke{Owners: []domain.Contact{{ID: intPtr(1), Name: "a", Email: "a@example.test"}}}
		assert.Nil(t, check(t, incoming, persisted))
	})

	t.Run("changing a locked contact is blocked", func(t *testing.T) {
		locked := lockedContact(1, "a")
		persisted := persistedHanke(locked)
		incoming := &domain.Hanke{Owners: []domain.Contact{{ID: intPtr(1), Name: "changed", Email: "a@example.test"}}}

		holder := check(t, incoming, persisted)
		require.NotNil(t, holder)
		require.Len(t, holder.Entries(), 1)

		e := holder.Entries()[0]
		assert.Equal(t, auditlog.OperationUpdate, e.Operation)
		assert.Equal(t, auditlog.StatusFailed, e.Status)
		assert.Equal(t, "update hanke yhteystieto BLOCKED by data processing restriction", *e.FailureDescription)

		var after entity.Snapshot
		require.NoError(t, json.Unmarshal(e.ObjectAfter, &after))
		assert.Equal(t, "changed", after.Name)
		assert.Equal(t, "a", locked.Name, "persisted contact is untouched")
		assert.Equal(t, []int{1}, holder.ObjectIDs())
	})

	t.Run("blanking a locked contact is a blocked delete", func(t *testing.T) {
		persisted := persistedHanke(lockedContact(1, "a"))
		incoming := &domain.Hanke{Others: []domain.Contact{{ID: intPtr(1)}}}

		holder := check(t, incoming, persisted)
		require.NotNil(t, holder)
		assert.Equal(t, auditlog.OperationDelete, holder.Entries()[0].Operation)
		assert.Nil(t, holder.Entries()[0].ObjectAfter)
	})

	t.Run("omitting a locked contact is a blocked delete", func(t *testing.T) {
		persisted := persistedHanke(lockedContact(1, "a"), storedContact(2, domain.RoleOwner, "b"), lockedContact(3, "c"))
		incoming := &domain.Hanke{Owners: []domain.Contact{{ID: intPtr(2), Name: "b2"}}}

		holder := check(t, incoming, persisted)
		require.NotNil(t, holder)
		assert.Equal(t, []int{1, 3}, holder.ObjectIDs())
		for _, e := range holder.Entries() {
			assert.Equal(t, auditlog.OperationDelete, e.Operation)
			assert.Equal(t, auditlog.StatusFailed, e.Status)
		}
	})

	t.Run("locked contact may be referenced from any role list", func(t *testing.T) {
		persisted := persistedHanke(lockedContact(1, "a"))
		incoming := &domain.Hanke{Implementers: []domain.Contact{{ID: intPtr(1), Name: "a", Email: "a@example.test"}}}
		assert.Nil(t, check(t, incoming, persisted))
	})
}
