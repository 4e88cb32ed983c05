package entity

import (
	"testing"

	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestHanke_RemoveContact(t *testing.T) {
	h := &Hanke{ID: intPtr(1)}
	stored := &Contact{ID: intPtr(10), Role: domain.RoleOwner, Name: "Stored"}
	fresh := &Contact{Role: domain.RoleOther, Name: "Fresh"}
	h.AddContact(stored)
	h.AddContact(fresh)

	assert.Equal(t, intPtr(1), fresh.HankeID)

	h.RemoveContact(stored)
	h.RemoveContact(fresh)

	assert.Empty(t, h.Contacts)
	require.Len(t, h.RemovedContacts(), 1, "unsaved contacts need no delete")
	assert.Same(t, stored, h.RemovedContacts()[0])

	h.MarkPersisted()
	assert.Empty(t, h.RemovedContacts())
}

func TestHanke_RemovedAreaIDs(t *testing.T) {
	h := &Hanke{Areas: []*Area{{ID: intPtr(1)}, {ID: intPtr(2)}, {ID: intPtr(3)}}}
	h.MarkPersisted()

	h.Areas = []*Area{{ID: intPtr(2)}, {}}
	assert.ElementsMatch(t, []int{1, 3}, h.RemovedAreaIDs())
}

func TestContact_CloneMainFields(t *testing.T) {
	info := "GDPR"
	ct := domain.ContactTypeCompany
	c := &Contact{
		ID:           intPtr(5),
		Role:         domain.RoleBuilder,
		Name:         "Rakennus Oy",
		Type:         &ct,
		SubContacts:  []domain.SubContact{{FirstName: "Maija", LastName: "M", Email: "maija@example.test"}},
		DataLocked:   true,
		DataLockInfo: &info,
		CreatedBy:    &info,
	}

	clone := c.CloneMainFields()
	clone.SubContacts[0].FirstName = "Changed"
	*clone.ID = 99

	assert.Equal(t, "Maija", c.SubContacts[0].FirstName)
	assert.Equal(t, 5, *c.ID)
	assert.Nil(t, clone.CreatedBy)
	assert.True(t, clone.DataLocked)
	assert.Equal(t, "Rakennus Oy", clone.Name)
}

func TestHanke_ToDomain(t *testing.T) {
	creator := "user-1"
	h := &Hanke{
		ID:          intPtr(3),
		HankeTunnus: "HAI24-3",
		CreatedBy:   &creator,
		Status:      domain.StatusDraft,
		Contacts: []*Contact{
			{ID: intPtr(1), Role: domain.RoleImplementer, Name: "T"},
			{ID: intPtr(2), Role: domain.RoleOwner, Name: "O"},
		},
		Areas: []*Area{{ID: intPtr(8), GeometryID: intPtr(4)}},
		Score: &Score{Base: 1, Cycling: 2, PublicTransport: 3},
	}

	d := h.ToDomain()

	assert.Equal(t, "user-1", d.CreatedBy)
	require.Len(t, d.Owners, 1)
	require.Len(t, d.Implementers, 1)
	assert.Empty(t, d.Builders)
	assert.Equal(t, intPtr(3), d.Areas[0].HankeID)
	assert.Equal(t, float32(3), d.DisturbanceScore.PublicTransport)
}
