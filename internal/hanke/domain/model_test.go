package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContact_IsAnyFieldSet(t *testing.T) {
	orgID := 7

	assert.False(t, Contact{}.IsAnyFieldSet())
	assert.False(t, Contact{Name: "  ", Email: "\t"}.IsAnyFieldSet())
	assert.False(t, Contact{Title: "Valvoja", SubContacts: []SubContact{{FirstName: "Matti"}}}.IsAnyFieldSet(),
		"only the main fields count")
	assert.True(t, Contact{Name: "Yritys Oy"}.IsAnyFieldSet())
	assert.True(t, Contact{Department: "Rakennus"}.IsAnyFieldSet())
	assert.True(t, Contact{OrganisationID: &orgID}.IsAnyFieldSet())
}

func TestHanke_ContactsByRole(t *testing.T) {
	h := &Hanke{}
	h.AppendContact(RoleOwner, Contact{Name: "omistaja"})
	h.AppendContact(RoleBuilder, Contact{Name: "rakennuttaja"})
	h.AppendContact(RoleImplementer, Contact{Name: "toteuttaja"})
	h.AppendContact(RoleOther, Contact{Name: "muu"})

	require.Len(t, h.Owners, 1)
	assert.Equal(t, "rakennuttaja", h.ContactsByRole(RoleBuilder)[0].Name)

	var names []string
	for _, c := range h.AllContacts() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"omistaja", "rakennuttaja", "toteuttaja", "muu"}, names)
}

func TestGeometries_ResetFeatureProperties(t *testing.T) {
	g := &Geometries{FeatureCollection: &FeatureCollection{
		Type: "FeatureCollection",
		Features: []Feature{
			{Type: "Feature", Geometry: json.RawMessage(`{"type":"Point","coordinates":[1,2]}`), Properties: map[string]any{"foo": "bar"}},
			{Type: "Feature", Geometry: json.RawMessage(`{"type":"Point","coordinates":[3,4]}`)},
		},
	}}

	g.ResetFeatureProperties("HAI24-3")

	for _, f := range g.FeatureCollection.Features {
		assert.Equal(t, map[string]any{"hankeTunnus": "HAI24-3"}, f.Properties)
	}
	assert.True(t, g.HasFeatures())

	var nilGeometries *Geometries
	assert.NotPanics(t, func() { nilGeometries.ResetFeatureProperties("HAI24-3") })
	assert.False(t, nilGeometries.HasFeatures())
}

func TestFormatHankeTunnus(t *testing.T) {
	assert.Equal(t, "HAI24-12", FormatHankeTunnus(2024, 12))
	assert.Equal(t, "HAI05-1", FormatHankeTunnus(2005, 1))
	assert.True(t, ValidHankeTunnus("HAI24-12"))
	assert.False(t, ValidHankeTunnus("HAI2024-12"))
	assert.False(t, ValidHankeTunnus(""))
}
