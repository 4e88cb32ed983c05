package domain

import (
	"encoding/json"
	"time"
)

// Geometries is a stored GeoJSON feature collection referenced by a hanke area.
type Geometries struct {
	ID                *int               `json:"id"`
	Version           *int               `json:"version"`
	FeatureCollection *FeatureCollection `json:"featureCollection"`
	CreatedBy         *string            `json:"createdByUserId"`
	CreatedAt         *time.Time         `json:"createdAt"`
	ModifiedBy        *string            `json:"modifiedByUserId"`
	ModifiedAt        *time.Time         `json:"modifiedAt"`
}

type FeatureCollection struct {
	Type     string          `json:"type"`
	CRS      json.RawMessage `json:"crs,omitempty"`
	Features []Feature       `json:"features"`
}

type Feature struct {
	Type       string          `json:"type"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

// ResetFeatureProperties replaces the properties of every feature with a
// reference to the owning hanke. Client supplied properties are never stored.
func (g *Geometries) ResetFeatureProperties(hankeTunnus string) {
	if g == nil || g.FeatureCollection == nil {
		return
	}
	for i := range g.FeatureCollection.Features {
		g.FeatureCollection.Features[i].Properties = map[string]any{"hankeTunnus": hankeTunnus}
	}
}

// HasFeatures reports whether the collection contains at least one feature.
func (g *Geometries) HasFeatures() bool {
	return g != nil && g.FeatureCollection != nil && len(g.FeatureCollection.Features) > 0
}
