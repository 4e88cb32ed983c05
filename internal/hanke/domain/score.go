package domain

// IndexType names the component of a disturbance score.
type IndexType string

const (
	IndexBase            IndexType = "PERUSINDEKSI"
	IndexCycling         IndexType = "PYORAILYINDEKSI"
	IndexPublicTransport IndexType = "JOUKKOLIIKENNEINDEKSI"
)

// DisturbanceScore is the result of a traffic-disturbance (törmäystarkastelu) calculation.
type DisturbanceScore struct {
	Base            float32 `json:"perusIndeksi"`
	Cycling         float32 `json:"pyorailyIndeksi"`
	PublicTransport float32 `json:"joukkoliikenneIndeksi"`
}

type DominantIndex struct {
	Value float32   `json:"indeksi"`
	Type  IndexType `json:"tyyppi"`
}

// Dominant returns the largest of the three indices. Ties are resolved in the
// order public transport, base, cycling.
func (s DisturbanceScore) Dominant() DominantIndex {
	switch max(s.Base, s.Cycling, s.PublicTransport) {
	case s.PublicTransport:
		return DominantIndex{Value: s.PublicTransport, Type: IndexPublicTransport}
	case s.Base:
		return DominantIndex{Value: s.Base, Type: IndexBase}
	default:
		return DominantIndex{Value: s.Cycling, Type: IndexCycling}
	}
}
