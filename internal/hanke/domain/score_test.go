package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisturbanceScore_Dominant(t *testing.T) {
	tests := []struct {
		name  string
		score DisturbanceScore
		want  DominantIndex
	}{
		{"base highest", DisturbanceScore{Base: 4.0, Cycling: 2.0, PublicTransport: 3.0}, DominantIndex{4.0, IndexBase}},
		{"cycling highest", DisturbanceScore{Base: 1.0, Cycling: 3.5, PublicTransport: 2.0}, DominantIndex{3.5, IndexCycling}},
		{"public transport highest", DisturbanceScore{Base: 1.0, Cycling: 2.0, PublicTransport: 5.0}, DominantIndex{5.0, IndexPublicTransport}},
		{"all equal prefers public transport", DisturbanceScore{Base: 3.0, Cycling: 3.0, PublicTransport: 3.0}, DominantIndex{3.0, IndexPublicTransport}},
		{"base ties cycling", DisturbanceScore{Base: 3.0, Cycling: 3.0, PublicTransport: 1.0}, DominantIndex{3.0, IndexBase}},
		{"public transport ties cycling", DisturbanceScore{Base: 1.0, Cycling: 3.0, PublicTransport: 3.0}, DominantIndex{3.0, IndexPublicTransport}},
		{"zero score", DisturbanceScore{}, DominantIndex{0, IndexPublicTransport}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.score.Dominant())
		})
	}
}
