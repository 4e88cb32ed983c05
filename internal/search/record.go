// Package search keeps an index of public hankkeet for the map and
// listing views.
package search

import (
	"time"

	"github.com/haitaton/hanke-service/internal/hanke/domain"
)

// HankeRecord is the indexed view of a public hanke. It carries no contact data.
type HankeRecord struct {
	ID            string    `json:"id"`
	HankeTunnus   string    `json:"hankeTunnus"`
	Name          string    `json:"nimi"`
	Description   string    `json:"kuvaus"`
	StreetAddress string    `json:"tyomaaKatuosoite"`
	Stage         string    `json:"vaihe"`
	WorksiteTypes []string  `json:"tyomaaTyyppi"`
	AreaNames     []string  `json:"alueet"`
	StartUnix     int64     `json:"alkuPvm"`
	EndUnix       int64     `json:"loppuPvm"`
	IndexedAt     time.Time `json:"indexedAt"`
}

type Query struct {
	Text   string
	Stage  string
	Limit  int
	Offset int
}

type Result struct {
	HankeTunnus string `json:"hankeTunnus"`
	Name        string `json:"nimi"`
	Snippet     string `json:"snippet"`
}

type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// RecordOf builds the index record of h. Start and end span all areas.
func RecordOf(h *domain.Hanke, now time.Time) HankeRecord {
	r := HankeRecord{
		ID:            h.HankeTunnus,
		HankeTunnus:   h.HankeTunnus,
		Name:          deref(h.Name),
		Description:   deref(h.Description),
		StreetAddress: deref(h.WorksiteStreetAddress),
		WorksiteTypes: []string{},
		AreaNames:     []string{},
		IndexedAt:     now.UTC(),
	}
	if h.Stage != nil {
		r.Stage = string(*h.Stage)
	}
	for _, t := range h.WorksiteTypes {
		r.WorksiteTypes = append(r.WorksiteTypes, string(t))
	}
	for _, a := range h.Areas {
		if a.Name != nil {
			r.AreaNames = append(r.AreaNames, *a.Name)
		}
		if a.NuisanceStart != nil && (r.StartUnix == 0 || a.NuisanceStart.Unix() < r.StartUnix) {
			r.StartUnix = a.NuisanceStart.Unix()
		}
		if a.NuisanceEnd != nil && a.NuisanceEnd.Unix() > r.EndUnix {
			r.EndUnix = a.NuisanceEnd.Unix()
		}
	}
	return r
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
