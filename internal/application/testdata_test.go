package application

import (
	"encoding/json"
	"time"

	"github.com/haitaton/hanke-service/internal/allu"
)

func ptr[T any](v T) *T { return &v }

func company(name string) Customer {
	return Customer{Type: ptr(allu.CustomerCompany), Name: name, Country: "FI", Email: ptr("info@" + name + ".test")}
}

func contact(first, last, email string, orderer bool) Contact {
	return Contact{FirstName: ptr(first), LastName: ptr(last), Email: ptr(email), Orderer: orderer}
}

func completeCableReport() CableReportApplicationData {
	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 16, 0, 0, 0, time.UTC)
	return CableReportApplicationData{
		ApplicationType: TypeCableReport,
		Name:            "Kaivuutyö Mannerheimintie",
		CustomerWithContacts: CustomerWithContacts{
			Customer: company("tilaaja"),
			Contacts: []Contact{contact("Teppo", "Testihenkilö", "teppo@tilaaja.test", true)},
		},
		Areas:           []Area{{Name: "Alue 1", Geometry: json.RawMessage(`{"type":"Polygon","coordinates":[]}`)}},
		StartTime:       &start,
		EndTime:         &end,
		PendingOnClient: true,
		WorkDescription: "Kaapelin vaihto",
		ContractorWithContacts: CustomerWithContacts{
			Customer: company("urakoitsija"),
			Contacts: []Contact{contact("Urho", "Urakoitsija", "urho@urakoitsija.test", false)},
		},
		RockExcavation: ptr(false),
	}
}
