// Package application handles hakemukset: permit applications of a hanke that
// are sent to Allu.
package application

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/haitaton/hanke-service/internal/allu"
)

type Type string

const TypeCableReport Type = "CABLE_REPORT"

// Application is a hakemus. AlluID is set once the application has been sent to Allu.
type Application struct {
	ID                    *int64                     `json:"id"`
	UserID                *string                    `json:"-"`
	AlluID                *int                       `json:"alluid"`
	AlluStatus            *allu.ApplicationStatus    `json:"alluStatus"`
	ApplicationIdentifier *string                    `json:"applicationIdentifier"`
	ApplicationType       Type                       `json:"applicationType"`
	ApplicationData       CableReportApplicationData `json:"applicationData"`
	HankeTunnus           string                     `json:"hankeTunnus"`
}

// CableReportWithoutHanke is a johtoselvityshakemus sent before any hanke exists.
type CableReportWithoutHanke struct {
	ApplicationType Type                       `json:"applicationType"`
	ApplicationData CableReportApplicationData `json:"applicationData"`
}

// ToNewApplication attaches the cable report to the given hanke.
func (c CableReportWithoutHanke) ToNewApplication(hankeTunnus string) Application {
	return Application{
		ApplicationType: c.ApplicationType,
		ApplicationData: c.ApplicationData,
		HankeTunnus:     hankeTunnus,
	}
}

type CableReportApplicationData struct {
	ApplicationType      Type                 `json:"applicationType"`
	Name                 string               `json:"name"`
	CustomerWithContacts CustomerWithContacts `json:"customerWithContacts"`
	Areas                []Area               `json:"areas"`
	StartTime            *time.Time           `json:"startTime"`
	EndTime              *time.Time           `json:"endTime"`
	PendingOnClient      bool                 `json:"pendingOnClient"`

	WorkDescription        string               `json:"workDescription"`
	ContractorWithContacts CustomerWithContacts `json:"contractorWithContacts"`
	RockExcavation         *bool                `json:"rockExcavation"`

	PostalAddress              *PostalAddress        `json:"postalAddress,omitempty"`
	RepresentativeWithContacts *CustomerWithContacts `json:"representativeWithContacts,omitempty"`
	InvoicingCustomer          *Customer             `json:"invoicingCustomer,omitempty"`
	CustomerReference          *string               `json:"customerReference,omitempty"`
	Area                       *float64              `json:"area,omitempty"`

	PropertyDeveloperWithContacts *CustomerWithContacts `json:"propertyDeveloperWithContacts,omitempty"`
	ConstructionWork              bool                  `json:"constructionWork"`
	MaintenanceWork               bool                  `json:"maintenanceWork"`
	EmergencyWork                 bool                  `json:"emergencyWork"`
	PropertyConnectivity          bool                  `json:"propertyConnectivity"`
}

// CustomersWithContacts returns the customer blocks that are present.
func (d CableReportApplicationData) CustomersWithContacts() []CustomerWithContacts {
	out := []CustomerWithContacts{d.CustomerWithContacts, d.ContractorWithContacts}
	if d.PropertyDeveloperWithContacts != nil {
		out = append(out, *d.PropertyDeveloperWithContacts)
	}
	if d.RepresentativeWithContacts != nil {
		out = append(out, *d.RepresentativeWithContacts)
	}
	return out
}

type Area struct {
	Name     string          `json:"name"`
	Geometry json.RawMessage `json:"geometry"`
}

type CustomerWithContacts struct {
	Customer Customer  `json:"customer"`
	Contacts []Contact `json:"contacts"`
}

type Customer struct {
	Type              *allu.CustomerType `json:"type"`
	Name              string             `json:"name"`
	Country           string             `json:"country"`
	Email             *string            `json:"email"`
	Phone             *string            `json:"phone"`
	RegistryKey       *string            `json:"registryKey"`
	OVT               *string            `json:"ovt"`
	InvoicingOperator *string            `json:"invoicingOperator"`
	SAPCustomerNumber *string            `json:"sapCustomerNumber"`
}

type Contact struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Orderer   bool    `json:"orderer"`
}

// IsBlank reports whether the contact has no actual contact information.
func (c Contact) IsBlank() bool {
	return blank(c.FirstName) && blank(c.LastName) && blank(c.Email) && blank(c.Phone)
}

// FullName joins the non-blank names. Nil when both names are missing.
func (c Contact) FullName() *string {
	if c.FirstName == nil && c.LastName == nil {
		return nil
	}
	var names []string
	for _, n := range []*string{c.FirstName, c.LastName} {
		if !blank(n) {
			names = append(names, *n)
		}
	}
	full := strings.Join(names, " ")
	return &full
}

type PostalAddress struct {
	StreetAddress StreetAddress `json:"streetAddress"`
	PostalCode    string        `json:"postalCode"`
	City          string        `json:"city"`
}

type StreetAddress struct {
	StreetName *string `json:"streetName"`
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
