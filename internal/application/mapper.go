package application

import (
	"encoding/json"

	"github.com/haitaton/hanke-service/internal/allu"
)

// ToAlluData converts the application into the request sent to Allu. The hanke
// code becomes the identification number.
func (d CableReportApplicationData) ToAlluData(hankeTunnus string) (allu.CableReportApplicationData, error) {
	var out allu.CableReportApplicationData

	customer, err := d.CustomerWithContacts.toAllu("applicationData.customerWithContacts")
	if err != nil {
		return out, err
	}
	contractor, err := d.ContractorWithContacts.toAllu("applicationData.contractorWithContacts")
	if err != nil {
		return out, err
	}
	if d.StartTime == nil {
		return out, &DataError{Path: "applicationData.startTime", Reason: "can't be null"}
	}
	if d.EndTime == nil {
		return out, &DataError{Path: "applicationData.endTime", Reason: "can't be null"}
	}
	if len(d.Areas) == 0 {
		return out, &DataError{Path: "applicationData.areas", Reason: "can't be empty or null"}
	}
	geometry, err := geometryCollection(d.Areas)
	if err != nil {
		return out, err
	}

	out = allu.CableReportApplicationData{
		Name:                   d.Name,
		CustomerWithContacts:   customer,
		Geometry:               geometry,
		StartTime:              d.StartTime.UTC(),
		EndTime:                d.EndTime.UTC(),
		PendingOnClient:        d.PendingOnClient,
		IdentificationNumber:   hankeTunnus,
		ClientApplicationKind:  d.WorkDescription,
		WorkDescription:        d.WorkDescription,
		ContractorWithContacts: contractor,
		CustomerReference:      d.CustomerReference,
		Area:                   d.Area,
		ConstructionWork:       d.ConstructionWork,
		MaintenanceWork:        d.MaintenanceWork,
		EmergencyWork:          d.EmergencyWork,
		PropertyConnectivity:   d.PropertyConnectivity,
	}

	if d.PostalAddress != nil {
		out.PostalAddress = &allu.PostalAddress{
			StreetAddress: allu.StreetAddress{StreetName: d.PostalAddress.StreetAddress.StreetName},
			PostalCode:    d.PostalAddress.PostalCode,
			City:          d.PostalAddress.City,
		}
	}
	if d.RepresentativeWithContacts != nil {
		r, err := d.RepresentativeWithContacts.toAllu("applicationData.representativeWithContacts")
		if err != nil {
			return out, err
		}
		out.RepresentativeWithContacts = &r
	}
	if d.PropertyDeveloperWithContacts != nil {
		p, err := d.PropertyDeveloperWithContacts.toAllu("applicationData.propertyDeveloperWithContacts")
		if err != nil {
			return out, err
		}
		out.PropertyDeveloperWithContacts = &p
	}
	if d.InvoicingCustomer != nil {
		ic, err := d.InvoicingCustomer.toAllu("applicationData.invoicingCustomer")
		if err != nil {
			return out, err
		}
		out.InvoicingCustomer = &ic
	}
	return out, nil
}

func (c CustomerWithContacts) toAllu(path string) (allu.CustomerWithContacts, error) {
	customer, err := c.Customer.toAllu(path + ".customer")
	if err != nil {
		return allu.CustomerWithContacts{}, err
	}
	contacts := make([]allu.Contact, 0, len(c.Contacts))
	for _, contact := range c.Contacts {
		contacts = append(contacts, allu.Contact{
			Name:    contact.FullName(),
			Email:   contact.Email,
			Phone:   contact.Phone,
			Orderer: contact.Orderer,
		})
	}
	return allu.CustomerWithContacts{Customer: customer, Contacts: contacts}, nil
}

func (c Customer) toAllu(path string) (allu.Customer, error) {
	if c.Type == nil {
		return allu.Customer{}, &DataError{Path: path + ".type", Reason: "can't be null"}
	}
	return allu.Customer{
		Type:              *c.Type,
		Name:              c.Name,
		Country:           c.Country,
		Email:             c.Email,
		Phone:             c.Phone,
		RegistryKey:       c.RegistryKey,
		OVT:               c.OVT,
		InvoicingOperator: c.InvoicingOperator,
		SAPCustomerNumber: c.SAPCustomerNumber,
	}, nil
}

func geometryCollection(areas []Area) (json.RawMessage, error) {
	geometries := make([]json.RawMessage, 0, len(areas))
	for _, a := range areas {
		geometries = append(geometries, a.Geometry)
	}
	return json.Marshal(map[string]any{
		"type":       "GeometryCollection",
		"geometries": geometries,
	})
}
