package application

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/haitaton/hanke-service/internal/hanke/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateForMissing checks the fields Allu requires. Drafts may lack them,
// but an application cannot be sent before they are set.
func (d CableReportApplicationData) ValidateForMissing() domain.ValidationResult {
	var paths []string
	fail := func(path string) { paths = append(paths, path) }

	if isBlankString(d.Name) {
		fail("name")
	}
	if isBlankString(d.WorkDescription) {
		fail("workDescription")
	}
	if countOrderers(d.CustomersWithContacts()) != 1 {
		fail("customersWithContacts[].contacts[].orderer")
	}
	if d.StartTime == nil {
		fail("startTime")
	}
	if d.EndTime == nil {
		fail("endTime")
	}
	paths = append(paths, d.CustomerWithContacts.validateForMissing("customerWithContacts")...)
	if d.Areas == nil {
		fail("areas")
	}
	if d.RockExcavation == nil {
		fail("rockExcavation")
	}
	paths = append(paths, d.ContractorWithContacts.validateForMissing("contractorWithContacts")...)
	if d.RepresentativeWithContacts != nil {
		paths = append(paths, d.RepresentativeWithContacts.validateForMissing("representativeWithContacts")...)
	}
	if d.PropertyDeveloperWithContacts != nil {
		paths = append(paths, d.PropertyDeveloperWithContacts.validateForMissing("propertyDeveloperWithContacts")...)
	}
	return domain.ValidationResult{Paths: paths}
}

func (c CustomerWithContacts) validateForMissing(path string) []string {
	paths := c.Customer.validateForMissing(path + ".customer")
	for i, contact := range c.Contacts {
		if blank(contact.FullName()) {
			paths = append(paths, fmt.Sprintf("%s.contacts[%d].firstName", path, i))
		}
	}
	return paths
}

func (c Customer) validateForMissing(path string) []string {
	var paths []string
	if c.Type == nil {
		paths = append(paths, path+".type")
	}
	if isBlankString(c.Name) {
		paths = append(paths, path+".name")
	}
	if validate.Var(c.Country, "required,iso3166_1_alpha2") != nil {
		paths = append(paths, path+".country")
	}
	return paths
}

func countOrderers(customers []CustomerWithContacts) int {
	n := 0
	for _, c := range customers {
		for _, contact := range c.Contacts {
			if contact.Orderer {
				n++
			}
		}
	}
	return n
}

func isBlankString(s string) bool {
	return blank(&s)
}
