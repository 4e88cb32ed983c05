// Package allu talks to Allu, the city's permit processing system.
package allu

import (
	"encoding/json"
	"time"
)

type ApplicationStatus string

const (
	StatusPending               ApplicationStatus = "PENDING"
	StatusPendingClient         ApplicationStatus = "PENDING_CLIENT"
	StatusHandling              ApplicationStatus = "HANDLING"
	StatusInformationReceived   ApplicationStatus = "INFORMATION_RECEIVED"
	StatusReturnedToPreparation ApplicationStatus = "RETURNED_TO_PREPARATION"
	StatusDecisionMaking        ApplicationStatus = "DECISIONMAKING"
	StatusDecision              ApplicationStatus = "DECISION"
	StatusOperationalCondition  ApplicationStatus = "OPERATIONAL_CONDITION"
	StatusFinished              ApplicationStatus = "FINISHED"
	StatusCancelled             ApplicationStatus = "CANCELLED"
	StatusReplaced              ApplicationStatus = "REPLACED"
	StatusArchived              ApplicationStatus = "ARCHIVED"
	StatusNote                  ApplicationStatus = "NOTE"
)

// IsPending reports whether Allu has not started handling the application.
func (s ApplicationStatus) IsPending() bool {
	return s == StatusPending || s == StatusPendingClient
}

type CustomerType string

const (
	CustomerPerson      CustomerType = "PERSON"
	CustomerCompany     CustomerType = "COMPANY"
	CustomerAssociation CustomerType = "ASSOCIATION"
	CustomerProperty    CustomerType = "PROPERTY"
	CustomerOther       CustomerType = "OTHER"
)

type Customer struct {
	Type              CustomerType `json:"type"`
	Name              string       `json:"name"`
	Country           string       `json:"country"`
	Email             *string      `json:"email,omitempty"`
	Phone             *string      `json:"phone,omitempty"`
	RegistryKey       *string      `json:"registryKey,omitempty"`
	OVT               *string      `json:"ovt,omitempty"`
	InvoicingOperator *string      `json:"invoicingOperator,omitempty"`
	SAPCustomerNumber *string      `json:"sapCustomerNumber,omitempty"`
}

type Contact struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Orderer bool    `json:"orderer"`
}

type CustomerWithContacts struct {
	Customer Customer  `json:"customer"`
	Contacts []Contact `json:"contacts"`
}

type StreetAddress struct {
	StreetName *string `json:"streetName,omitempty"`
}

type PostalAddress struct {
	StreetAddress StreetAddress `json:"streetAddress"`
	PostalCode    string        `json:"postalCode"`
	City          string        `json:"city"`
}

// CableReportApplicationData is a johtoselvityshakemus as Allu expects it.
type CableReportApplicationData struct {
	Name                          string                `json:"name"`
	CustomerWithContacts          CustomerWithContacts  `json:"customerWithContacts"`
	Geometry                      json.RawMessage       `json:"geometry"`
	StartTime                     time.Time             `json:"startTime"`
	EndTime                       time.Time             `json:"endTime"`
	PendingOnClient               bool                  `json:"pendingOnClient"`
	IdentificationNumber          string                `json:"identificationNumber"`
	ClientApplicationKind         string                `json:"clientApplicationKind"`
	WorkDescription               string                `json:"workDescription"`
	ContractorWithContacts        CustomerWithContacts  `json:"contractorWithContacts"`
	PostalAddress                 *PostalAddress        `json:"postalAddress,omitempty"`
	RepresentativeWithContacts    *CustomerWithContacts `json:"representativeWithContacts,omitempty"`
	InvoicingCustomer             *Customer             `json:"invoicingCustomer,omitempty"`
	CustomerReference             *string               `json:"customerReference,omitempty"`
	Area                          *float64              `json:"area,omitempty"`
	PropertyDeveloperWithContacts *CustomerWithContacts `json:"propertyDeveloperWithContacts,omitempty"`
	ConstructionWork              bool                  `json:"constructionWork"`
	MaintenanceWork               bool                  `json:"maintenanceWork"`
	EmergencyWork                 bool                  `json:"emergencyWork"`
	PropertyConnectivity          bool                  `json:"propertyConnectivity"`
}

// ApplicationResponse is the part of Allu's application view we read.
type ApplicationResponse struct {
	ID            int               `json:"id"`
	Name          string            `json:"name"`
	ApplicationID string            `json:"applicationId"`
	Status        ApplicationStatus `json:"status"`
	StartTime     *time.Time        `json:"startTime"`
	EndTime       *time.Time        `json:"endTime"`
}

type ApplicationStatusEvent struct {
	EventTime             time.Time          `json:"eventTime"`
	NewStatus             ApplicationStatus  `json:"newStatus"`
	ApplicationIdentifier string             `json:"applicationIdentifier"`
	TargetStatus          *ApplicationStatus `json:"targetStatus"`
}

type ApplicationHistory struct {
	ApplicationID int                      `json:"applicationId"`
	Events        []ApplicationStatusEvent `json:"events"`
}

type AttachmentMetadata struct {
	MimeType    string  `json:"mimeType"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type Attachment struct {
	Metadata AttachmentMetadata
	Content  []byte
}
