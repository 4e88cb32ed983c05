// Package attachment stores the liitteet of applications: metadata in
// postgres and file content in object storage.
package attachment

import (
	"time"

	"github.com/google/uuid"
)

// MaxPerApplication is the number of attachments one application may have.
const MaxPerApplication = 50

type Type string

const (
	TypeOther           Type = "MUU"
	TypeTrafficPlan     Type = "LIIKENNEJARJESTELY"
	TypePowerOfAttorney Type = "VALTAKIRJA"
)

func (t Type) Valid() bool {
	switch t {
	case TypeOther, TypeTrafficPlan, TypePowerOfAttorney:
		return true
	}
	return false
}

type Metadata struct {
	ID              uuid.UUID `json:"id"`
	FileName        string    `json:"fileName"`
	ContentType     string    `json:"contentType"`
	Size            int64     `json:"size"`
	CreatedByUserID string    `json:"createdByUserId"`
	CreatedAt       time.Time `json:"createdAt"`
	ApplicationID   int64     `json:"applicationId"`
	AttachmentType  Type      `json:"attachmentType"`
}

type Content struct {
	FileName    string
	ContentType string
	Bytes       []byte
}

// Upload is a file received from a client.
type Upload struct {
	FileName    string
	ContentType string
	Bytes       []byte
}
