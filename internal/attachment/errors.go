package attachment

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/haitaton/hanke-service/internal/hanke/domain"
)

type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("attachment %s not found", e.ID) }

func (e *NotFoundError) Unwrap() error { return domain.ErrNotFound }

// InvalidError is an attachment that was rejected before it was stored.
type InvalidError struct {
	Reason string
}

func (e *InvalidError) Error() string { return "attachment invalid: " + e.Reason }

func (e *InvalidError) Unwrap() error { return domain.ErrInvalidArgument }

// InAlluError means the application has been sent and its attachments can no longer change.
type InAlluError struct {
	ApplicationID int64
	AlluID        int
}

func (e *InAlluError) Error() string {
	return fmt.Sprintf("application is already sent to Allu, applicationId=%d, alluId=%d", e.ApplicationID, e.AlluID)
}

func (e *InAlluError) Unwrap() error { return domain.ErrConflict }
