package application

import (
	"fmt"

	"github.com/haitaton/hanke-service/internal/hanke/domain"
)

type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("application %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return domain.ErrNotFound }

// AlreadyProcessingError means Allu has started handling the application.
type AlreadyProcessingError struct {
	ID     *int64
	AlluID *int
}

func (e *AlreadyProcessingError) Error() string {
	return fmt.Sprintf("application is already processing in Allu, id=%s, alluid=%s", fmtInt64(e.ID), fmtInt(e.AlluID))
}

func (e *AlreadyProcessingError) Unwrap() error { return domain.ErrConflict }

// DataError is application data that cannot be turned into an Allu request.
type DataError struct {
	Path   string
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("application data failed validation at %s: %s", e.Path, e.Reason)
}

func (e *DataError) Unwrap() error { return domain.ErrInvalidArgument }

func fmtInt64(v *int64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(*v)
}

func fmtInt(v *int) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(*v)
}
