package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrProcessingRestricted = errors.New("data processing restricted")
	ErrIntegrity            = errors.New("database state integrity violated")
	ErrConflict             = errors.New("conflicting state")
	ErrValidation           = errors.New("validation failed")
	ErrAuthorityConflict    = errors.New("application is being processed by the authority")
)

// HankeNotFoundError is returned when no hanke matches the given code.
type HankeNotFoundError struct {
	HankeTunnus string
}

func (e *HankeNotFoundError) Error() string {
	return fmt.Sprintf("hanke %s not found", e.HankeTunnus)
}

func (e *HankeNotFoundError) Unwrap() error { return ErrNotFound }

// ContactNotFoundError is returned when an incoming contact refers to an id
// that the persisted hanke does not have.
type ContactNotFoundError struct {
	HankeID   int
	ContactID int
}

func (e *ContactNotFoundError) Error() string {
	return fmt.Sprintf("yhteystieto %d not found in hanke %d", e.ContactID, e.HankeID)
}

func (e *ContactNotFoundError) Unwrap() error { return ErrConflict }

// ProcessingRestrictedError lists the contacts whose modification was blocked.
type ProcessingRestrictedError struct {
	ContactIDs []int
}

func (e *ProcessingRestrictedError) Error() string {
	return fmt.Sprintf("can not modify/delete yhteystieto which has data processing restricted (id: %v)", e.ContactIDs)
}

func (e *ProcessingRestrictedError) Unwrap() error { return ErrProcessingRestricted }

type IntegrityError struct {
	Msg string
}

func (e *IntegrityError) Error() string { return e.Msg }

func (e *IntegrityError) Unwrap() error { return ErrIntegrity }

// ValidationError carries the paths of the fields that failed validation.
type ValidationError struct {
	HankeTunnus string
	Paths       []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("hanke %s is missing mandatory fields: %s", e.HankeTunnus, strings.Join(e.Paths, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ArgumentError wraps ErrInvalidArgument with a message.
func ArgumentError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// AlluConflictError means a hanke has a hakemus that Allu is already processing.
type AlluConflictError struct {
	HankeTunnus string
}

func (e *AlluConflictError) Error() string {
	return fmt.Sprintf("hanke %s has hakemus in Allu processing, cannot delete", e.HankeTunnus)
}

func (e *AlluConflictError) Unwrap() error { return ErrAuthorityConflict }
