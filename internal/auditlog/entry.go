// Package auditlog records personal-data and domain changes as before/after JSON snapshots.
package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Operation string

const (
	OperationCreate Operation = "CREATE"
	OperationUpdate Operation = "UPDATE"
	OperationDelete Operation = "DELETE"
)

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

type ObjectType string

const (
	ObjectContact     ObjectType = "YHTEYSTIETO"
	ObjectHanke       ObjectType = "HANKE"
	ObjectApplication ObjectType = "APPLICATION"
	ObjectAttachment  ObjectType = "APPLICATION_ATTACHMENT"
)

type Entry struct {
	ID                 uuid.UUID       `json:"id"`
	EventTime          time.Time       `json:"event_time"`
	UserID             string          `json:"user_id"`
	Operation          Operation       `json:"operation"`
	Status             Status          `json:"status"`
	FailureDescription *string         `json:"failure_description,omitempty"`
	ObjectType         ObjectType      `json:"object_type"`
	ObjectID           string          `json:"object_id"`
	ObjectBefore       json.RawMessage `json:"object_before,omitempty"`
	ObjectAfter        json.RawMessage `json:"object_after,omitempty"`
}

// Sink persists a batch of entries.
type Sink interface {
	Save(ctx context.Context, entries []Entry) error
}

// NewEntry builds a successful entry. before and after are marshalled as given; nil means absent.
func NewEntry(op Operation, objectType ObjectType, objectID string, before, after any, userID string) (Entry, error) {
	e := Entry{
		ID:         uuid.New(),
		EventTime:  time.Now().UTC(),
		UserID:     userID,
		Operation:  op,
		Status:     StatusSuccess,
		ObjectType: objectType,
		ObjectID:   objectID,
	}

	var err error
	if e.ObjectBefore, err = marshalObject(before); err != nil {
		return Entry{}, fmt.Errorf("marshal %s %s before: %w", objectType, objectID, err)
	}
	if e.ObjectAfter, err = marshalObject(after); err != nil {
		return Entry{}, fmt.Errorf("marshal %s %s after: %w", objectType, objectID, err)
	}
	return e, nil
}

func marshalObject(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
