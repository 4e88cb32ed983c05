package auditlog

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/haitaton/hanke-service/internal/hanke/entity"
)

var ErrHolderFlushed = errors.New("audit log holder already flushed")

// Holder collects contact audit entries during a single hanke operation.
//
// Contacts created in the operation get their ids only when the hanke is
// saved, so their CREATE entries are added afterwards with AddCreatedContacts,
// using the ids present before the operation as the baseline.
type Holder struct {
	baseline map[int]struct{}
	entries  []Entry
	ids      []int
	flushed  bool
	now      func() time.Time
}

func NewHolder(existing []*entity.Contact) *Holder {
	h := &Holder{
		baseline: make(map[int]struct{}, len(existing)),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, c := range existing {
		if c.ID != nil {
			h.baseline[*c.ID] = struct{}{}
		}
	}
	return h
}

// Add records an event on a contact. Either old or new may be nil.
func (h *Holder) Add(op Operation, failed bool, failureDescription string, old, new *entity.Contact, userID string) {
	e := Entry{
		ID:           uuid.New(),
		EventTime:    h.now(),
		UserID:       userID,
		Operation:    op,
		Status:       StatusSuccess,
		ObjectType:   ObjectContact,
		ObjectBefore: snapshotJSON(old),
		ObjectAfter:  snapshotJSON(new),
	}
	if failed {
		e.Status = StatusFailed
		if failureDescription != "" {
			e.FailureDescription = &failureDescription
		}
	}

	var id *int
	switch {
	case old != nil && old.ID != nil:
		id = old.ID
	case new != nil && new.ID != nil:
		id = new.ID
	}
	if id != nil {
		e.ObjectID = strconv.Itoa(*id)
		h.ids = append(h.ids, *id)
	}

	h.entries = append(h.entries, e)
}

// AddCreatedContacts adds a CREATE entry for each saved contact whose id was not in the baseline.
func (h *Holder) AddCreatedContacts(saved []*entity.Contact, userID string) {
	for _, c := range saved {
		if c.ID == nil {
			continue
		}
		if _, existed := h.baseline[*c.ID]; existed {
			continue
		}
		h.Add(OperationCreate, false, "", nil, c, userID)
	}
}

func (h *Holder) HasEntries() bool { return len(h.entries) > 0 }

func (h *Holder) Entries() []Entry { return h.entries }

// ObjectIDs returns the contact ids of the entries in the order they were added.
func (h *Holder) ObjectIDs() []int {
	return append([]int(nil), h.ids...)
}

// Flush hands all entries to sink in one call. A holder can be flushed only once.
func (h *Holder) Flush(ctx context.Context, sink Sink) error {
	if h.flushed {
		return ErrHolderFlushed
	}
	h.flushed = true
	if len(h.entries) == 0 {
		return nil
	}
	return sink.Save(ctx, h.entries)
}

// Snapshot holds only plain values; Marshal cannot fail on it.
func snapshotJSON(c *entity.Contact) json.RawMessage {
	if c == nil {
		return nil
	}
	raw, _ := json.Marshal(c.Snapshot())
	return raw
}
