package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/haitaton/hanke-service/internal/auditlog"
	"github.com/haitaton/hanke-service/internal/hanke/domain"
)

// hankeSnapshot is the audit view of a hanke. Contacts are logged separately.
func hankeSnapshot(h *domain.Hanke) *domain.Hanke {
	if h == nil {
		return nil
	}
	cp := *h
	cp.Owners, cp.Builders, cp.Implementers, cp.Others = nil, nil, nil, nil
	return &cp
}

func hankeObjectID(h *domain.Hanke) string {
	if h.ID == nil {
		return h.HankeTunnus
	}
	return strconv.Itoa(*h.ID)
}

func (s *Service) logHankeCreate(ctx context.Context, h *domain.Hanke, userID string) error {
	return s.logHanke(ctx, auditlog.OperationCreate, hankeObjectID(h), nil, hankeSnapshot(h), userID)
}

// logHankeUpdate writes an entry only when the audit views differ.
func (s *Service) logHankeUpdate(ctx context.Context, before, after *domain.Hanke, userID string) error {
	b, a := hankeSnapshot(before), hankeSnapshot(after)
	bj, err := json.Marshal(b)
	if err != nil {
		return err
	}
	aj, err := json.Marshal(a)
	if err != nil {
		return err
	}
	if bytes.Equal(bj, aj) {
		return nil
	}
	return s.logHanke(ctx, auditlog.OperationUpdate, hankeObjectID(after), b, a, userID)
}

func (s *Service) logHankeDelete(ctx context.Context, h *domain.Hanke, userID string) error {
	return s.logHanke(ctx, auditlog.OperationDelete, hankeObjectID(h), hankeSnapshot(h), nil, userID)
}

func (s *Service) logHanke(ctx context.Context, op auditlog.Operation, objectID string, before, after *domain.Hanke, userID string) error {
	var b, a any
	if before != nil {
		b = before
	}
	if after != nil {
		a = after
	}
	entry, err := auditlog.NewEntry(op, auditlog.ObjectHanke, objectID, b, a, userID)
	if err != nil {
		return err
	}
	return s.Audit.Save(ctx, []auditlog.Entry{entry})
}
