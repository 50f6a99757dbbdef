package service

import (
	"context"
	"strconv"

	"clinic-portal/internal/domain/entity"
	"clinic-portal/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditEntry describes one change. Before is nil for creates and After is
// nil for deletes.
type AuditEntry struct {
	ActorID  *int64
	Action   string
	Entity   string
	EntityID int64
	Before   interface{}
	After    interface{}
}

type AuditService interface {
	// Record writes the entry through tx so it commits or rolls back with
	// the change it describes.
	Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) error {
	auditLog := &entity.AuditLog{
		UserID: entry.ActorID,
		Action: entry.Action,
		Metadata: entity.JSON{
			"entity":    entry.Entity,
			"entity_id": strconv.FormatInt(entry.EntityID, 10),
			"old_value": entry.Before,
			"new_value": entry.After,
		},
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
