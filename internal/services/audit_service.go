package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// AuditService records an audit trail of mutating operations
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates a new audit service instance
func NewAuditService(db *gorm.DB) AuditServicer {
	return &AuditService{db: db}
}

// Log writes an audit entry. Failures are logged and swallowed so auditing
// never fails the operation being audited.
func (s *AuditService) Log(action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	entry := models.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
	}

	if changes != nil {
		raw, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Warnw("failed to marshal audit changes", "error", err.Error())
		} else {
			entry.Changes = string(raw)
		}
	}

	if err := s.db.Create(&entry).Error; err != nil {
		logger.Get().Warnw("failed to write audit log",
			"action", action,
			"resource_type", resourceType,
			"error", err.Error(),
		)
	}
}
