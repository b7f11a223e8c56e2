// internal/domain/interaction/service.go
package interaction

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service records browsing interactions. Recording is best effort: a failed
// write is logged and swallowed, it must never surface to the shopper.
type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewService creates a new interaction service
func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log}
}

// TrackRequest is one interaction event from the storefront.
type TrackRequest struct {
	Type     string `json:"type" binding:"required"`
	Page     string `json:"page,omitempty"`
	TargetID *uint  `json:"target_id,omitempty"`
	Metadata string `json:"metadata,omitempty"`
}

// Track stores the event. Always returns nil; failures are logged only.
func (s *Service) Track(ctx context.Context, sessionID string, userID *uint, req *TrackRequest) error {
	row := Interaction{
		SessionID: sessionID,
		UserID:    userID,
		Type:      req.Type,
		Page:      req.Page,
		TargetID:  req.TargetID,
		Metadata:  req.Metadata,
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"type":       req.Type,
			"session_id": sessionID,
		}).Warn("Failed to record interaction")
	}
	return nil
}
