package service

import (
	"context"
	"fmt"
	"time"

	"salespoint/internal/model"
	"salespoint/internal/repository"
)

type AuditEntryResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id,omitempty"`
	UserName   string `json:"user_name,omitempty"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name,omitempty"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	ListEntries(ctx context.Context, action string, page, limit int) ([]AuditEntryResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) ListEntries(ctx context.Context, action string, page, limit int) ([]AuditEntryResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	entries, total, err := s.auditRepo.List(ctx, action, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit entries: %w", err)
	}

	result := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp := AuditEntryResponse{
			ID:         entry.ID.String(),
			Action:     entry.Action,
			EntityID:   entry.EntityID,
			EntityName: entry.EntityName,
			Details:    entry.Details,
			CreatedAt:  entry.CreatedAt.Format(time.RFC3339),
		}
		if entry.UserID != nil {
			resp.UserID = entry.UserID.String()
		}
		if entry.User != nil {
			resp.UserName = userDisplayName(entry.User)
		}
		result = append(result, resp)
	}
	return result, total, nil
}

func userDisplayName(user *model.InternalUser) string {
	if user.FirstName == "" && user.LastName == "" {
		return user.Email
	}
	return user.FirstName + " " + user.LastName
}
