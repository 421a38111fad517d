package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"hr-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Actor identifies the authenticated user performing an operation. It
// is threaded in explicitly from the request layer; a nil Actor means
// the action was triggered by the system itself (startup, seeding,
// unauthenticated login attempts).
type Actor struct {
	UserID uint
	Email  string
	Role   string
}

// AuditService appends immutable audit entries. Recording is
// best-effort: a failed audit write is logged and swallowed so it can
// never fail the business mutation that triggered it.
type AuditService struct {
	DB *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{DB: db}
}

// Record appends one audit entry. oldValue/newValue are optional
// snapshots serialized to JSON; serialization problems fall back to a
// plain string form instead of aborting.
func (s *AuditService) Record(actor *Actor, ip, entityType string, entityID uint, action, description string, oldValue, newValue map[string]any) {
	entry := models.AuditLog{
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		UserEmail:   "System",
		UserRole:    "SYSTEM",
		Description: description,
		OldValue:    marshalSnapshot(oldValue),
		NewValue:    marshalSnapshot(newValue),
		IPAddress:   ip,
	}

	if actor != nil {
		id := actor.UserID
		entry.UserID = &id
		entry.UserEmail = actor.Email
		entry.UserRole = actor.Role
	}

	if err := s.DB.Create(&entry).Error; err != nil {
		log.Printf("failed to create audit log (%s %s #%d): %v", action, entityType, entityID, err)
		return
	}

	log.Printf("audit: %s %s #%d by %s", action, entityType, entityID, entry.UserEmail)
}

func marshalSnapshot(value map[string]any) datatypes.JSON {
	if value == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("failed to serialize audit snapshot: %v", err)
		raw, _ = json.Marshal(fmt.Sprintf("%v", value))
	}
	return datatypes.JSON(raw)
}

// AuditLogFilter narrows GetLogs. Zero values mean "no filter"; Page
// is zero-based, Size falls back to 20.
type AuditLogFilter struct {
	EntityType string
	Action     string
	UserID     *uint
	From       *time.Time
	To         *time.Time
	Page       int
	Size       int
}

type AuditLogPage struct {
	Items []models.AuditLog `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
}

func (s *AuditService) GetLogs(filter AuditLogFilter) (AuditLogPage, error) {
	if filter.Size <= 0 {
		filter.Size = 20
	}
	if filter.Page < 0 {
		filter.Page = 0
	}

	query := s.DB.Model(&models.AuditLog{})
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.From != nil {
		query = query.Where("timestamp >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("timestamp <= ?", *filter.To)
	}

	page := AuditLogPage{Page: filter.Page, Size: filter.Size}
	if err := query.Count(&page.Total).Error; err != nil {
		return AuditLogPage{}, err
	}

	err := query.
		Order("timestamp DESC").
		Order("id DESC").
		Limit(filter.Size).
		Offset(filter.Page * filter.Size).
		Find(&page.Items).Error
	if err != nil {
		return AuditLogPage{}, err
	}
	return page, nil
}

// GetEntityHistory returns all audit entries for one entity, newest first.
func (s *AuditService) GetEntityHistory(entityType string, entityID uint) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.DB.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("timestamp DESC").
		Order("id DESC").
		Find(&logs).Error
	return logs, err
}

func (s *AuditService) GetRecentLogs(limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var logs []models.AuditLog
	err := s.DB.
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

type AuditLogStatistics struct {
	TotalLogs     int64 `json:"totalLogs"`
	CreateActions int64 `json:"createActions"`
	UpdateActions int64 `json:"updateActions"`
	DeleteActions int64 `json:"deleteActions"`
	LoginActions  int64 `json:"loginActions"`
}

func (s *AuditService) GetStatistics() (AuditLogStatistics, error) {
	var stats AuditLogStatistics
	if err := s.DB.Model(&models.AuditLog{}).Count(&stats.TotalLogs).Error; err != nil {
		return AuditLogStatistics{}, err
	}

	counts := []struct {
		action string
		dest   *int64
	}{
		{models.AuditCreate, &stats.CreateActions},
		{models.AuditUpdate, &stats.UpdateActions},
		{models.AuditDelete, &stats.DeleteActions},
		{models.AuditLogin, &stats.LoginActions},
	}
	for _, c := range counts {
		if err := s.DB.Model(&models.AuditLog{}).Where("action = ?", c.action).Count(c.dest).Error; err != nil {
			return AuditLogStatistics{}, err
		}
	}
	return stats, nil
}
