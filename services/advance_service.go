package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hr-backend/models"

	"gorm.io/gorm"
)

type AdvanceRequestService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewAdvanceRequestService(db *gorm.DB, audit *AuditService) *AdvanceRequestService {
	return &AdvanceRequestService{DB: db, Audit: audit}
}

type AdvanceRequestView struct {
	ID              uint       `json:"id"`
	EmployeeID      uint       `json:"employeeId"`
	EmployeeName    string     `json:"employeeName"`
	Amount          float64    `json:"amount"`
	Reason          string     `json:"reason,omitempty"`
	RequestDate     time.Time  `json:"requestDate"`
	Status          string     `json:"status"`
	ReviewedBy      *uint      `json:"reviewedBy,omitempty"`
	ReviewedByName  string     `json:"reviewedByName,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
}

// Create files a salary-advance request for the calling employee.
func (s *AdvanceRequestService) Create(actor *Actor, ip string, amount float64, reason string) (*AdvanceRequestView, error) {
	if actor == nil {
		return nil, Unauthorized("Authentication required")
	}

	var employee models.Employee
	err := s.DB.Preload("User").Where("user_id = ?", actor.UserID).First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Employee profile not found")
		}
		return nil, err
	}

	if amount <= 0 {
		return nil, BadRequest("Amount must be greater than zero")
	}

	request := models.AdvanceRequest{
		EmployeeID: employee.ID,
		Amount:     amount,
		Reason:     reason,
		Status:     models.AdvancePending,
	}
	if err := s.DB.Create(&request).Error; err != nil {
		return nil, err
	}

	auditReason := reason
	if auditReason == "" {
		auditReason = "No reason provided"
	}
	s.Audit.Record(actor, ip, "AdvanceRequest", request.ID, models.AuditCreate,
		fmt.Sprintf("Employee %s created advance request for %.2f (reason: %s)",
			employee.User.FullName(), amount, auditReason),
		nil,
		map[string]any{
			"id":          request.ID,
			"employeeId":  employee.ID,
			"amount":      request.Amount,
			"reason":      request.Reason,
			"status":      request.Status,
			"requestDate": request.RequestDate,
		})

	request.Employee = employee
	view := s.buildView(request)
	return &view, nil
}

// GetMyHistory lists the calling employee's own requests.
func (s *AdvanceRequestService) GetMyHistory(actor *Actor) ([]AdvanceRequestView, error) {
	if actor == nil {
		return nil, Unauthorized("Authentication required")
	}

	var employee models.Employee
	err := s.DB.Preload("User").Where("user_id = ?", actor.UserID).First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Employee profile not found")
		}
		return nil, err
	}

	var requests []models.AdvanceRequest
	err = s.DB.Preload("Employee.User").Preload("ReviewedBy").
		Where("employee_id = ?", employee.ID).
		Order("request_date DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return s.buildViews(requests), nil
}

// GetAllRequests lists every request, optionally filtered by status.
func (s *AdvanceRequestService) GetAllRequests(status string) ([]AdvanceRequestView, error) {
	query := s.DB.Preload("Employee.User").Preload("ReviewedBy")

	if status != "" {
		status = strings.ToUpper(status)
		switch status {
		case models.AdvancePending, models.AdvanceApproved, models.AdvanceRejected:
			query = query.Where("status = ?", status)
		default:
			return nil, BadRequest("Invalid status: %s", status)
		}
	}

	var requests []models.AdvanceRequest
	if err := query.Order("request_date DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return s.buildViews(requests), nil
}

// Review approves or rejects a pending request. Rejections must carry
// a reason; reviews are final.
func (s *AdvanceRequestService) Review(actor *Actor, ip string, id uint, status, rejectionReason string) (*AdvanceRequestView, error) {
	if actor == nil {
		return nil, Unauthorized("Authentication required")
	}

	var reviewer models.User
	if err := s.DB.First(&reviewer, actor.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("User not found")
		}
		return nil, err
	}

	var request models.AdvanceRequest
	err := s.DB.Preload("Employee.User").First(&request, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Advance request not found")
		}
		return nil, err
	}

	if request.Status != models.AdvancePending {
		return nil, Conflict("Advance request has already been reviewed")
	}

	status = strings.ToUpper(status)
	if status != models.AdvanceApproved && status != models.AdvanceRejected {
		return nil, BadRequest("Status must be APPROVED or REJECTED")
	}
	if status == models.AdvanceRejected && strings.TrimSpace(rejectionReason) == "" {
		return nil, BadRequest("Rejection reason is required when rejecting")
	}

	now := time.Now()
	request.Status = status
	request.ReviewedByID = &reviewer.ID
	request.ReviewedAt = &now
	if status == models.AdvanceRejected {
		request.RejectionReason = rejectionReason
	}
	if err := s.DB.Save(&request).Error; err != nil {
		return nil, err
	}

	verb := "approved"
	suffix := ""
	if status == models.AdvanceRejected {
		verb = "rejected"
		suffix = " (reason: " + rejectionReason + ")"
	}
	newValue := map[string]any{
		"status":         request.Status,
		"reviewedBy":     reviewer.ID,
		"reviewedByName": reviewer.FullName(),
		"reviewedAt":     request.ReviewedAt,
	}
	if status == models.AdvanceRejected {
		newValue["rejectionReason"] = request.RejectionReason
	}
	s.Audit.Record(actor, ip, "AdvanceRequest", request.ID, models.AuditUpdate,
		fmt.Sprintf("%s %s advance request from %s for amount %.2f%s",
			reviewer.FullName(), verb, request.Employee.User.FullName(), request.Amount, suffix),
		map[string]any{
			"status":     models.AdvancePending,
			"reviewedBy": nil,
			"reviewedAt": nil,
		},
		newValue)

	request.ReviewedBy = &reviewer
	view := s.buildView(request)
	return &view, nil
}

func (s *AdvanceRequestService) buildViews(requests []models.AdvanceRequest) []AdvanceRequestView {
	views := make([]AdvanceRequestView, 0, len(requests))
	for _, request := range requests {
		views = append(views, s.buildView(request))
	}
	return views
}

func (s *AdvanceRequestService) buildView(request models.AdvanceRequest) AdvanceRequestView {
	view := AdvanceRequestView{
		ID:              request.ID,
		EmployeeID:      request.EmployeeID,
		EmployeeName:    request.Employee.User.FullName(),
		Amount:          request.Amount,
		Reason:          request.Reason,
		RequestDate:     request.RequestDate,
		Status:          request.Status,
		ReviewedBy:      request.ReviewedByID,
		ReviewedAt:      request.ReviewedAt,
		RejectionReason: request.RejectionReason,
	}
	if request.ReviewedBy != nil {
		view.ReviewedByName = request.ReviewedBy.FullName()
	}
	return view
}
