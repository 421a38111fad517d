package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"hr-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContractService struct {
	DB    *gorm.DB
	Audit *AuditService
	Pdf   *PdfGenerator
}

func NewContractService(db *gorm.DB, audit *AuditService, pdf *PdfGenerator) *ContractService {
	return &ContractService{DB: db, Audit: audit, Pdf: pdf}
}

type ContractView struct {
	ID                  uint       `json:"id"`
	EmployeeID          uint       `json:"employeeId"`
	EmployeeName        string     `json:"employeeName"`
	ContractNumber      string     `json:"contractNumber"`
	StartDate           time.Time  `json:"startDate"`
	EndDate             *time.Time `json:"endDate,omitempty"`
	HourlyRate          float64    `json:"hourlyRate"`
	Currency            string     `json:"currency"`
	WorkingHoursPerWeek int        `json:"workingHoursPerWeek"`
	PdfPath             string     `json:"pdfPath,omitempty"`
	Status              string     `json:"status"`
	CreatedAt           time.Time  `json:"createdAt"`
}

func (s *ContractService) GetEmployeeContracts(employeeID uint) ([]ContractView, error) {
	var employee models.Employee
	if err := s.DB.Preload("User").First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Employee not found")
		}
		return nil, err
	}

	var contracts []models.Contract
	err := s.DB.Where("employee_id = ?", employeeID).Order("created_at DESC").Find(&contracts).Error
	if err != nil {
		return nil, err
	}

	views := make([]ContractView, 0, len(contracts))
	for _, contract := range contracts {
		views = append(views, buildContractView(contract, employee))
	}
	return views, nil
}

type CreateContractInput struct {
	StartDate           *time.Time `json:"startDate"`
	EndDate             *time.Time `json:"endDate"`
	HourlyRate          float64    `json:"hourlyRate"`
	Currency            string     `json:"currency"`
	WorkingHoursPerWeek int        `json:"workingHoursPerWeek"`
}

// CreateContract creates a contract and renders its PDF. PDF
// generation is best-effort: on failure the contract stays DRAFT
// without a file, on success it becomes ACTIVE.
func (s *ContractService) CreateContract(actor *Actor, ip string, employeeID uint, input CreateContractInput) (*ContractView, error) {
	var employee models.Employee
	if err := s.DB.Preload("User").First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Employee not found")
		}
		return nil, err
	}

	if input.StartDate == nil {
		return nil, BadRequest("Start date is required")
	}
	if input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, BadRequest("End date cannot be before start date")
	}
	if input.HourlyRate <= 0 {
		return nil, BadRequest("Hourly rate must be greater than zero")
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "HUF"
	}
	hoursPerWeek := input.WorkingHoursPerWeek
	if hoursPerWeek == 0 {
		hoursPerWeek = 40
	}

	contract := models.Contract{
		EmployeeID:          employee.ID,
		ContractNumber:      generateContractNumber(employee.ID),
		StartDate:           *input.StartDate,
		EndDate:             input.EndDate,
		HourlyRate:          input.HourlyRate,
		Currency:            currency,
		WorkingHoursPerWeek: hoursPerWeek,
		Status:              models.ContractDraft,
	}
	if err := s.DB.Create(&contract).Error; err != nil {
		return nil, err
	}

	if pdfPath, err := s.Pdf.GenerateContractPdf(contract, employee); err != nil {
		log.Printf("error generating PDF for contract %s: %v", contract.ContractNumber, err)
	} else {
		contract.PdfPath = pdfPath
		contract.Status = models.ContractActive
		if err := s.DB.Save(&contract).Error; err != nil {
			return nil, err
		}
	}

	s.Audit.Record(actor, ip, "Contract", contract.ID, models.AuditCreate,
		fmt.Sprintf("Created contract %s for employee %s (ID: %d)",
			contract.ContractNumber, employee.User.FullName(), employee.ID),
		nil,
		map[string]any{
			"id":                  contract.ID,
			"contractNumber":      contract.ContractNumber,
			"employeeId":          employee.ID,
			"startDate":           contract.StartDate,
			"endDate":             contract.EndDate,
			"hourlyRate":          contract.HourlyRate,
			"currency":            contract.Currency,
			"workingHoursPerWeek": contract.WorkingHoursPerWeek,
			"status":              contract.Status,
		})

	view := buildContractView(contract, employee)
	return &view, nil
}

// ContractPdfPath returns the path of a contract's generated PDF for
// download by the HTTP layer.
func (s *ContractService) ContractPdfPath(contractID uint) (string, error) {
	var contract models.Contract
	if err := s.DB.First(&contract, contractID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", NotFound("Contract not found")
		}
		return "", err
	}
	if contract.PdfPath == "" {
		return "", NotFound("PDF not available for this contract")
	}
	if _, err := os.Stat(contract.PdfPath); err != nil {
		return "", NotFound("PDF file not found or not readable")
	}
	return contract.PdfPath, nil
}

// Invalidate terminates a contract. Terminated and expired contracts
// cannot be terminated again.
func (s *ContractService) Invalidate(actor *Actor, ip string, contractID uint) (*ContractView, error) {
	var contract models.Contract
	err := s.DB.Preload("Employee.User").First(&contract, contractID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Contract not found")
		}
		return nil, err
	}

	if contract.Status == models.ContractTerminated {
		return nil, Conflict("Contract is already terminated")
	}
	if contract.Status == models.ContractExpired {
		return nil, Conflict("Cannot terminate an expired contract")
	}

	oldValue := map[string]any{
		"status":  contract.Status,
		"endDate": contract.EndDate,
	}

	contract.Status = models.ContractTerminated
	if contract.EndDate == nil {
		end := today()
		contract.EndDate = &end
	}
	if err := s.DB.Save(&contract).Error; err != nil {
		return nil, err
	}

	log.Printf("contract %s has been terminated", contract.ContractNumber)

	s.Audit.Record(actor, ip, "Contract", contract.ID, models.AuditUpdate,
		fmt.Sprintf("Terminated contract %s for employee %s",
			contract.ContractNumber, contract.Employee.User.FullName()),
		oldValue,
		map[string]any{
			"status":  contract.Status,
			"endDate": contract.EndDate,
		})

	view := buildContractView(contract, contract.Employee)
	return &view, nil
}

// Contract numbers look like CONTRACT-20240131-12-8F3A: date, employee
// id and a short random suffix to keep them unique.
func generateContractNumber(employeeID uint) string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("CONTRACT-%s-%d-%s", time.Now().Format("20060102"), employeeID, suffix)
}

func buildContractView(contract models.Contract, employee models.Employee) ContractView {
	return ContractView{
		ID:                  contract.ID,
		EmployeeID:          contract.EmployeeID,
		EmployeeName:        employee.User.FullName(),
		ContractNumber:      contract.ContractNumber,
		StartDate:           contract.StartDate,
		EndDate:             contract.EndDate,
		HourlyRate:          contract.HourlyRate,
		Currency:            contract.Currency,
		WorkingHoursPerWeek: contract.WorkingHoursPerWeek,
		PdfPath:             contract.PdfPath,
		Status:              contract.Status,
		CreatedAt:           contract.CreatedAt,
	}
}
