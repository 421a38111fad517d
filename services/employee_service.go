package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"hr-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EmployeeService owns employee records and the "current room" view on
// top of the allocation history. Room changes coming from the employee
// edit flow are desired-state: the service figures out whether a
// checkout, a check-in or nothing at all is needed.
type EmployeeService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewEmployeeService(db *gorm.DB, audit *AuditService) *EmployeeService {
	return &EmployeeService{DB: db, Audit: audit}
}

type EmployeeView struct {
	ID             uint       `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	IsActive       bool       `json:"isActive"`
	TaxID          *string    `json:"taxId,omitempty"`
	TajNumber      *string    `json:"tajNumber,omitempty"`
	IDCardNumber   *string    `json:"idCardNumber,omitempty"`
	PrimaryAddress string     `json:"primaryAddress,omitempty"`
	PhoneNumber    string     `json:"phoneNumber,omitempty"`
	Nationality    string     `json:"nationality,omitempty"`
	BirthDate      *time.Time `json:"birthDate,omitempty"`
	CompanyName    string     `json:"companyName,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	RoomNumber     *string    `json:"roomNumber,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type RoomOccupantView struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Email       string `json:"email"`
}

type MyRoomInfo struct {
	RoomID               uint               `json:"roomId"`
	RoomNumber           string             `json:"roomNumber"`
	AccommodationName    string             `json:"accommodationName"`
	AccommodationAddress string             `json:"accommodationAddress"`
	RoomCapacity         int                `json:"roomCapacity"`
	CheckInDate          time.Time          `json:"checkInDate"`
	Occupants            []RoomOccupantView `json:"occupants"`
}

// GetAllEmployees lists EMPLOYEE-role staff with optional active
// filter and name/email search, ordered by last name then first name.
func (s *EmployeeService) GetAllEmployees(isActive *bool, search string) ([]EmployeeView, error) {
	query := s.DB.Model(&models.Employee{}).
		Joins("JOIN users ON users.id = employees.user_id").
		Where("users.role = ?", models.RoleEmployee).
		Preload("User")

	if isActive != nil {
		query = query.Where("users.is_active = ?", *isActive)
	}
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ? OR LOWER(users.email) LIKE ?",
			like, like, like)
	}

	var employees []models.Employee
	if err := query.Order("users.last_name ASC").Order("users.first_name ASC").Find(&employees).Error; err != nil {
		return nil, err
	}

	views := make([]EmployeeView, 0, len(employees))
	for i := range employees {
		view, err := s.buildEmployeeView(&employees[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *EmployeeService) GetEmployeeByID(id uint) (*EmployeeView, error) {
	var employee models.Employee
	if err := s.DB.Preload("User").First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Employee not found")
		}
		return nil, err
	}
	return s.buildEmployeeView(&employee)
}

// GetEmployeeByUserID backs the /employees/me view: employees reach
// their own record through their user identity, not the employee id.
func (s *EmployeeService) GetEmployeeByUserID(userID uint) (*EmployeeView, error) {
	employee, err := s.findByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.buildEmployeeView(employee)
}

// GetMyRoomInfo returns the caller's current room and roommates.
func (s *EmployeeService) GetMyRoomInfo(userID uint) (*MyRoomInfo, error) {
	employee, err := s.findByUserID(userID)
	if err != nil {
		return nil, err
	}

	allocation, err := s.activeAllocation(s.DB, employee.ID)
	if err != nil {
		return nil, err
	}
	if allocation == nil {
		return nil, NotFound("You are not currently assigned to a room")
	}

	var roommates []models.RoomAllocation
	err = s.DB.Preload("Employee.User").
		Where("room_id = ? AND status = ?", allocation.RoomID, models.AllocationActive).
		Order("id ASC").
		Find(&roommates).Error
	if err != nil {
		return nil, err
	}

	occupants := make([]RoomOccupantView, 0, len(roommates))
	for _, roommate := range roommates {
		occupants = append(occupants, RoomOccupantView{
			Name:        roommate.Employee.User.FullName(),
			PhoneNumber: roommate.Employee.PhoneNumber,
			Email:       roommate.Employee.User.Email,
		})
	}

	return &MyRoomInfo{
		RoomID:               allocation.Room.ID,
		RoomNumber:           allocation.Room.RoomNumber,
		AccommodationName:    allocation.Room.Accommodation.Name,
		AccommodationAddress: allocation.Room.Accommodation.Address,
		RoomCapacity:         allocation.Room.Capacity,
		CheckInDate:          allocation.CheckInDate,
		Occupants:            occupants,
	}, nil
}

// GetMyRoomHistory returns the caller's allocations, newest first.
func (s *EmployeeService) GetMyRoomHistory(userID uint) ([]AllocationView, error) {
	employee, err := s.findByUserID(userID)
	if err != nil {
		return nil, err
	}

	var allocations []models.RoomAllocation
	err = s.DB.Preload("Room").
		Where("employee_id = ?", employee.ID).
		Order("check_in_date DESC").
		Order("id ASC").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	views := make([]AllocationView, 0, len(allocations))
	for _, allocation := range allocations {
		views = append(views, AllocationView{
			ID:           allocation.ID,
			RoomID:       allocation.RoomID,
			RoomNumber:   allocation.Room.RoomNumber,
			EmployeeID:   employee.ID,
			EmployeeName: employee.User.FullName(),
			CheckInDate:  allocation.CheckInDate,
			CheckOutDate: allocation.CheckOutDate,
			Status:       allocation.Status,
		})
	}
	return views, nil
}

type CreateEmployeeInput struct {
	FirstName      string     `json:"firstName" binding:"required"`
	LastName       string     `json:"lastName" binding:"required"`
	Email          string     `json:"email" binding:"required,email"`
	Password       string     `json:"password" binding:"required,min=6"`
	Role           string     `json:"role"`
	TaxID          *string    `json:"taxId"`
	TajNumber      *string    `json:"tajNumber"`
	IDCardNumber   *string    `json:"idCardNumber"`
	PrimaryAddress string     `json:"primaryAddress"`
	PhoneNumber    string     `json:"phoneNumber"`
	Nationality    string     `json:"nationality"`
	BirthDate      *time.Time `json:"birthDate"`
	CompanyName    string     `json:"companyName"`
	StartDate      *time.Time `json:"startDate"`
}

// CreateEmployee creates the user identity and the employee record in
// one transaction. HR may only create EMPLOYEE accounts; ADMIN may
// create any role.
func (s *EmployeeService) CreateEmployee(actor *Actor, ip string, input CreateEmployeeInput) (*EmployeeView, error) {
	if actor == nil {
		return nil, Unauthorized("Authentication required to create users")
	}
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleHR {
		return nil, Forbidden("You do not have permission to create users. Only ADMIN and HR roles can create users.")
	}

	targetRole := input.Role
	if targetRole == "" {
		targetRole = models.RoleEmployee
	}
	if targetRole != models.RoleAdmin && targetRole != models.RoleHR && targetRole != models.RoleEmployee {
		return nil, BadRequest("Invalid role: %s", input.Role)
	}
	if (targetRole == models.RoleAdmin || targetRole == models.RoleHR) && actor.Role != models.RoleAdmin {
		return nil, Forbidden("Only ADMIN users can create ADMIN or HR accounts. Current role: %s", actor.Role)
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, Conflict("Email already exists")
	}
	if err := s.checkUniqueIdentifiers(0, input.TaxID, input.TajNumber, input.IDCardNumber); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	employee := models.Employee{
		User: models.User{
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Email:     input.Email,
			Password:  string(hash),
			Role:      targetRole,
			IsActive:  true,
		},
		TaxID:          input.TaxID,
		TajNumber:      input.TajNumber,
		IDCardNumber:   input.IDCardNumber,
		PrimaryAddress: input.PrimaryAddress,
		PhoneNumber:    input.PhoneNumber,
		Nationality:    input.Nationality,
		BirthDate:      input.BirthDate,
		CompanyName:    input.CompanyName,
		StartDate:      input.StartDate,
	}
	if err := s.DB.Create(&employee).Error; err != nil {
		return nil, err
	}

	s.Audit.Record(actor, ip, "Employee", employee.ID, models.AuditCreate,
		"Created employee: "+input.FirstName+" "+input.LastName+" ("+input.Email+") with role "+targetRole,
		nil,
		map[string]any{
			"id":          employee.ID,
			"firstName":   employee.User.FirstName,
			"lastName":    employee.User.LastName,
			"email":       employee.User.Email,
			"role":        employee.User.Role,
			"taxId":       employee.TaxID,
			"tajNumber":   employee.TajNumber,
			"companyName": employee.CompanyName,
			"phoneNumber": employee.PhoneNumber,
			"isActive":    employee.User.IsActive,
		})

	return s.buildEmployeeView(&employee)
}

type UpdateEmployeeInput struct {
	FirstName      *string    `json:"firstName"`
	LastName       *string    `json:"lastName"`
	Email          *string    `json:"email"`
	IsActive       *bool      `json:"isActive"`
	TaxID          *string    `json:"taxId"`
	TajNumber      *string    `json:"tajNumber"`
	IDCardNumber   *string    `json:"idCardNumber"`
	PrimaryAddress *string    `json:"primaryAddress"`
	PhoneNumber    *string    `json:"phoneNumber"`
	Nationality    *string    `json:"nationality"`
	CompanyName    *string    `json:"companyName"`
	StartDate      *time.Time `json:"startDate"`
	RoomNumber     *string    `json:"roomNumber"`
}

// UpdateEmployee applies a partial update. A present roomNumber field
// triggers the desired-state room reassignment; birth date is
// deliberately not updatable.
func (s *EmployeeService) UpdateEmployee(actor *Actor, ip string, id uint, input UpdateEmployeeInput) (*EmployeeView, error) {
	var employee models.Employee
	if err := s.DB.Preload("User").First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Employee not found")
		}
		return nil, err
	}

	oldRoom, err := s.CurrentRoomNumber(employee.ID)
	if err != nil {
		return nil, err
	}
	oldValue := s.snapshot(&employee, oldRoom)

	if input.Email != nil && *input.Email != employee.User.Email {
		var count int64
		err := s.DB.Model(&models.User{}).
			Where("email = ? AND id <> ?", *input.Email, employee.UserID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, Conflict("Email already exists")
		}
		employee.User.Email = *input.Email
	}
	if input.FirstName != nil {
		employee.User.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		employee.User.LastName = *input.LastName
	}
	if input.IsActive != nil {
		employee.User.IsActive = *input.IsActive
	}

	if err := s.checkUniqueIdentifiers(employee.ID, input.TaxID, input.TajNumber, input.IDCardNumber); err != nil {
		return nil, err
	}
	if input.TaxID != nil {
		employee.TaxID = input.TaxID
	}
	if input.TajNumber != nil {
		employee.TajNumber = input.TajNumber
	}
	if input.IDCardNumber != nil {
		employee.IDCardNumber = input.IDCardNumber
	}
	if input.PrimaryAddress != nil {
		employee.PrimaryAddress = *input.PrimaryAddress
	}
	if input.PhoneNumber != nil {
		employee.PhoneNumber = *input.PhoneNumber
	}
	if input.Nationality != nil {
		employee.Nationality = *input.Nationality
	}
	if input.CompanyName != nil {
		employee.CompanyName = *input.CompanyName
	}
	if input.StartDate != nil {
		employee.StartDate = input.StartDate
	}

	if input.RoomNumber != nil {
		if err := s.ReassignRoom(&employee, *input.RoomNumber); err != nil {
			return nil, err
		}
	}

	if err := s.DB.Save(&employee.User).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Save(&employee).Error; err != nil {
		return nil, err
	}

	newRoom, err := s.CurrentRoomNumber(employee.ID)
	if err != nil {
		return nil, err
	}

	s.Audit.Record(actor, ip, "Employee", employee.ID, models.AuditUpdate,
		"Updated employee: "+employee.User.FullName()+" ("+employee.User.Email+")",
		oldValue,
		s.snapshot(&employee, newRoom))

	return s.buildEmployeeView(&employee)
}

// ReassignRoom moves an employee to the room with the given number,
// checking the current allocation out first. Passing the current room
// number is a no-op; passing an empty or "null" number just unassigns.
// The whole move runs in one transaction: a failed check-in (unknown
// room, full room) rolls the checkout back, so the employee is never
// left without their old allocation. The check-in side reuses the same
// guarded INSERT as a direct allocation, so capacity cannot be
// overshot by concurrent edits.
func (s *EmployeeService) ReassignRoom(employee *models.Employee, newRoomNumber string) error {
	newRoomNumber = strings.TrimSpace(newRoomNumber)
	unassign := newRoomNumber == "" || strings.EqualFold(newRoomNumber, "null")

	return s.DB.Transaction(func(tx *gorm.DB) error {
		current, err := s.activeAllocation(tx, employee.ID)
		if err != nil {
			return err
		}

		if current != nil {
			if !unassign && strings.EqualFold(current.Room.RoomNumber, newRoomNumber) {
				return nil
			}
			result := tx.Model(&models.RoomAllocation{}).
				Where("id = ? AND status = ?", current.ID, models.AllocationActive).
				Updates(map[string]any{
					"status":         models.AllocationCheckedOut,
					"check_out_date": today(),
				})
			if result.Error != nil {
				return result.Error
			}
		}

		if unassign {
			return nil
		}

		var room models.Room
		err = tx.Where("LOWER(room_number) = LOWER(?)", newRoomNumber).First(&room).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("Room %s not found", newRoomNumber)
			}
			return err
		}

		result := tx.Exec(`
			INSERT INTO room_allocations (room_id, employee_id, check_in_date, status, created_at)
			SELECT r.id, ?, ?, ?, ?
			FROM rooms r
			WHERE r.id = ?
			  AND (SELECT COUNT(*) FROM room_allocations a WHERE a.room_id = r.id AND a.status = ?) < r.capacity
			  AND NOT EXISTS (SELECT 1 FROM room_allocations a2 WHERE a2.employee_id = ? AND a2.status = ?)`,
			employee.ID, today(), models.AllocationActive, time.Now(),
			room.ID, models.AllocationActive,
			employee.ID, models.AllocationActive)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return Conflict("Room %s is at full capacity", newRoomNumber)
		}
		return nil
	})
}

// DeleteEmployee deactivates the employee's user account. There is no
// hard delete: allocation history and audit entries must survive the
// employee leaving.
func (s *EmployeeService) DeleteEmployee(actor *Actor, ip string, id uint) error {
	var employee models.Employee
	if err := s.DB.Preload("User").First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Employee not found")
		}
		return err
	}

	if err := s.DB.Model(&employee.User).Update("is_active", false).Error; err != nil {
		return err
	}

	s.Audit.Record(actor, ip, "Employee", employee.ID, models.AuditDelete,
		"Deactivated employee: "+employee.User.FullName()+" ("+employee.User.Email+")",
		nil, nil)
	return nil
}

// CurrentRoomNumber resolves the employee's current room from the
// single ACTIVE allocation, or nil when unassigned. More than one
// ACTIVE row means the one-active-allocation invariant is broken in
// the store; that is logged loudly and the oldest row wins so the
// answer stays deterministic.
func (s *EmployeeService) CurrentRoomNumber(employeeID uint) (*string, error) {
	var allocations []models.RoomAllocation
	err := s.DB.Preload("Room").
		Where("employee_id = ? AND status = ?", employeeID, models.AllocationActive).
		Order("id ASC").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}
	if len(allocations) == 0 {
		return nil, nil
	}
	if len(allocations) > 1 {
		log.Printf("WARNING: employee %d has %d active room allocations, expected at most one", employeeID, len(allocations))
	}
	number := allocations[0].Room.RoomNumber
	return &number, nil
}

func (s *EmployeeService) findByUserID(userID uint) (*models.Employee, error) {
	var employee models.Employee
	err := s.DB.Preload("User").Where("user_id = ?", userID).First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Employee profile not found")
		}
		return nil, err
	}
	return &employee, nil
}

func (s *EmployeeService) activeAllocation(db *gorm.DB, employeeID uint) (*models.RoomAllocation, error) {
	var allocation models.RoomAllocation
	err := db.Preload("Room.Accommodation").
		Where("employee_id = ? AND status = ?", employeeID, models.AllocationActive).
		Order("id ASC").
		First(&allocation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &allocation, nil
}

func (s *EmployeeService) checkUniqueIdentifiers(selfID uint, taxID, tajNumber, idCardNumber *string) error {
	checks := []struct {
		column  string
		value   *string
		message string
	}{
		{"tax_id", taxID, "Tax ID already exists for another employee"},
		{"taj_number", tajNumber, "TAJ number already exists for another employee"},
		{"id_card_number", idCardNumber, "ID card number already exists for another employee"},
	}
	for _, check := range checks {
		if check.value == nil || *check.value == "" {
			continue
		}
		var count int64
		query := s.DB.Model(&models.Employee{}).Where(check.column+" = ?", *check.value)
		if selfID != 0 {
			query = query.Where("id <> ?", selfID)
		}
		if err := query.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return Conflict("%s", check.message)
		}
	}
	return nil
}

func (s *EmployeeService) snapshot(employee *models.Employee, roomNumber *string) map[string]any {
	return map[string]any{
		"firstName":      employee.User.FirstName,
		"lastName":       employee.User.LastName,
		"email":          employee.User.Email,
		"taxId":          employee.TaxID,
		"tajNumber":      employee.TajNumber,
		"idCardNumber":   employee.IDCardNumber,
		"companyName":    employee.CompanyName,
		"phoneNumber":    employee.PhoneNumber,
		"nationality":    employee.Nationality,
		"primaryAddress": employee.PrimaryAddress,
		"isActive":       employee.User.IsActive,
		"roomNumber":     roomNumber,
	}
}

func (s *EmployeeService) buildEmployeeView(employee *models.Employee) (*EmployeeView, error) {
	roomNumber, err := s.CurrentRoomNumber(employee.ID)
	if err != nil {
		return nil, err
	}
	return &EmployeeView{
		ID:             employee.ID,
		FirstName:      employee.User.FirstName,
		LastName:       employee.User.LastName,
		Email:          employee.User.Email,
		Role:           employee.User.Role,
		IsActive:       employee.User.IsActive,
		TaxID:          employee.TaxID,
		TajNumber:      employee.TajNumber,
		IDCardNumber:   employee.IDCardNumber,
		PrimaryAddress: employee.PrimaryAddress,
		PhoneNumber:    employee.PhoneNumber,
		Nationality:    employee.Nationality,
		BirthDate:      employee.BirthDate,
		CompanyName:    employee.CompanyName,
		StartDate:      employee.StartDate,
		RoomNumber:     roomNumber,
		CreatedAt:      employee.CreatedAt,
	}, nil
}
