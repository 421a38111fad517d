package services

import (
	"errors"
	"strings"
	"time"

	"hr-backend/models"

	"gorm.io/gorm"
)

// AccommodationService owns buildings, rooms and room allocations,
// including the check-in/check-out rules: an employee holds at most
// one ACTIVE allocation, and a room never holds more ACTIVE
// allocations than its capacity.
type AccommodationService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewAccommodationService(db *gorm.DB, audit *AuditService) *AccommodationService {
	return &AccommodationService{DB: db, Audit: audit}
}

type AccommodationView struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	ManagerContact string    `json:"managerContact,omitempty"`
	TotalCapacity  int       `json:"totalCapacity"`
	RoomCount      int       `json:"roomCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Occupant struct {
	AllocationID uint      `json:"allocationId"`
	EmployeeID   uint      `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	CompanyName  string    `json:"companyName,omitempty"`
	CheckInDate  time.Time `json:"checkInDate"`
}

type RoomView struct {
	ID                uint       `json:"id"`
	AccommodationID   uint       `json:"accommodationId"`
	AccommodationName string     `json:"accommodationName,omitempty"`
	RoomNumber        string     `json:"roomNumber"`
	Capacity          int        `json:"capacity"`
	CurrentOccupancy  int        `json:"currentOccupancy"`
	Available         bool       `json:"available"`
	CurrentOccupants  []Occupant `json:"currentOccupants"`
}

type AllocationView struct {
	ID           uint       `json:"id"`
	RoomID       uint       `json:"roomId"`
	RoomNumber   string     `json:"roomNumber"`
	EmployeeID   uint       `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	CheckInDate  time.Time  `json:"checkInDate"`
	CheckOutDate *time.Time `json:"checkOutDate,omitempty"`
	Status       string     `json:"status"`
}

// today returns the current date truncated to midnight UTC; check-in
// and check-out dates carry no time component.
func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GetAllAccommodations lists buildings with their derived total
// capacity. The capacity is summed from the current room set on every
// call and is never stored.
func (s *AccommodationService) GetAllAccommodations() ([]AccommodationView, error) {
	var accommodations []models.Accommodation
	if err := s.DB.Preload("Rooms").Order("name ASC").Find(&accommodations).Error; err != nil {
		return nil, err
	}

	views := make([]AccommodationView, 0, len(accommodations))
	for _, a := range accommodations {
		views = append(views, AccommodationView{
			ID:             a.ID,
			Name:           a.Name,
			Address:        a.Address,
			ManagerContact: a.ManagerContact,
			TotalCapacity:  a.TotalCapacity(),
			RoomCount:      len(a.Rooms),
			CreatedAt:      a.CreatedAt,
		})
	}
	return views, nil
}

func (s *AccommodationService) CreateAccommodation(actor *Actor, ip, name, address, managerContact string) (*AccommodationView, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(address) == "" {
		return nil, BadRequest("Name and address are required")
	}

	accommodation := models.Accommodation{
		Name:           strings.TrimSpace(name),
		Address:        strings.TrimSpace(address),
		ManagerContact: strings.TrimSpace(managerContact),
	}
	if err := s.DB.Create(&accommodation).Error; err != nil {
		return nil, err
	}

	s.Audit.Record(actor, ip, "Accommodation", accommodation.ID, models.AuditCreate,
		"Created accommodation: "+accommodation.Name+" at "+accommodation.Address,
		nil,
		map[string]any{
			"id":             accommodation.ID,
			"name":           accommodation.Name,
			"address":        accommodation.Address,
			"managerContact": accommodation.ManagerContact,
			"totalCapacity":  0,
		})

	view := AccommodationView{
		ID:             accommodation.ID,
		Name:           accommodation.Name,
		Address:        accommodation.Address,
		ManagerContact: accommodation.ManagerContact,
		CreatedAt:      accommodation.CreatedAt,
	}
	return &view, nil
}

type UpdateAccommodationInput struct {
	Name           *string `json:"name"`
	Address        *string `json:"address"`
	ManagerContact *string `json:"managerContact"`
}

func (s *AccommodationService) UpdateAccommodation(actor *Actor, ip string, id uint, input UpdateAccommodationInput) (*AccommodationView, error) {
	var accommodation models.Accommodation
	if err := s.DB.Preload("Rooms").First(&accommodation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Accommodation not found")
		}
		return nil, err
	}

	oldValue := map[string]any{
		"name":           accommodation.Name,
		"address":        accommodation.Address,
		"managerContact": accommodation.ManagerContact,
		"totalCapacity":  accommodation.TotalCapacity(),
	}

	if input.Name != nil {
		accommodation.Name = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		accommodation.Address = strings.TrimSpace(*input.Address)
	}
	if input.ManagerContact != nil {
		accommodation.ManagerContact = strings.TrimSpace(*input.ManagerContact)
	}

	if err := s.DB.Save(&accommodation).Error; err != nil {
		return nil, err
	}

	s.Audit.Record(actor, ip, "Accommodation", accommodation.ID, models.AuditUpdate,
		"Updated accommodation: "+accommodation.Name,
		oldValue,
		map[string]any{
			"name":           accommodation.Name,
			"address":        accommodation.Address,
			"managerContact": accommodation.ManagerContact,
			"totalCapacity":  accommodation.TotalCapacity(),
		})

	view := AccommodationView{
		ID:             accommodation.ID,
		Name:           accommodation.Name,
		Address:        accommodation.Address,
		ManagerContact: accommodation.ManagerContact,
		TotalCapacity:  accommodation.TotalCapacity(),
		RoomCount:      len(accommodation.Rooms),
		CreatedAt:      accommodation.CreatedAt,
	}
	return &view, nil
}

// TotalCapacity aggregates the capacity of an accommodation's current
// rooms with a live query.
func (s *AccommodationService) TotalCapacity(accommodationID uint) (int, error) {
	var total int64
	err := s.DB.Model(&models.Room{}).
		Where("accommodation_id = ?", accommodationID).
		Select("COALESCE(SUM(capacity), 0)").
		Scan(&total).Error
	return int(total), err
}

func (s *AccommodationService) CreateRoom(actor *Actor, ip string, accommodationID uint, roomNumber string, capacity int) (*RoomView, error) {
	var accommodation models.Accommodation
	if err := s.DB.First(&accommodation, accommodationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Accommodation not found")
		}
		return nil, err
	}

	roomNumber = strings.TrimSpace(roomNumber)
	if roomNumber == "" {
		return nil, BadRequest("Room number is required")
	}
	if capacity <= 0 {
		return nil, BadRequest("Capacity must be a positive number")
	}

	var count int64
	err := s.DB.Model(&models.Room{}).
		Where("accommodation_id = ? AND LOWER(room_number) = LOWER(?)", accommodationID, roomNumber).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, Conflict("Room number %s already exists in this accommodation", roomNumber)
	}

	room := models.Room{
		AccommodationID: accommodationID,
		RoomNumber:      roomNumber,
		Capacity:        capacity,
	}
	if err := s.DB.Create(&room).Error; err != nil {
		return nil, err
	}

	s.Audit.Record(actor, ip, "Room", room.ID, models.AuditCreate,
		"Created room "+room.RoomNumber+" in accommodation "+accommodation.Name,
		nil,
		map[string]any{
			"id":                room.ID,
			"roomNumber":        room.RoomNumber,
			"capacity":          room.Capacity,
			"accommodationId":   accommodation.ID,
			"accommodationName": accommodation.Name,
		})

	return s.buildRoomView(room, accommodation.Name)
}

type UpdateRoomInput struct {
	RoomNumber *string `json:"roomNumber"`
	Capacity   *int    `json:"capacity"`
}

// UpdateRoom changes the room number and/or capacity. Capacity changes
// go through a guarded UPDATE so the new value can never drop below
// the number of employees currently checked in, even under concurrent
// check-ins.
func (s *AccommodationService) UpdateRoom(actor *Actor, ip string, roomID uint, input UpdateRoomInput) (*RoomView, error) {
	var room models.Room
	if err := s.DB.Preload("Accommodation").First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Room not found")
		}
		return nil, err
	}

	oldValue := map[string]any{
		"roomNumber": room.RoomNumber,
		"capacity":   room.Capacity,
	}

	if input.RoomNumber != nil {
		newNumber := strings.TrimSpace(*input.RoomNumber)
		if newNumber == "" {
			return nil, BadRequest("Room number is required")
		}
		if !strings.EqualFold(newNumber, room.RoomNumber) {
			var count int64
			err := s.DB.Model(&models.Room{}).
				Where("accommodation_id = ? AND LOWER(room_number) = LOWER(?) AND id <> ?",
					room.AccommodationID, newNumber, room.ID).
				Count(&count).Error
			if err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, Conflict("Room number %s already exists in this accommodation", newNumber)
			}
		}
		if err := s.DB.Model(&room).Update("room_number", newNumber).Error; err != nil {
			return nil, err
		}
		room.RoomNumber = newNumber
	}

	if input.Capacity != nil {
		newCapacity := *input.Capacity
		if newCapacity <= 0 {
			return nil, BadRequest("Capacity must be a positive number")
		}

		result := s.DB.Exec(`
			UPDATE rooms SET capacity = ?, updated_at = ?
			WHERE id = ?
			  AND ? >= (SELECT COUNT(*) FROM room_allocations WHERE room_id = ? AND status = ?)`,
			newCapacity, time.Now(), room.ID, newCapacity, room.ID, models.AllocationActive)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			occupancy, err := s.activeCount(room.ID)
			if err != nil {
				return nil, err
			}
			return nil, Conflict("Cannot reduce capacity below current occupancy (%d occupants)", occupancy)
		}
		room.Capacity = newCapacity
	}

	s.Audit.Record(actor, ip, "Room", room.ID, models.AuditUpdate,
		"Updated room "+room.RoomNumber+" in accommodation "+room.Accommodation.Name,
		oldValue,
		map[string]any{
			"roomNumber": room.RoomNumber,
			"capacity":   room.Capacity,
		})

	return s.buildRoomView(room, room.Accommodation.Name)
}

// DeleteRoom removes a room that has no one checked in. The check and
// the delete are one statement, so a concurrent check-in cannot slip
// between them.
func (s *AccommodationService) DeleteRoom(actor *Actor, ip string, roomID uint) error {
	var room models.Room
	if err := s.DB.Preload("Accommodation").First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Room not found")
		}
		return err
	}

	result := s.DB.Exec(`
		DELETE FROM rooms
		WHERE id = ?
		  AND NOT EXISTS (SELECT 1 FROM room_allocations WHERE room_id = ? AND status = ?)`,
		roomID, roomID, models.AllocationActive)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		occupancy, err := s.activeCount(roomID)
		if err != nil {
			return err
		}
		return Conflict("Cannot delete room with active allocations. Currently %d employee(s) living here.", occupancy)
	}

	s.Audit.Record(actor, ip, "Room", room.ID, models.AuditDelete,
		"Deleted room "+room.RoomNumber+" from accommodation "+room.Accommodation.Name,
		nil, nil)
	return nil
}

// GetRoomsByAccommodation lists the rooms of one building with their
// current occupants.
func (s *AccommodationService) GetRoomsByAccommodation(accommodationID uint) ([]RoomView, error) {
	var accommodation models.Accommodation
	if err := s.DB.First(&accommodation, accommodationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Accommodation not found")
		}
		return nil, err
	}

	var rooms []models.Room
	if err := s.DB.Where("accommodation_id = ?", accommodationID).Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}

	views := make([]RoomView, 0, len(rooms))
	for _, room := range rooms {
		view, err := s.buildRoomView(room, accommodation.Name)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// GetAllRooms lists every room across accommodations with occupancy,
// used by dashboard-style views and the room picker.
func (s *AccommodationService) GetAllRooms() ([]RoomView, error) {
	var rooms []models.Room
	if err := s.DB.Preload("Accommodation").Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}

	views := make([]RoomView, 0, len(rooms))
	for _, room := range rooms {
		view, err := s.buildRoomView(room, room.Accommodation.Name)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// CreateAllocation checks an employee into a room. The two business
// invariants (room below capacity, employee not already checked in
// somewhere) are enforced by the guarded INSERT itself: the row is
// only written when both conditions hold at the moment the statement
// executes, so two concurrent check-ins cannot both take the last
// free place.
func (s *AccommodationService) CreateAllocation(actor *Actor, ip string, roomID, employeeID uint, checkInDate *time.Time) (*AllocationView, error) {
	var room models.Room
	if err := s.DB.Preload("Accommodation").First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Room not found")
		}
		return nil, err
	}

	var employee models.Employee
	if err := s.DB.Preload("User").First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Employee not found")
		}
		return nil, err
	}

	checkIn := today()
	if checkInDate != nil {
		checkIn = *checkInDate
	}

	result := s.DB.Exec(`
		INSERT INTO room_allocations (room_id, employee_id, check_in_date, status, created_at)
		SELECT r.id, ?, ?, ?, ?
		FROM rooms r
		WHERE r.id = ?
		  AND (SELECT COUNT(*) FROM room_allocations a WHERE a.room_id = r.id AND a.status = ?) < r.capacity
		  AND NOT EXISTS (SELECT 1 FROM room_allocations a2 WHERE a2.employee_id = ? AND a2.status = ?)`,
		employee.ID, checkIn, models.AllocationActive, time.Now(),
		room.ID, models.AllocationActive,
		employee.ID, models.AllocationActive)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, s.allocationConflict(room, employee.ID)
	}

	var allocation models.RoomAllocation
	err := s.DB.
		Where("room_id = ? AND employee_id = ? AND status = ?", room.ID, employee.ID, models.AllocationActive).
		Order("id DESC").
		First(&allocation).Error
	if err != nil {
		return nil, err
	}

	employeeName := employee.User.FullName()
	s.Audit.Record(actor, ip, "RoomAllocation", allocation.ID, models.AuditCreate,
		"Employee "+employeeName+" checked into room "+room.RoomNumber+
			" (accommodation: "+room.Accommodation.Name+")",
		nil,
		map[string]any{
			"id":           allocation.ID,
			"roomId":       room.ID,
			"roomNumber":   room.RoomNumber,
			"employeeId":   employee.ID,
			"employeeName": employeeName,
			"checkInDate":  allocation.CheckInDate,
			"status":       allocation.Status,
		})

	return &AllocationView{
		ID:           allocation.ID,
		RoomID:       room.ID,
		RoomNumber:   room.RoomNumber,
		EmployeeID:   employee.ID,
		EmployeeName: employeeName,
		CheckInDate:  allocation.CheckInDate,
		Status:       allocation.Status,
	}, nil
}

// allocationConflict reports which invariant rejected a guarded
// allocation insert.
func (s *AccommodationService) allocationConflict(room models.Room, employeeID uint) error {
	var active models.RoomAllocation
	err := s.DB.Preload("Room").
		Where("employee_id = ? AND status = ?", employeeID, models.AllocationActive).
		First(&active).Error
	if err == nil {
		return Conflict("Employee already has an active room allocation in room %s", active.Room.RoomNumber)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return Conflict("Room is at full capacity")
}

// CheckOut closes an active allocation. The status flip is a guarded
// UPDATE on the ACTIVE row, so checking out twice reports a conflict
// and the terminal state is untouched.
func (s *AccommodationService) CheckOut(actor *Actor, ip string, allocationID uint, checkOutDate *time.Time) (*AllocationView, error) {
	var allocation models.RoomAllocation
	err := s.DB.
		Preload("Room.Accommodation").
		Preload("Employee.User").
		First(&allocation, allocationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Allocation not found")
		}
		return nil, err
	}

	checkOut := today()
	if checkOutDate != nil {
		checkOut = *checkOutDate
	}

	result := s.DB.Model(&models.RoomAllocation{}).
		Where("id = ? AND status = ?", allocationID, models.AllocationActive).
		Updates(map[string]any{
			"status":         models.AllocationCheckedOut,
			"check_out_date": checkOut,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, Conflict("Employee already checked out")
	}

	employeeName := allocation.Employee.User.FullName()
	s.Audit.Record(actor, ip, "RoomAllocation", allocation.ID, models.AuditUpdate,
		"Employee "+employeeName+" checked out from room "+allocation.Room.RoomNumber+
			" (accommodation: "+allocation.Room.Accommodation.Name+")",
		map[string]any{
			"status":       models.AllocationActive,
			"checkOutDate": nil,
		},
		map[string]any{
			"status":       models.AllocationCheckedOut,
			"checkOutDate": checkOut,
		})

	return &AllocationView{
		ID:           allocation.ID,
		RoomID:       allocation.RoomID,
		RoomNumber:   allocation.Room.RoomNumber,
		EmployeeID:   allocation.EmployeeID,
		EmployeeName: employeeName,
		CheckInDate:  allocation.CheckInDate,
		CheckOutDate: &checkOut,
		Status:       models.AllocationCheckedOut,
	}, nil
}

// GetEmployeeRoomHistory returns every stay of one employee, most
// recent check-in first; equal dates fall back to insertion order
// (id ascending).
func (s *AccommodationService) GetEmployeeRoomHistory(employeeID uint) ([]AllocationView, error) {
	var employee models.Employee
	if err := s.DB.Preload("User").First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Employee not found")
		}
		return nil, err
	}

	var allocations []models.RoomAllocation
	err := s.DB.Preload("Room").
		Where("employee_id = ?", employeeID).
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
			EmployeeID:   employeeID,
			EmployeeName: employee.User.FullName(),
			CheckInDate:  allocation.CheckInDate,
			CheckOutDate: allocation.CheckOutDate,
			Status:       allocation.Status,
		})
	}
	return views, nil
}

// GetAvailableRooms lists only rooms with at least one free place.
func (s *AccommodationService) GetAvailableRooms() ([]RoomView, error) {
	rooms, err := s.GetAllRooms()
	if err != nil {
		return nil, err
	}
	available := make([]RoomView, 0, len(rooms))
	for _, room := range rooms {
		if room.Available {
			available = append(available, room)
		}
	}
	return available, nil
}

// GetRoomOccupancy returns one room with its current occupants.
func (s *AccommodationService) GetRoomOccupancy(roomID uint) (*RoomView, error) {
	var room models.Room
	if err := s.DB.Preload("Accommodation").First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Room not found")
		}
		return nil, err
	}
	return s.buildRoomView(room, room.Accommodation.Name)
}

func (s *AccommodationService) activeCount(roomID uint) (int, error) {
	var count int64
	err := s.DB.Model(&models.RoomAllocation{}).
		Where("room_id = ? AND status = ?", roomID, models.AllocationActive).
		Count(&count).Error
	return int(count), err
}

func (s *AccommodationService) buildRoomView(room models.Room, accommodationName string) (*RoomView, error) {
	var allocations []models.RoomAllocation
	err := s.DB.Preload("Employee.User").
		Where("room_id = ? AND status = ?", room.ID, models.AllocationActive).
		Order("id ASC").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	occupants := make([]Occupant, 0, len(allocations))
	for _, allocation := range allocations {
		occupants = append(occupants, Occupant{
			AllocationID: allocation.ID,
			EmployeeID:   allocation.EmployeeID,
			EmployeeName: allocation.Employee.User.FullName(),
			CompanyName:  allocation.Employee.CompanyName,
			CheckInDate:  allocation.CheckInDate,
		})
	}

	return &RoomView{
		ID:                room.ID,
		AccommodationID:   room.AccommodationID,
		AccommodationName: accommodationName,
		RoomNumber:        room.RoomNumber,
		Capacity:          room.Capacity,
		CurrentOccupancy:  len(allocations),
		Available:         len(allocations) < room.Capacity,
		CurrentOccupants:  occupants,
	}, nil
}
