package services

import (
	"testing"
	"time"

	"hr-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmployeeService(t *testing.T) (*EmployeeService, *AccommodationService) {
	db := newTestDB(t)
	audit := NewAuditService(db)
	return NewEmployeeService(db, audit), NewAccommodationService(db, audit)
}

func hrActor() *Actor {
	return &Actor{UserID: 2, Email: "hr@hr.local", Role: models.RoleHR}
}

func TestCreateEmployee(t *testing.T) {
	svc, _ := newEmployeeService(t)

	taxID := "1234567890"
	view, err := svc.CreateEmployee(adminActor(), "127.0.0.1", CreateEmployeeInput{
		FirstName: "Anna",
		LastName:  "Kiss",
		Email:     "anna@hr.local",
		Password:  "secret123",
		TaxID:     &taxID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, view.Role)
	assert.True(t, view.IsActive)
	assert.Nil(t, view.RoomNumber)

	// Both records exist and are linked.
	var employee models.Employee
	require.NoError(t, svc.DB.Preload("User").First(&employee, view.ID).Error)
	assert.Equal(t, "anna@hr.local", employee.User.Email)
	assert.NotEqual(t, "secret123", employee.User.Password)
}

func TestCreateEmployeeRoleRules(t *testing.T) {
	svc, _ := newEmployeeService(t)

	_, err := svc.CreateEmployee(nil, "", CreateEmployeeInput{
		FirstName: "A", LastName: "B", Email: "x@hr.local", Password: "secret123",
	})
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.Status)

	employeeActor := &Actor{UserID: 9, Email: "emp@hr.local", Role: models.RoleEmployee}
	_, err = svc.CreateEmployee(employeeActor, "", CreateEmployeeInput{
		FirstName: "A", LastName: "B", Email: "x@hr.local", Password: "secret123",
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)

	// HR may not create HR or ADMIN accounts.
	_, err = svc.CreateEmployee(hrActor(), "", CreateEmployeeInput{
		FirstName: "A", LastName: "B", Email: "x@hr.local", Password: "secret123",
		Role: models.RoleHR,
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)

	_, err = svc.CreateEmployee(hrActor(), "", CreateEmployeeInput{
		FirstName: "A", LastName: "B", Email: "x@hr.local", Password: "secret123",
		Role: models.RoleEmployee,
	})
	require.NoError(t, err)
}

func TestCreateEmployeeUniqueness(t *testing.T) {
	svc, _ := newEmployeeService(t)

	taxID := "1234567890"
	_, err := svc.CreateEmployee(adminActor(), "", CreateEmployeeInput{
		FirstName: "Anna", LastName: "Kiss", Email: "anna@hr.local", Password: "secret123",
		TaxID: &taxID,
	})
	require.NoError(t, err)

	var appErr *AppError
	_, err = svc.CreateEmployee(adminActor(), "", CreateEmployeeInput{
		FirstName: "Other", LastName: "Person", Email: "anna@hr.local", Password: "secret123",
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
	assert.Contains(t, appErr.Message, "Email already exists")

	_, err = svc.CreateEmployee(adminActor(), "", CreateEmployeeInput{
		FirstName: "Other", LastName: "Person", Email: "other@hr.local", Password: "secret123",
		TaxID: &taxID,
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
	assert.Contains(t, appErr.Message, "Tax ID already exists")
}

func TestUpdateEmployeeRoomAssignment(t *testing.T) {
	svc, accSvc := newEmployeeService(t)
	employee := createTestEmployee(t, svc.DB, "anna@hr.local")
	roomA := createTestRoom(t, svc.DB, 1)
	roomB := createTestRoom(t, svc.DB, 1)

	// Assign.
	view, err := svc.UpdateEmployee(adminActor(), "", employee.ID, UpdateEmployeeInput{
		RoomNumber: &roomA.RoomNumber,
	})
	require.NoError(t, err)
	require.NotNil(t, view.RoomNumber)
	assert.Equal(t, roomA.RoomNumber, *view.RoomNumber)

	// Same number again is a no-op: the allocation row stays.
	var before models.RoomAllocation
	require.NoError(t, svc.DB.Where("employee_id = ? AND status = ?", employee.ID, models.AllocationActive).First(&before).Error)

	_, err = svc.UpdateEmployee(adminActor(), "", employee.ID, UpdateEmployeeInput{
		RoomNumber: &roomA.RoomNumber,
	})
	require.NoError(t, err)

	var after models.RoomAllocation
	require.NoError(t, svc.DB.Where("employee_id = ? AND status = ?", employee.ID, models.AllocationActive).First(&after).Error)
	assert.Equal(t, before.ID, after.ID)

	// Move to another room: old stay is checked out, a new one opens.
	view, err = svc.UpdateEmployee(adminActor(), "", employee.ID, UpdateEmployeeInput{
		RoomNumber: &roomB.RoomNumber,
	})
	require.NoError(t, err)
	require.NotNil(t, view.RoomNumber)
	assert.Equal(t, roomB.RoomNumber, *view.RoomNumber)

	history, err := accSvc.GetEmployeeRoomHistory(employee.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.AllocationCheckedOut, history[0].Status)
	assert.Equal(t, models.AllocationActive, history[1].Status)

	// Unassign.
	empty := ""
	view, err = svc.UpdateEmployee(adminActor(), "", employee.ID, UpdateEmployeeInput{
		RoomNumber: &empty,
	})
	require.NoError(t, err)
	assert.Nil(t, view.RoomNumber)
}

func TestUpdateEmployeeRoomAssignmentFullRoom(t *testing.T) {
	svc, accSvc := newEmployeeService(t)
	room := createTestRoom(t, svc.DB, 1)
	occupant := createTestEmployee(t, svc.DB, "first@hr.local")
	employee := createTestEmployee(t, svc.DB, "second@hr.local")

	_, err := accSvc.CreateAllocation(adminActor(), "", room.ID, occupant.ID, nil)
	require.NoError(t, err)

	_, err = svc.UpdateEmployee(adminActor(), "", employee.ID, UpdateEmployeeInput{
		RoomNumber: &room.RoomNumber,
	})
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
	assert.Contains(t, appErr.Message, "full capacity")
}

func TestFailedReassignmentKeepsCurrentAllocation(t *testing.T) {
	svc, accSvc := newEmployeeService(t)
	employee := createTestEmployee(t, svc.DB, "anna@hr.local")
	home := createTestRoom(t, svc.DB, 1)
	fullRoom := createTestRoom(t, svc.DB, 1)
	occupant := createTestEmployee(t, svc.DB, "bela@hr.local")

	_, err := accSvc.CreateAllocation(adminActor(), "", home.ID, employee.ID, nil)
	require.NoError(t, err)
	_, err = accSvc.CreateAllocation(adminActor(), "", fullRoom.ID, occupant.ID, nil)
	require.NoError(t, err)

	activeIn := func() *models.RoomAllocation {
		var allocation models.RoomAllocation
		require.NoError(t, svc.DB.
			Where("employee_id = ? AND status = ?", employee.ID, models.AllocationActive).
			First(&allocation).Error)
		return &allocation
	}
	before := activeIn()

	// Unknown target room: the checkout of the current stay rolls back.
	number := "does-not-exist"
	_, err = svc.UpdateEmployee(adminActor(), "", employee.ID, UpdateEmployeeInput{RoomNumber: &number})
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)

	after := activeIn()
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, home.ID, after.RoomID)

	// Full target room: same, the old allocation stays ACTIVE.
	_, err = svc.UpdateEmployee(adminActor(), "", employee.ID, UpdateEmployeeInput{RoomNumber: &fullRoom.RoomNumber})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)

	after = activeIn()
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, home.ID, after.RoomID)
}

func TestUpdateEmployeeUnknownRoom(t *testing.T) {
	svc, _ := newEmployeeService(t)
	employee := createTestEmployee(t, svc.DB, "anna@hr.local")

	number := "does-not-exist"
	_, err := svc.UpdateEmployee(adminActor(), "", employee.ID, UpdateEmployeeInput{
		RoomNumber: &number,
	})
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestDeleteEmployeeIsSoft(t *testing.T) {
	svc, accSvc := newEmployeeService(t)
	employee := createTestEmployee(t, svc.DB, "anna@hr.local")
	room := createTestRoom(t, svc.DB, 1)

	_, err := accSvc.CreateAllocation(adminActor(), "", room.ID, employee.ID, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEmployee(adminActor(), "", employee.ID))

	var user models.User
	require.NoError(t, svc.DB.First(&user, employee.UserID).Error)
	assert.False(t, user.IsActive)

	// Employee record and allocation history stay.
	var count int64
	require.NoError(t, svc.DB.Model(&models.Employee{}).Where("id = ?", employee.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	require.NoError(t, svc.DB.Model(&models.RoomAllocation{}).Where("employee_id = ?", employee.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCurrentRoomNumber(t *testing.T) {
	svc, accSvc := newEmployeeService(t)
	employee := createTestEmployee(t, svc.DB, "anna@hr.local")
	room := createTestRoom(t, svc.DB, 2)

	number, err := svc.CurrentRoomNumber(employee.ID)
	require.NoError(t, err)
	assert.Nil(t, number)

	_, err = accSvc.CreateAllocation(adminActor(), "", room.ID, employee.ID, nil)
	require.NoError(t, err)

	number, err = svc.CurrentRoomNumber(employee.ID)
	require.NoError(t, err)
	require.NotNil(t, number)
	assert.Equal(t, room.RoomNumber, *number)
}

func TestCurrentRoomNumberToleratesCorruptedState(t *testing.T) {
	svc, _ := newEmployeeService(t)
	employee := createTestEmployee(t, svc.DB, "anna@hr.local")
	roomA := createTestRoom(t, svc.DB, 1)
	roomB := createTestRoom(t, svc.DB, 1)

	// Two ACTIVE rows cannot be produced through the service; write
	// them directly to simulate a corrupted store.
	for _, roomID := range []uint{roomA.ID, roomB.ID} {
		require.NoError(t, svc.DB.Create(&models.RoomAllocation{
			RoomID:      roomID,
			EmployeeID:  employee.ID,
			CheckInDate: today(),
			Status:      models.AllocationActive,
		}).Error)
	}

	number, err := svc.CurrentRoomNumber(employee.ID)
	require.NoError(t, err)
	require.NotNil(t, number)
	assert.Equal(t, roomA.RoomNumber, *number)
}

func TestGetMyRoomInfo(t *testing.T) {
	svc, accSvc := newEmployeeService(t)
	anna := createTestEmployee(t, svc.DB, "anna@hr.local")
	bela := createTestEmployee(t, svc.DB, "bela@hr.local")
	room := createTestRoom(t, svc.DB, 2)

	_, err := svc.GetMyRoomInfo(anna.UserID)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)

	_, err = accSvc.CreateAllocation(adminActor(), "", room.ID, anna.ID, nil)
	require.NoError(t, err)
	_, err = accSvc.CreateAllocation(adminActor(), "", room.ID, bela.ID, nil)
	require.NoError(t, err)

	info, err := svc.GetMyRoomInfo(anna.UserID)
	require.NoError(t, err)
	assert.Equal(t, room.RoomNumber, info.RoomNumber)
	assert.Equal(t, 2, info.RoomCapacity)
	assert.Len(t, info.Occupants, 2)
}

func TestGetAllEmployeesFilters(t *testing.T) {
	svc, _ := newEmployeeService(t)

	_, err := svc.CreateEmployee(adminActor(), "", CreateEmployeeInput{
		FirstName: "Anna", LastName: "Kiss", Email: "anna@hr.local", Password: "secret123",
	})
	require.NoError(t, err)
	inactive, err := svc.CreateEmployee(adminActor(), "", CreateEmployeeInput{
		FirstName: "Bela", LastName: "Nagy", Email: "bela@hr.local", Password: "secret123",
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteEmployee(adminActor(), "", inactive.ID))

	all, err := svc.GetAllEmployees(nil, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active := true
	onlyActive, err := svc.GetAllEmployees(&active, "")
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, "anna@hr.local", onlyActive[0].Email)

	found, err := svc.GetAllEmployees(nil, "nagy")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "bela@hr.local", found[0].Email)
}

func TestUpdateEmployeePartialFields(t *testing.T) {
	svc, _ := newEmployeeService(t)
	employee := createTestEmployee(t, svc.DB, "anna@hr.local")

	phone := "+36301234567"
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	view, err := svc.UpdateEmployee(adminActor(), "", employee.ID, UpdateEmployeeInput{
		PhoneNumber: &phone,
		StartDate:   &start,
	})
	require.NoError(t, err)
	assert.Equal(t, phone, view.PhoneNumber)
	require.NotNil(t, view.StartDate)
	assert.True(t, start.Equal(*view.StartDate))
	// Untouched fields keep their values.
	assert.Equal(t, "anna@hr.local", view.Email)
	assert.Equal(t, "Acme Kft", view.CompanyName)
}
