package services

import (
	"sync"
	"testing"

	"hr-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccommodationService(t *testing.T) *AccommodationService {
	db := newTestDB(t)
	return NewAccommodationService(db, NewAuditService(db))
}

func TestCreateAllocation(t *testing.T) {
	svc := newAccommodationService(t)
	room := createTestRoom(t, svc.DB, 2)
	employee := createTestEmployee(t, svc.DB, "anna@hr.local")

	allocation, err := svc.CreateAllocation(adminActor(), "127.0.0.1", room.ID, employee.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AllocationActive, allocation.Status)
	assert.Equal(t, room.ID, allocation.RoomID)
	assert.Equal(t, employee.ID, allocation.EmployeeID)

	var logs []models.AuditLog
	require.NoError(t, svc.DB.Where("entity_type = ?", "RoomAllocation").Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditCreate, logs[0].Action)
}

func TestCreateAllocationRejectsSecondActiveAllocation(t *testing.T) {
	svc := newAccommodationService(t)
	roomA := createTestRoom(t, svc.DB, 2)
	roomB := createTestRoom(t, svc.DB, 2)
	employee := createTestEmployee(t, svc.DB, "anna@hr.local")

	_, err := svc.CreateAllocation(adminActor(), "", roomA.ID, employee.ID, nil)
	require.NoError(t, err)

	_, err = svc.CreateAllocation(adminActor(), "", roomB.ID, employee.ID, nil)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
	assert.Contains(t, appErr.Message, "already has an active room allocation")
}

func TestCreateAllocationRejectsFullRoom(t *testing.T) {
	svc := newAccommodationService(t)
	room := createTestRoom(t, svc.DB, 1)
	first := createTestEmployee(t, svc.DB, "first@hr.local")
	second := createTestEmployee(t, svc.DB, "second@hr.local")

	_, err := svc.CreateAllocation(adminActor(), "", room.ID, first.ID, nil)
	require.NoError(t, err)

	_, err = svc.CreateAllocation(adminActor(), "", room.ID, second.ID, nil)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
	assert.Contains(t, appErr.Message, "full capacity")
}

func TestCreateAllocationConcurrentLastPlace(t *testing.T) {
	svc := newAccommodationService(t)
	room := createTestRoom(t, svc.DB, 1)

	const contenders = 8
	employees := make([]*models.Employee, contenders)
	for i := range employees {
		employees[i] = createTestEmployee(t, svc.DB, string(rune('a'+i))+"@hr.local")
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateAllocation(adminActor(), "", room.ID, employees[i].ID, nil)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			var appErr *AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 409, appErr.Status)
		}
	}
	assert.Equal(t, 1, successes)

	var active int64
	require.NoError(t, svc.DB.Model(&models.RoomAllocation{}).
		Where("room_id = ? AND status = ?", room.ID, models.AllocationActive).
		Count(&active).Error)
	assert.EqualValues(t, 1, active)
}

func TestCreateAllocationSurvivesAuditFailure(t *testing.T) {
	svc := newAccommodationService(t)
	room := createTestRoom(t, svc.DB, 1)
	employee := createTestEmployee(t, svc.DB, "anna@hr.local")

	require.NoError(t, svc.DB.Migrator().DropTable(&models.AuditLog{}))

	allocation, err := svc.CreateAllocation(adminActor(), "", room.ID, employee.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AllocationActive, allocation.Status)
}

func TestCheckOut(t *testing.T) {
	svc := newAccommodationService(t)
	room := createTestRoom(t, svc.DB, 1)
	employee := createTestEmployee(t, svc.DB, "anna@hr.local")

	allocation, err := svc.CreateAllocation(adminActor(), "", room.ID, employee.ID, nil)
	require.NoError(t, err)

	out, err := svc.CheckOut(adminActor(), "", allocation.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AllocationCheckedOut, out.Status)
	require.NotNil(t, out.CheckOutDate)

	// Checked-out is terminal.
	_, err = svc.CheckOut(adminActor(), "", allocation.ID, nil)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)

	// The place is free again.
	other := createTestEmployee(t, svc.DB, "bela@hr.local")
	_, err = svc.CreateAllocation(adminActor(), "", room.ID, other.ID, nil)
	require.NoError(t, err)
}

func TestCheckOutUnknownAllocation(t *testing.T) {
	svc := newAccommodationService(t)
	_, err := svc.CheckOut(adminActor(), "", 999, nil)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestUpdateRoomCapacityCannotDropBelowOccupancy(t *testing.T) {
	svc := newAccommodationService(t)
	room := createTestRoom(t, svc.DB, 2)
	first := createTestEmployee(t, svc.DB, "first@hr.local")
	second := createTestEmployee(t, svc.DB, "second@hr.local")

	_, err := svc.CreateAllocation(adminActor(), "", room.ID, first.ID, nil)
	require.NoError(t, err)
	_, err = svc.CreateAllocation(adminActor(), "", room.ID, second.ID, nil)
	require.NoError(t, err)

	one := 1
	_, err = svc.UpdateRoom(adminActor(), "", room.ID, UpdateRoomInput{Capacity: &one})
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
	assert.Contains(t, appErr.Message, "current occupancy (2 occupants)")

	// Equal to occupancy is allowed.
	two := 2
	view, err := svc.UpdateRoom(adminActor(), "", room.ID, UpdateRoomInput{Capacity: &two})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Capacity)

	three := 3
	view, err = svc.UpdateRoom(adminActor(), "", room.ID, UpdateRoomInput{Capacity: &three})
	require.NoError(t, err)
	assert.Equal(t, 3, view.Capacity)
}

func TestUpdateRoomRejectsDuplicateNumber(t *testing.T) {
	svc := newAccommodationService(t)
	accommodation := models.Accommodation{Name: "Main", Address: "1 Test Street"}
	require.NoError(t, svc.DB.Create(&accommodation).Error)

	roomA, err := svc.CreateRoom(adminActor(), "", accommodation.ID, "101", 2)
	require.NoError(t, err)
	_, err = svc.CreateRoom(adminActor(), "", accommodation.ID, "102", 2)
	require.NoError(t, err)

	number := "102"
	_, err = svc.UpdateRoom(adminActor(), "", roomA.ID, UpdateRoomInput{RoomNumber: &number})
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
}

func TestCreateRoomRejectsCaseInsensitiveDuplicate(t *testing.T) {
	svc := newAccommodationService(t)
	accommodation := models.Accommodation{Name: "Main", Address: "1 Test Street"}
	require.NoError(t, svc.DB.Create(&accommodation).Error)

	_, err := svc.CreateRoom(adminActor(), "", accommodation.ID, "A1", 2)
	require.NoError(t, err)

	_, err = svc.CreateRoom(adminActor(), "", accommodation.ID, "a1", 2)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
}

func TestDeleteRoomWithActiveAllocation(t *testing.T) {
	svc := newAccommodationService(t)
	room := createTestRoom(t, svc.DB, 1)
	employee := createTestEmployee(t, svc.DB, "anna@hr.local")

	allocation, err := svc.CreateAllocation(adminActor(), "", room.ID, employee.ID, nil)
	require.NoError(t, err)

	err = svc.DeleteRoom(adminActor(), "", room.ID)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)

	_, err = svc.CheckOut(adminActor(), "", allocation.ID, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRoom(adminActor(), "", room.ID))

	// History survives the room deletion.
	var count int64
	require.NoError(t, svc.DB.Model(&models.RoomAllocation{}).
		Where("employee_id = ?", employee.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetRoomOccupancy(t *testing.T) {
	svc := newAccommodationService(t)
	room := createTestRoom(t, svc.DB, 2)
	employee := createTestEmployee(t, svc.DB, "anna@hr.local")

	_, err := svc.CreateAllocation(adminActor(), "", room.ID, employee.ID, nil)
	require.NoError(t, err)

	view, err := svc.GetRoomOccupancy(room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.CurrentOccupancy)
	assert.True(t, view.Available)
	require.Len(t, view.CurrentOccupants, 1)
	assert.Equal(t, employee.ID, view.CurrentOccupants[0].EmployeeID)
}

func TestGetAvailableRooms(t *testing.T) {
	svc := newAccommodationService(t)
	fullRoom := createTestRoom(t, svc.DB, 1)
	freeRoom := createTestRoom(t, svc.DB, 2)
	employee := createTestEmployee(t, svc.DB, "anna@hr.local")

	_, err := svc.CreateAllocation(adminActor(), "", fullRoom.ID, employee.ID, nil)
	require.NoError(t, err)

	rooms, err := svc.GetAvailableRooms()
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, freeRoom.ID, rooms[0].ID)
}

func TestGetEmployeeRoomHistoryOrder(t *testing.T) {
	svc := newAccommodationService(t)
	roomA := createTestRoom(t, svc.DB, 1)
	roomB := createTestRoom(t, svc.DB, 1)
	employee := createTestEmployee(t, svc.DB, "anna@hr.local")

	first, err := svc.CreateAllocation(adminActor(), "", roomA.ID, employee.ID, nil)
	require.NoError(t, err)
	_, err = svc.CheckOut(adminActor(), "", first.ID, nil)
	require.NoError(t, err)
	second, err := svc.CreateAllocation(adminActor(), "", roomB.ID, employee.ID, nil)
	require.NoError(t, err)

	history, err := svc.GetEmployeeRoomHistory(employee.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// Same check-in date, so insertion order (id ascending) decides.
	assert.Equal(t, first.ID, history[0].ID)
	assert.Equal(t, models.AllocationCheckedOut, history[0].Status)
	assert.Equal(t, second.ID, history[1].ID)
	assert.Equal(t, models.AllocationActive, history[1].Status)
}

func TestAccommodationTotalCapacityIsDerived(t *testing.T) {
	svc := newAccommodationService(t)
	accommodation := models.Accommodation{Name: "Main", Address: "1 Test Street"}
	require.NoError(t, svc.DB.Create(&accommodation).Error)

	_, err := svc.CreateRoom(adminActor(), "", accommodation.ID, "101", 2)
	require.NoError(t, err)
	room, err := svc.CreateRoom(adminActor(), "", accommodation.ID, "102", 3)
	require.NoError(t, err)

	total, err := svc.TotalCapacity(accommodation.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	require.NoError(t, svc.DeleteRoom(adminActor(), "", room.ID))

	total, err = svc.TotalCapacity(accommodation.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
