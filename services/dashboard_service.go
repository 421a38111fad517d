package services

import (
	"time"

	"hr-backend/models"

	"gorm.io/gorm"
)

type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db}
}

type DashboardStats struct {
	TotalEmployees          int64 `json:"totalEmployees"`
	ActiveEmployees         int64 `json:"activeEmployees"`
	InactiveEmployees       int64 `json:"inactiveEmployees"`
	TotalRooms              int64 `json:"totalRooms"`
	OccupiedRooms           int64 `json:"occupiedRooms"`
	AvailableRooms          int64 `json:"availableRooms"`
	TotalCapacity           int64 `json:"totalCapacity"`
	CurrentOccupancy        int64 `json:"currentOccupancy"`
	TotalAdvanceRequests    int64 `json:"totalAdvanceRequests"`
	PendingAdvanceRequests  int64 `json:"pendingAdvanceRequests"`
	ApprovedAdvanceRequests int64 `json:"approvedAdvanceRequests"`
	RejectedAdvanceRequests int64 `json:"rejectedAdvanceRequests"`
	NewEmployeesThisMonth   int64 `json:"newEmployeesThisMonth"`
	CheckInsThisMonth       int64 `json:"checkInsThisMonth"`
}

// GetStats aggregates the admin dashboard counters. All occupancy
// figures are derived from the ACTIVE allocations at call time.
func (s *DashboardService) GetStats() (DashboardStats, error) {
	var stats DashboardStats

	if err := s.DB.Model(&models.Employee{}).Count(&stats.TotalEmployees).Error; err != nil {
		return DashboardStats{}, err
	}
	err := s.DB.Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RoleEmployee, true).
		Count(&stats.ActiveEmployees).Error
	if err != nil {
		return DashboardStats{}, err
	}
	stats.InactiveEmployees = stats.TotalEmployees - stats.ActiveEmployees

	if err := s.DB.Model(&models.Room{}).Count(&stats.TotalRooms).Error; err != nil {
		return DashboardStats{}, err
	}
	err = s.DB.Model(&models.Room{}).
		Select("COALESCE(SUM(capacity), 0)").
		Scan(&stats.TotalCapacity).Error
	if err != nil {
		return DashboardStats{}, err
	}

	err = s.DB.Model(&models.RoomAllocation{}).
		Where("status = ?", models.AllocationActive).
		Count(&stats.CurrentOccupancy).Error
	if err != nil {
		return DashboardStats{}, err
	}
	err = s.DB.Model(&models.RoomAllocation{}).
		Where("status = ?", models.AllocationActive).
		Distinct("room_id").
		Count(&stats.OccupiedRooms).Error
	if err != nil {
		return DashboardStats{}, err
	}
	stats.AvailableRooms = stats.TotalRooms - stats.OccupiedRooms

	if err := s.DB.Model(&models.AdvanceRequest{}).Count(&stats.TotalAdvanceRequests).Error; err != nil {
		return DashboardStats{}, err
	}
	advanceCounts := []struct {
		status string
		dest   *int64
	}{
		{models.AdvancePending, &stats.PendingAdvanceRequests},
		{models.AdvanceApproved, &stats.ApprovedAdvanceRequests},
		{models.AdvanceRejected, &stats.RejectedAdvanceRequests},
	}
	for _, c := range advanceCounts {
		err := s.DB.Model(&models.AdvanceRequest{}).Where("status = ?", c.status).Count(c.dest).Error
		if err != nil {
			return DashboardStats{}, err
		}
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	err = s.DB.Model(&models.User{}).
		Where("role = ? AND created_at >= ?", models.RoleEmployee, startOfMonth).
		Count(&stats.NewEmployeesThisMonth).Error
	if err != nil {
		return DashboardStats{}, err
	}
	err = s.DB.Model(&models.RoomAllocation{}).
		Where("check_in_date >= ?", startOfMonth).
		Count(&stats.CheckInsThisMonth).Error
	if err != nil {
		return DashboardStats{}, err
	}

	return stats, nil
}
