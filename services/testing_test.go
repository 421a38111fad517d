package services

import (
	"fmt"
	"testing"

	"hr-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database limited to a single
// connection, so concurrent statements serialize and every goroutine
// sees the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Employee{},
		&models.Accommodation{},
		&models.Room{},
		&models.RoomAllocation{},
		&models.Contract{},
		&models.AdvanceRequest{},
		&models.AuditLog{},
	))
	return db
}

func adminActor() *Actor {
	return &Actor{UserID: 1, Email: "admin@hr.local", Role: models.RoleAdmin}
}

func createTestEmployee(t *testing.T, db *gorm.DB, email string) *models.Employee {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	employee := models.Employee{
		User: models.User{
			FirstName: "Test",
			LastName:  "Employee",
			Email:     email,
			Password:  string(hash),
			Role:      models.RoleEmployee,
			IsActive:  true,
		},
		CompanyName: "Acme Kft",
	}
	require.NoError(t, db.Create(&employee).Error)
	return &employee
}

func createTestRoom(t *testing.T, db *gorm.DB, capacity int) *models.Room {
	t.Helper()

	accommodation := models.Accommodation{
		Name:    fmt.Sprintf("Building %d", capacity),
		Address: "1 Test Street",
	}
	require.NoError(t, db.Create(&accommodation).Error)

	room := models.Room{
		AccommodationID: accommodation.ID,
		RoomNumber:      fmt.Sprintf("R-%d", accommodation.ID),
		Capacity:        capacity,
	}
	require.NoError(t, db.Create(&room).Error)
	return &room
}
