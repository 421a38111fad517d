package services

import (
	"errors"
	"strings"

	"hr-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewUserService(db *gorm.DB, audit *AuditService) *UserService {
	return &UserService{DB: db, Audit: audit}
}

// Login verifies credentials and audits the attempt. Denied logins for
// inactive accounts are audited as well; those entries carry the
// system identity because no actor is authenticated yet.
func (s *UserService) Login(ip, email, password string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Unknown user")
		}
		return nil, err
	}

	if !user.IsActive {
		s.Audit.Record(nil, ip, "User", user.ID, models.AuditLogin,
			"Login denied for inactive user "+user.Email+" ("+user.Role+")", nil, nil)
		return nil, Forbidden("Account is inactive. Please contact an administrator.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, BadRequest("Invalid password")
	}

	actor := &Actor{UserID: user.ID, Email: user.Email, Role: user.Role}
	s.Audit.Record(actor, ip, "User", user.ID, models.AuditLogin,
		"User "+user.Email+" ("+user.Role+") logged in successfully", nil, nil)

	return &user, nil
}

// Logout only exists for the audit trail; tokens are stateless.
func (s *UserService) Logout(actor *Actor, ip string) {
	if actor == nil {
		return
	}
	s.Audit.Record(actor, ip, "User", actor.UserID, models.AuditLogout,
		"User "+actor.Email+" ("+actor.Role+") logged out", nil, nil)
}

func (s *UserService) ChangePassword(actor *Actor, oldPassword, newPassword string) error {
	if actor == nil {
		return Unauthorized("Authentication required")
	}

	var user models.User
	if err := s.DB.First(&user, actor.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("User not found")
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return BadRequest("Old password is incorrect")
	}
	if len(newPassword) < 6 {
		return BadRequest("New password must be at least 6 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.DB.Model(&user).Update("password", string(hash)).Error
}

// GetAllUsers lists accounts of every role with optional filters;
// reserved for ADMIN callers (enforced by the route guard).
func (s *UserService) GetAllUsers(role string, isActive *bool, search string) ([]models.User, error) {
	query := s.DB.Model(&models.User{})

	if role != "" {
		query = query.Where("role = ?", strings.ToUpper(role))
	}
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			like, like, like)
	}

	var users []models.User
	err := query.Order("last_name ASC").Order("first_name ASC").Find(&users).Error
	return users, err
}
