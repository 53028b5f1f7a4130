package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Role is the closed set of permission classes a user can hold. The wire
// representation stays the original numeric roleId.
type Role int

const (
	RoleAdmin      Role = 1
	RoleNormalUser Role = 2
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleNormalUser
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleNormalUser:
		return "normal"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

type User struct {
	ID           int64      `json:"id"`
	ProfilePic   *string    `json:"profilepic"`
	Name         string     `json:"name"`
	CellNumber   string     `json:"cellnumber"`
	PasswordHash string     `json:"-"`
	Email        string     `json:"email"`
	Role         Role       `json:"roleId"`
	DeletedAt    *time.Time `json:"-"`
	Created      time.Time  `json:"created"`
	Modified     time.Time  `json:"modified"`
}

type CreateUserRequest struct {
	ProfilePic *string `json:"profilepic,omitempty"`
	Name       string  `json:"name"`
	CellNumber string  `json:"cellnumber"`
	Password   string  `json:"password"`
	Email      string  `json:"email"`
	Role       Role    `json:"roleId"`
}

type UpdateUserRequest struct {
	ProfilePic *string `json:"profilepic,omitempty"`
	Name       *string `json:"name,omitempty"`
	CellNumber *string `json:"cellnumber,omitempty"`
	Password   *string `json:"password,omitempty"`
	Email      *string `json:"email,omitempty"`
	Role       *Role   `json:"roleId,omitempty"`
}

type LoginRequest struct {
	CellNumber string `json:"cellnumber"`
	Password   string `json:"password"`
}

// Validation methods
func (r *CreateUserRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.CellNumber == "" {
		return fmt.Errorf("cellnumber is required")
	}
	if !isValidCellNumber(r.CellNumber) {
		return fmt.Errorf("invalid cellnumber format")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !isValidEmail(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if !r.Role.Valid() {
		return fmt.Errorf("invalid roleId")
	}
	return nil
}

func (r *UpdateUserRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if r.CellNumber != nil && !isValidCellNumber(*r.CellNumber) {
		return fmt.Errorf("invalid cellnumber format")
	}
	if r.Password != nil && len(*r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if r.Email != nil && !isValidEmail(*r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if r.Role != nil && !r.Role.Valid() {
		return fmt.Errorf("invalid roleId")
	}
	return nil
}

func (r *LoginRequest) Validate() error {
	if r.CellNumber == "" {
		return fmt.Errorf("cellnumber is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// Helper functions
func isValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

func isValidCellNumber(cell string) bool {
	cellRegex := regexp.MustCompile(`^[\+]?[\d\s\-\(\)]+$`)
	return cellRegex.MatchString(cell) && len(cell) >= 7 && len(cell) <= 20
}

// Normalize methods
func (r *CreateUserRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	r.CellNumber = strings.TrimSpace(r.CellNumber)
}

func (r *UpdateUserRequest) Normalize() {
	if r.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &e
	}
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
	}
	if r.CellNumber != nil {
		c := strings.TrimSpace(*r.CellNumber)
		r.CellNumber = &c
	}
}

func (r *LoginRequest) Normalize() {
	r.CellNumber = strings.TrimSpace(r.CellNumber)
}
