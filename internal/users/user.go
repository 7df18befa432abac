package users

import (
	"context"
	"strings"
	"time"

	"github.com/2beens/portfolio/internal/odm"
	"github.com/2beens/portfolio/pkg"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	MinPasswordLength = 8
)

type User struct {
	odm.Base `bson:",inline"`
	Name     string `bson:"name" json:"name" validate:"required,max=100"`
	Email    string `bson:"email" json:"email" validate:"required,email"`
	Password string `bson:"password,omitempty" json:"password,omitempty"`
	Image    string `bson:"image,omitempty" json:"image,omitempty" validate:"omitempty,url"`
	Role     string `bson:"role" json:"role" validate:"required,oneof=user admin"`

	plainPassword string
	adminEmails   map[string]bool
}

// PublicUser is the user as exposed over the API, without the password hash.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// SetPassword stages a new plaintext password. It is hashed on the next save.
func (u *User) SetPassword(plain string) {
	u.plainPassword = plain
}

func (u *User) CheckPassword(plain string) bool {
	if u.Password == "" {
		return false
	}
	return pkg.CheckPasswordHash(plain, u.Password)
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) BeforeSave(_ context.Context) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)

	if u.plainPassword != "" {
		if len(u.plainPassword) < MinPasswordLength {
			return odm.NewValidationError("password", "min=8")
		}
		// same password staged again, keep the existing hash
		if u.Password == "" || !pkg.CheckPasswordHash(u.plainPassword, u.Password) {
			hash, err := pkg.HashPassword(u.plainPassword)
			if err != nil {
				return err
			}
			u.Password = hash
		}
		u.plainPassword = ""
	}

	if u.adminEmails[u.Email] {
		u.Role = RoleAdmin
	} else if u.Role == "" {
		u.Role = RoleUser
	}

	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
