package users

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that owns catalog products. The password hash never
// leaves the process.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserDTO is the caller-facing shape of an account.
type UserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// NewUserDTO builds the response shape for an account.
func NewUserDTO(u *User) *UserDTO {
	return &UserDTO{ID: u.ID.Hex(), Username: u.Username}
}
