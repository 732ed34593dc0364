package domain

import "time"

// User is read-mostly from the engagement core's point of view: posts
// and comments reference their author, like edges reference the liker.
// Password and Remember are transient fields that only ever exist in
// memory; the database stores their hashes.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username" gorm:"uniqueIndex"`
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"uniqueIndex"`
	Avatar   string `json:"avatar"`

	Password     string `json:"password,omitempty" gorm:"-"`
	PasswordHash string `json:"-"`
	Remember     string `json:"-" gorm:"-"`
	RememberHash string `json:"-"`

	// NoPasswordNeeded is set for users created through OAuth,
	// which have no local password.
	NoPasswordNeeded bool `json:"-" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary strips a user down to the fields shown next to posts,
// comments and liker lists.
func (u *User) Summary() User {
	return User{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Avatar:   u.Avatar,
	}
}

// UserService is a set of methods to manipulate and work with the User
// model. It is also the backend of the authentication system.
type UserService interface {
	ByID(id int) (*User, error)
	ByEmail(email string) (*User, error)
	ByRemember(token string) (*User, error)
	Authenticate(email, password string) (*User, error)
	Create(user *User) error
	Update(user *User) error
}
