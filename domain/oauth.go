package domain

import "time"

// OAuth links a local user account to an identity at an external
// provider. A user signing in through a provider for the first time
// gets a password-less local account created alongside this record.
type OAuth struct {
	ID             int    `json:"id"`
	UserID         int    `json:"user_id"`
	User           *User  `json:"user"`
	Provider       string `json:"provider"`
	ProviderUserID int    `json:"provider_user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OAuthService is a set of methods to manipulate and work with the OAuth model.
type OAuthService interface {
	Find(providerUserID int, provider string) (*OAuth, error)
	Create(oauth *OAuth) error
	Delete(oauth *OAuth) error
}
