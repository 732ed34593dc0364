package crud

import (
	"errors"

	"gorm.io/gorm"

	"recipebook/domain"
	"recipebook/errs"
)

// OAuthService manages OAuth records linking local users to external
// provider identities. It implements the domain.OAuthService interface.
type OAuthService struct {
	oauthValidator
}

// oauthValidator runs validations on incoming OAuth data.
// On success, it passes the data on to oauthGorm.
// Otherwise, it returns the error of the validation that has failed.
type oauthValidator struct {
	oauthGorm
}

// oauthGorm runs CRUD operations on the database using incoming OAuth data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type oauthGorm struct {
	db *gorm.DB
}

// NewOAuthService returns an instance of OAuthService.
func NewOAuthService(db *gorm.DB) *OAuthService {
	return &OAuthService{
		oauthValidator{
			oauthGorm{
				db: db,
			},
		},
	}
}

// Ensure the OAuthService struct properly implements the domain.OAuthService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.OAuthService = &OAuthService{}

// Create runs validations needed for creating new OAuth database records.
func (ov *oauthValidator) Create(oauth *domain.OAuth) error {
	err := runOAuthValFns(oauth,
		ov.userIDRequired,
		ov.providerRequired,
		ov.providerUserIDRequired)
	if err != nil {
		return err
	}
	return ov.oauthGorm.Create(oauth)
}

// Delete runs validations needed for deleting existing OAuth database records.
func (ov *oauthValidator) Delete(oauth *domain.OAuth) error {
	err := runOAuthValFns(oauth, ov.idValid)
	if err != nil {
		return err
	}
	return ov.oauthGorm.Delete(oauth)
}

// runOAuthValFns runs any number of functions of type oauthValFn on the passed in OAuth object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runOAuthValFns(oauth *domain.OAuth, fns ...oauthValFn) error {
	for _, fn := range fns {
		if err := fn(oauth); err != nil {
			return err
		}
	}
	return nil
}

// A oauthValFn is any function that takes in a pointer to a domain.OAuth object and returns an error.
type oauthValFn = func(oauth *domain.OAuth) error

// idValid makes sure that the passed in ID of an OAuth to be deleted is greater than 0.
func (ov *oauthValidator) idValid(oauth *domain.OAuth) error {
	if oauth.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "OAuth ID is invalid.")
	}
	return nil
}

// providerRequired makes sure that the provider is not the empty string.
func (ov *oauthValidator) providerRequired(oauth *domain.OAuth) error {
	if oauth.Provider == "" {
		return errs.Errorf(errs.EINVALID, "An OAuth provider is required.")
	}
	return nil
}

// providerUserIDRequired makes sure that the provider-side user ID is set.
func (ov *oauthValidator) providerUserIDRequired(oauth *domain.OAuth) error {
	if oauth.ProviderUserID <= 0 {
		return errs.Errorf(errs.EINVALID, "An OAuth provider user ID is required.")
	}
	return nil
}

// userIDRequired makes sure that the local user ID is set.
func (ov *oauthValidator) userIDRequired(oauth *domain.OAuth) error {
	if oauth.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "A user ID is required.")
	}
	return nil
}

// Find retrieves an OAuth record by provider and provider-side user ID.
func (og *oauthGorm) Find(providerUserID int, provider string) (*domain.OAuth, error) {
	var oauth domain.OAuth
	err := og.db.
		Preload("User").
		First(&oauth, "provider_user_id = ? AND provider = ?", providerUserID, provider).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "No account is linked to this identity.")
		}
		return nil, err
	}
	return &oauth, nil
}

// Create stores the data from the OAuth object in a new database record.
func (og *oauthGorm) Create(oauth *domain.OAuth) error {
	return og.db.Create(oauth).Error
}

// Delete permanently deletes the database record matching the OAuth object's ID.
func (og *oauthGorm) Delete(oauth *domain.OAuth) error {
	return og.db.Delete(oauth).Error
}
