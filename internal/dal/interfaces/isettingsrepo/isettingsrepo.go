package isettings

import (
	"context"

	"github.com/corray333/backend-labs/dukan/internal/service/models/profile"
)

// ISettingsRepository is an interface for the individually stored settings fields.
type ISettingsRepository interface {
	StoreProfile(ctx context.Context) (profile.Store, error)
	SaveStoreProfile(ctx context.Context, store profile.Store) error

	UserProfile(ctx context.Context) (profile.User, error)
	SaveUserProfile(ctx context.Context, user profile.User) error

	Supplier(ctx context.Context) (profile.Supplier, error)
	SaveSupplier(ctx context.Context, supplier profile.Supplier) error

	OnboardingComplete(ctx context.Context) (bool, error)
	SetOnboardingComplete(ctx context.Context) error

	// Notification returns the stored toggle; found is false if it was never set.
	Notification(ctx context.Context, id string) (enabled bool, found bool, err error)
	SetNotification(ctx context.Context, id string, enabled bool) error

	// Language returns the stored code or "" if none.
	Language(ctx context.Context) (string, error)
	SetLanguage(ctx context.Context, code string) error
}
