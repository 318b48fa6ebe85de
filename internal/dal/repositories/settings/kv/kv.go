package kvrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/corray333/backend-labs/dukan/internal/dal/interfaces/ikvstore"
	"github.com/corray333/backend-labs/dukan/internal/service/models/profile"
)

const (
	keyOnboardingComplete      = "dukan-onboarding-complete"
	keyProfileName             = "dukan-profile-name"
	keyProfileEmail            = "dukan-profile-email"
	keyStoreName               = "dukan-store-name"
	keyStoreAddress            = "dukan-store-address"
	keyStoreCategory           = "dukan-store-category"
	keySupplierName            = "dukan-supplier-name"
	keySupplierWhatsapp        = "dukan-supplier-whatsapp"
	keySupplierWhatsappDisplay = "dukan-supplier-whatsapp-display"
	keyLanguage                = "dukan-language"
	notificationKeyPrefix      = "dukan-notif-"

	onboardingCompleteValue = "true"
)

// SettingsRepository keeps every settings field under its own key as a
// plain string.
type SettingsRepository struct {
	store ikvstore.IKVStore
}

func NewSettingsRepository(store ikvstore.IKVStore) *SettingsRepository {
	return &SettingsRepository{
		store: store,
	}
}

func (r *SettingsRepository) StoreProfile(ctx context.Context) (profile.Store, error) {
	values, err := r.getStrings(ctx, keyStoreName, keyStoreAddress, keyStoreCategory)
	if err != nil {
		return profile.Store{}, err
	}

	return profile.Store{
		Name:     values[0],
		Address:  values[1],
		Category: values[2],
	}, nil
}

func (r *SettingsRepository) SaveStoreProfile(ctx context.Context, store profile.Store) error {
	return r.setStrings(ctx,
		keyStoreName, store.Name,
		keyStoreAddress, store.Address,
		keyStoreCategory, store.Category,
	)
}

func (r *SettingsRepository) UserProfile(ctx context.Context) (profile.User, error) {
	values, err := r.getStrings(ctx, keyProfileName, keyProfileEmail)
	if err != nil {
		return profile.User{}, err
	}

	return profile.User{
		Name:  values[0],
		Email: values[1],
	}, nil
}

func (r *SettingsRepository) SaveUserProfile(ctx context.Context, user profile.User) error {
	return r.setStrings(ctx,
		keyProfileName, user.Name,
		keyProfileEmail, user.Email,
	)
}

func (r *SettingsRepository) Supplier(ctx context.Context) (profile.Supplier, error) {
	values, err := r.getStrings(ctx, keySupplierName, keySupplierWhatsapp, keySupplierWhatsappDisplay)
	if err != nil {
		return profile.Supplier{}, err
	}

	return profile.Supplier{
		Name:            values[0],
		Whatsapp:        values[1],
		WhatsappDisplay: values[2],
	}, nil
}

func (r *SettingsRepository) SaveSupplier(ctx context.Context, supplier profile.Supplier) error {
	return r.setStrings(ctx,
		keySupplierName, supplier.Name,
		keySupplierWhatsapp, supplier.Whatsapp,
		keySupplierWhatsappDisplay, supplier.WhatsappDisplay,
	)
}

// OnboardingComplete is true only when the flag holds the literal "true".
func (r *SettingsRepository) OnboardingComplete(ctx context.Context) (bool, error) {
	values, err := r.getStrings(ctx, keyOnboardingComplete)
	if err != nil {
		return false, err
	}

	return values[0] == onboardingCompleteValue, nil
}

func (r *SettingsRepository) SetOnboardingComplete(ctx context.Context) error {
	return r.setStrings(ctx, keyOnboardingComplete, onboardingCompleteValue)
}

// Notification reads a toggle stored as a JSON boolean. An unreadable value
// counts as never set.
func (r *SettingsRepository) Notification(ctx context.Context, id string) (bool, bool, error) {
	data, err := r.store.Get(ctx, notificationKeyPrefix+id)
	if errors.Is(err, ikvstore.ErrNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to read notification %s: %w", id, err)
	}

	var enabled bool
	if err := json.Unmarshal(data, &enabled); err != nil {
		return false, false, nil
	}

	return enabled, true, nil
}

func (r *SettingsRepository) SetNotification(ctx context.Context, id string, enabled bool) error {
	data, err := json.Marshal(enabled)
	if err != nil {
		return fmt.Errorf("failed to encode notification %s: %w", id, err)
	}

	if err := r.store.Set(ctx, notificationKeyPrefix+id, data); err != nil {
		return fmt.Errorf("failed to write notification %s: %w", id, err)
	}

	return nil
}

func (r *SettingsRepository) Language(ctx context.Context) (string, error) {
	values, err := r.getStrings(ctx, keyLanguage)
	if err != nil {
		return "", err
	}

	return values[0], nil
}

func (r *SettingsRepository) SetLanguage(ctx context.Context, code string) error {
	return r.setStrings(ctx, keyLanguage, code)
}

// getStrings reads keys in order; missing keys read as "".
func (r *SettingsRepository) getStrings(ctx context.Context, keys ...string) ([]string, error) {
	values := make([]string, len(keys))
	for i, key := range keys {
		data, err := r.store.Get(ctx, key)
		if errors.Is(err, ikvstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		values[i] = string(data)
	}

	return values, nil
}

// setStrings takes alternating key, value pairs.
func (r *SettingsRepository) setStrings(ctx context.Context, pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := r.store.Set(ctx, pairs[i], []byte(pairs[i+1])); err != nil {
			return fmt.Errorf("failed to write %s: %w", pairs[i], err)
		}
	}

	return nil
}
