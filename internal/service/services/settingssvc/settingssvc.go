package settingssvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	isettings "github.com/corray333/backend-labs/dukan/internal/dal/interfaces/isettingsrepo"
	"github.com/corray333/backend-labs/dukan/internal/service/models/product"
	"github.com/corray333/backend-labs/dukan/internal/service/models/profile"
	"github.com/corray333/backend-labs/dukan/pkg/deeplink"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
)

// DefaultLanguage is reported when no language was ever chosen.
const DefaultLanguage = "en"

const (
	minWhatsappDigits   = 10
	lowStockThreshold   = 10
	defaultSupplierName = "Sir/Madam"
	defaultStoreName    = "our store"
)

var (
	ErrInvalidSettings      = errors.New("invalid settings")
	ErrUnknownNotification  = errors.New("unknown notification")
	ErrNoLowStock           = errors.New("no products are low on stock")
	ErrSupplierMissing      = errors.New("supplier whatsapp number is not set")
	ErrInvalidWhatsappPhone = errors.New("whatsapp number needs at least 10 digits")
)

// Translator resolves a translation key.
type Translator interface {
	T(key string, vars map[string]any) string
}

type inventory interface {
	LowStock(threshold int) []product.Product
}

type interactionMarker interface {
	MarkInteraction()
}

// SettingsService manages the operator's profile and preferences.
type SettingsService struct {
	repo        isettings.ISettingsRepository
	inventory   inventory
	interaction interactionMarker
	validate    *validator.Validate
}

// option is a function that configures the SettingsService.
type option func(*SettingsService)

// MustNewSettingsService creates a new SettingsService.
func MustNewSettingsService(opts ...option) *SettingsService {
	s := &SettingsService{
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.repo == nil {
		panic("settings service requires a settings repository")
	}
	if s.inventory == nil {
		panic("settings service requires an inventory")
	}

	return s
}

// WithSettingsRepository sets the settings repository for the SettingsService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSettingsRepository(repo isettings.ISettingsRepository) option {
	return func(s *SettingsService) {
		s.repo = repo
	}
}

// WithInventory sets the catalog restock messages are built from.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithInventory(inv inventory) option {
	return func(s *SettingsService) {
		s.inventory = inv
	}
}

// WithInteractionMarker sets who is told when onboarding ends.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithInteractionMarker(m interactionMarker) option {
	return func(s *SettingsService) {
		s.interaction = m
	}
}

func (s *SettingsService) StoreProfile(ctx context.Context) (profile.Store, error) {
	return s.repo.StoreProfile(ctx)
}

func (s *SettingsService) UpdateStoreProfile(ctx context.Context, store profile.Store) error {
	if err := s.validate.Struct(store); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	return s.repo.SaveStoreProfile(ctx, store)
}

func (s *SettingsService) UserProfile(ctx context.Context) (profile.User, error) {
	return s.repo.UserProfile(ctx)
}

func (s *SettingsService) UpdateUserProfile(ctx context.Context, user profile.User) error {
	if err := s.validate.Struct(user); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	return s.repo.SaveUserProfile(ctx, user)
}

func (s *SettingsService) Supplier(ctx context.Context) (profile.Supplier, error) {
	return s.repo.Supplier(ctx)
}

// UpdateSupplier stores the supplier with the number both as typed and as
// digits only.
func (s *SettingsService) UpdateSupplier(ctx context.Context, in profile.SupplierInput) (profile.Supplier, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return profile.Supplier{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	digits := deeplink.Digits(in.Whatsapp)
	if len(digits) < minWhatsappDigits {
		return profile.Supplier{}, fmt.Errorf("%w: %w", ErrInvalidSettings, ErrInvalidWhatsappPhone)
	}

	supplier := profile.Supplier{
		Name:            in.Name,
		Whatsapp:        digits,
		WhatsappDisplay: in.Whatsapp,
	}
	if err := s.repo.SaveSupplier(ctx, supplier); err != nil {
		return profile.Supplier{}, fmt.Errorf("failed to save supplier: %w", err)
	}

	return supplier, nil
}

// Notifications returns every toggle in display order, stored value first
// and default otherwise.
func (s *SettingsService) Notifications(ctx context.Context) ([]profile.Notification, error) {
	out := make([]profile.Notification, 0, len(profile.NotificationDefaults))
	for _, def := range profile.NotificationDefaults {
		enabled, found, err := s.repo.Notification(ctx, def.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read notification %s: %w", def.ID, err)
		}
		if !found {
			enabled = def.Enabled
		}
		out = append(out, profile.Notification{ID: def.ID, Enabled: enabled})
	}

	return out, nil
}

func (s *SettingsService) SetNotification(ctx context.Context, id string, enabled bool) error {
	known := false
	for _, def := range profile.NotificationDefaults {
		if def.ID == id {
			known = true

			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %q", ErrUnknownNotification, id)
	}

	return s.repo.SetNotification(ctx, id, enabled)
}

// Language returns the chosen language code, DefaultLanguage if unset.
func (s *SettingsService) Language(ctx context.Context) (string, error) {
	code, err := s.repo.Language(ctx)
	if err != nil {
		return "", err
	}
	if code == "" {
		return DefaultLanguage, nil
	}

	return code, nil
}

func (s *SettingsService) SetLanguage(ctx context.Context, code string) error {
	if err := s.validate.Var(code, "required,bcp47_language_tag"); err != nil {
		return fmt.Errorf("%w: language %q", ErrInvalidSettings, code)
	}

	return s.repo.SetLanguage(ctx, code)
}

func (s *SettingsService) OnboardingComplete(ctx context.Context) (bool, error) {
	return s.repo.OnboardingComplete(ctx)
}

// CompleteOnboarding saves the operator's name and store and marks
// onboarding done.
func (s *SettingsService) CompleteOnboarding(ctx context.Context, in profile.Onboarding) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	user, err := s.repo.UserProfile(ctx)
	if err != nil {
		return fmt.Errorf("failed to read user profile: %w", err)
	}
	user.Name = in.UserName
	if err := s.repo.SaveUserProfile(ctx, user); err != nil {
		return fmt.Errorf("failed to save user profile: %w", err)
	}
	if err := s.repo.SaveStoreProfile(ctx, in.Store); err != nil {
		return fmt.Errorf("failed to save store profile: %w", err)
	}

	return s.finishOnboarding(ctx)
}

// SkipOnboarding marks onboarding done without touching the profile.
func (s *SettingsService) SkipOnboarding(ctx context.Context) error {
	return s.finishOnboarding(ctx)
}

func (s *SettingsService) finishOnboarding(ctx context.Context) error {
	if err := s.repo.SetOnboardingComplete(ctx); err != nil {
		return fmt.Errorf("failed to mark onboarding complete: %w", err)
	}
	if s.interaction != nil {
		s.interaction.MarkInteraction()
	}

	slog.Info("Onboarding complete")

	return nil
}

// UpstockMessage composes a restock request for every product below the
// low stock threshold, with a WhatsApp link that opens it for the supplier.
func (s *SettingsService) UpstockMessage(ctx context.Context, tr Translator) (profile.Upstock, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "SettingsService.UpstockMessage")
	defer span.End()

	low := s.inventory.LowStock(lowStockThreshold)
	if len(low) == 0 {
		return profile.Upstock{}, ErrNoLowStock
	}

	supplier, err := s.repo.Supplier(ctx)
	if err != nil {
		return profile.Upstock{}, fmt.Errorf("failed to read supplier: %w", err)
	}
	if supplier.Whatsapp == "" {
		return profile.Upstock{}, ErrSupplierMissing
	}
	store, err := s.repo.StoreProfile(ctx)
	if err != nil {
		return profile.Upstock{}, fmt.Errorf("failed to read store profile: %w", err)
	}

	supplierName := supplier.Name
	if supplierName == "" {
		supplierName = defaultSupplierName
	}
	storeName := store.Name
	if storeName == "" {
		storeName = defaultStoreName
	}

	lines := make([]string, 0, len(low))
	for _, p := range low {
		lines = append(lines, fmt.Sprintf("- %s (Current stock: %d %s)", tr.T(p.Name, nil), p.Stock, p.StockUnit))
	}
	message := fmt.Sprintf(
		"Hello %s,\n\nPlease send the following items for %s:\n\n%s\n\nThank you!",
		supplierName, storeName, strings.Join(lines, "\n"),
	)

	return profile.Upstock{
		Message: message,
		URL:     deeplink.WhatsAppText(supplier.Whatsapp, message),
		Items:   len(low),
	}, nil
}
