package settingssvc

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/corray333/backend-labs/dukan/internal/dal/memory"
	kvrepo "github.com/corray333/backend-labs/dukan/internal/dal/repositories/settings/kv"
	"github.com/corray333/backend-labs/dukan/internal/i18n"
	"github.com/corray333/backend-labs/dukan/internal/service/models/product"
	"github.com/corray333/backend-labs/dukan/internal/service/models/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInventory []product.Product

func (s stubInventory) LowStock(threshold int) []product.Product {
	var out []product.Product
	for _, p := range s {
		if p.Stock < threshold {
			out = append(out, p)
		}
	}

	return out
}

type marker struct{ calls int }

func (m *marker) MarkInteraction() { m.calls++ }

func newService(inv stubInventory) (*SettingsService, *kvrepo.SettingsRepository, *marker) {
	repo := kvrepo.NewSettingsRepository(memory.NewStore(0))
	m := &marker{}
	svc := MustNewSettingsService(
		WithSettingsRepository(repo),
		WithInventory(inv),
		WithInteractionMarker(m),
	)

	return svc, repo, m
}

func TestUpdateSupplier_StoresDigits(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newService(nil)

	got, err := svc.UpdateSupplier(ctx, profile.SupplierInput{Name: " Gupta Wholesale ", Whatsapp: "+91 98123-45678"})
	require.NoError(t, err)
	assert.Equal(t, "919812345678", got.Whatsapp)
	assert.Equal(t, "+91 98123-45678", got.WhatsappDisplay)
	assert.Equal(t, "Gupta Wholesale", got.Name)

	stored, err := repo.Supplier(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestUpdateSupplier_Rejects(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(nil)

	_, err := svc.UpdateSupplier(ctx, profile.SupplierInput{Name: "", Whatsapp: "+919812345678"})
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = svc.UpdateSupplier(ctx, profile.SupplierInput{Name: "Gupta", Whatsapp: "98123"})
	assert.ErrorIs(t, err, ErrInvalidSettings)
	assert.ErrorIs(t, err, ErrInvalidWhatsappPhone)
}

func TestUpdateProfiles_Validate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(nil)

	err := svc.UpdateUserProfile(ctx, profile.User{Name: "Ravi", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidSettings)

	require.NoError(t, svc.UpdateUserProfile(ctx, profile.User{Name: "Ravi", Email: "ravi@example.com"}))
	user, err := svc.UserProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", user.Email)

	err = svc.UpdateStoreProfile(ctx, profile.Store{Name: strings.Repeat("x", 121)})
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestNotifications_DefaultsAndOverrides(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(nil)

	got, err := svc.Notifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile.NotificationDefaults, got)

	require.NoError(t, svc.SetNotification(ctx, "ai-insights", true))
	require.NoError(t, svc.SetNotification(ctx, "sales-alerts", false))

	got, err = svc.Notifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, []profile.Notification{
		{ID: "sales-alerts", Enabled: false},
		{ID: "inventory-alerts", Enabled: true},
		{ID: "ai-insights", Enabled: true},
		{ID: "promotions", Enabled: true},
	}, got)

	assert.ErrorIs(t, svc.SetNotification(ctx, "new_orders", true), ErrUnknownNotification)
}

func TestLanguage(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(nil)

	code, err := svc.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, "en", code)

	require.NoError(t, svc.SetLanguage(ctx, "hi"))
	code, err = svc.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hi", code)

	assert.ErrorIs(t, svc.SetLanguage(ctx, ""), ErrInvalidSettings)
	assert.ErrorIs(t, svc.SetLanguage(ctx, "not a language!"), ErrInvalidSettings)
}

func TestCompleteOnboarding(t *testing.T) {
	ctx := context.Background()
	svc, repo, m := newService(nil)

	done, err := svc.OnboardingComplete(ctx)
	require.NoError(t, err)
	assert.False(t, done)

	assert.ErrorIs(t, svc.CompleteOnboarding(ctx, profile.Onboarding{}), ErrInvalidSettings)
	assert.Zero(t, m.calls)

	store := profile.Store{Name: "Sharma General Store", Address: "Shop 4", Category: "Grocery"}
	require.NoError(t, svc.CompleteOnboarding(ctx, profile.Onboarding{UserName: "Ravi", Store: store}))

	done, err = svc.OnboardingComplete(ctx)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 1, m.calls)

	user, err := repo.UserProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", user.Name)
	gotStore, err := repo.StoreProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, store, gotStore)
}

func TestSkipOnboarding(t *testing.T) {
	ctx := context.Background()
	svc, repo, m := newService(nil)

	require.NoError(t, svc.SkipOnboarding(ctx))

	done, err := svc.OnboardingComplete(ctx)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 1, m.calls)

	user, err := repo.UserProfile(ctx)
	require.NoError(t, err)
	assert.Empty(t, user.Name)
}

func TestUpstockMessage(t *testing.T) {
	ctx := context.Background()
	inv := stubInventory{
		{ID: "prod1", Name: "product_maggi", Stock: 50, StockUnit: "packs"},
		{ID: "prod2", Name: "product_amul_milk", Stock: 3, StockUnit: "packets"},
		{ID: "prod3", Name: "Local Honey", Stock: 0, StockUnit: "jars"},
	}
	svc, _, _ := newService(inv)
	en := i18n.MustNewCatalog().Load("en")

	_, err := svc.UpstockMessage(ctx, en)
	require.ErrorIs(t, err, ErrSupplierMissing)

	_, err = svc.UpdateSupplier(ctx, profile.SupplierInput{Name: "Gupta", Whatsapp: "+91 98123 45678"})
	require.NoError(t, err)

	got, err := svc.UpstockMessage(ctx, en)
	require.NoError(t, err)

	want := "Hello Gupta,\n\nPlease send the following items for our store:\n\n" +
		"- Amul Milk (Current stock: 3 packets)\n" +
		"- Local Honey (Current stock: 0 jars)\n\nThank you!"
	assert.Equal(t, want, got.Message)
	assert.Equal(t, 2, got.Items)

	u, err := url.Parse(got.URL)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/919812345678", u.Path)
	assert.Equal(t, want, u.Query().Get("text"))
	assert.NotContains(t, got.URL, "+")
}

func TestUpstockMessage_NoLowStock(t *testing.T) {
	svc, _, _ := newService(stubInventory{{ID: "prod1", Name: "product_maggi", Stock: 10}})

	_, err := svc.UpstockMessage(context.Background(), i18n.MustNewCatalog().Load("en"))
	assert.ErrorIs(t, err, ErrNoLowStock)
}
