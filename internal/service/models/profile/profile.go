package profile

// Store describes the shop.
type Store struct {
	Name     string `json:"name"     validate:"max=120"`
	Address  string `json:"address"  validate:"max=300"`
	Category string `json:"category" validate:"max=80"`
}

// User is the operator's own profile.
type User struct {
	Name  string `json:"name"  validate:"max=120"`
	Email string `json:"email" validate:"omitempty,email"`
}

// Supplier is who restock requests are sent to. WhatsappDisplay is the
// number as typed; Whatsapp holds digits only.
type Supplier struct {
	Name            string `json:"name"            validate:"max=120"`
	Whatsapp        string `json:"whatsapp"`
	WhatsappDisplay string `json:"whatsappDisplay" validate:"max=32"`
}

// Onboarding is submitted once at the end of the onboarding flow.
type Onboarding struct {
	UserName string `json:"userName" validate:"required,max=120"`
	Store    Store  `json:"store"`
}

// Notification is a user-facing toggle with its default.
type Notification struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
}

// NotificationDefaults lists the known toggles, in display order, with
// their initial state.
var NotificationDefaults = []Notification{
	{ID: "sales-alerts", Enabled: true},
	{ID: "inventory-alerts", Enabled: true},
	{ID: "ai-insights", Enabled: false},
	{ID: "promotions", Enabled: true},
}

// SupplierInput is the supplier form. Whatsapp is the number as typed and
// must carry at least ten digits including the country code.
type SupplierInput struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Whatsapp string `json:"whatsapp" validate:"required,max=32"`
}

// Upstock is a composed restock request for the supplier.
type Upstock struct {
	Message string `json:"message"`
	URL     string `json:"url"`
	Items   int    `json:"items"`
}
