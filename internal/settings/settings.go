package settings

import "context"

// StoreSettings is the site-wide configuration edited from the admin
// console.
type StoreSettings struct {
	StoreName       string `json:"store_name"`
	StoreAddress    string `json:"store_address,omitempty"`
	StorePhone      string `json:"store_phone,omitempty"`
	StoreEmail      string `json:"store_email,omitempty"`
	StoreWebsite    string `json:"store_website,omitempty"`
	Currency        string `json:"currency"`
	EnablePayment   bool   `json:"enable_payment"`
	MaintenanceMode bool   `json:"maintenance_mode"`
	LogoURL         string `json:"logo_url,omitempty"`
	InstagramURL    string `json:"instagram_url,omitempty"`
	SupportPhone    string `json:"support_phone,omitempty"`
}

// Defaults are served when the settings row is missing or unreadable,
// so a storage failure never takes the storefront down.
func Defaults() StoreSettings {
	return StoreSettings{
		StoreName:     "ATELIER 7X",
		StoreAddress:  "123 Art Gallery Street, New York, NY 10001",
		StoreEmail:    "contact@atelier7x.com",
		Currency:      "USD",
		EnablePayment: true,
	}
}

// Repository loads and stores the settings row.
type Repository interface {
	Load(ctx context.Context) (*StoreSettings, error)
	Save(ctx context.Context, s *StoreSettings) error
}
