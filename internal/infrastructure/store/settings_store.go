package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/atelier-shop/internal/settings"
)

// SettingsStore persists the single store_settings row.
type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Load reads the settings row, creating it from defaults on first use.
func (s *SettingsStore) Load(ctx context.Context) (*settings.StoreSettings, error) {
	var out settings.StoreSettings
	err := s.db.QueryRowContext(ctx,
		`SELECT store_name, store_address, store_phone, store_email, store_website,
			currency, enable_payment, maintenance_mode, logo_url, instagram_url, support_phone
		 FROM store_settings WHERE id = 1`,
	).Scan(
		&out.StoreName, &out.StoreAddress, &out.StorePhone, &out.StoreEmail, &out.StoreWebsite,
		&out.Currency, &out.EnablePayment, &out.MaintenanceMode, &out.LogoURL, &out.InstagramURL, &out.SupportPhone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		defaults := settings.Defaults()
		if err := s.Save(ctx, &defaults); err != nil {
			return nil, err
		}
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &out, nil
}

// Save upserts the settings row.
func (s *SettingsStore) Save(ctx context.Context, in *settings.StoreSettings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO store_settings (id, store_name, store_address, store_phone, store_email,
			store_website, currency, enable_payment, maintenance_mode, logo_url, instagram_url, support_phone, updated_at)
		 VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		 ON CONFLICT (id) DO UPDATE SET
			store_name = EXCLUDED.store_name,
			store_address = EXCLUDED.store_address,
			store_phone = EXCLUDED.store_phone,
			store_email = EXCLUDED.store_email,
			store_website = EXCLUDED.store_website,
			currency = EXCLUDED.currency,
			enable_payment = EXCLUDED.enable_payment,
			maintenance_mode = EXCLUDED.maintenance_mode,
			logo_url = EXCLUDED.logo_url,
			instagram_url = EXCLUDED.instagram_url,
			support_phone = EXCLUDED.support_phone,
			updated_at = NOW()`,
		in.StoreName, in.StoreAddress, in.StorePhone, in.StoreEmail,
		in.StoreWebsite, in.Currency, in.EnablePayment, in.MaintenanceMode,
		in.LogoURL, in.InstagramURL, in.SupportPhone,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
