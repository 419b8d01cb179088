package postgres

import (
	"fmt"
	"strings"

	"freight/internal/adapters/out/postgres/addressrepo"
	"freight/internal/adapters/out/postgres/orderrepo"
	"freight/internal/adapters/out/postgres/profilerepo"
	"freight/internal/adapters/out/postgres/quoterepo"
	"freight/internal/adapters/out/postgres/vehiclerepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table plus the partial unique index that
// allows one active quote per order and carrier. It runs on PostgreSQL and SQLite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&quoterepo.QuoteDTO{},
		&vehiclerepo.VehicleDTO{},
		&addressrepo.AddressDTO{},
		&profilerepo.ProfileDTO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	active := make([]string, 0, 2)
	for _, name := range quoterepo.ActiveStatusNames() {
		active = append(active, "'"+name+"'")
	}
	stmt := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_quotes_active_per_carrier ON quotes (order_id, carrier_id) WHERE status IN (%s)",
		strings.Join(active, ", "),
	)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create active quote index: %w", err)
	}
	return nil
}
