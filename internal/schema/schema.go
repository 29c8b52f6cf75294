// Package schema lists every persisted model so the API, the seeder and tests
// migrate the same set of tables.
package schema

import (
	"fmt"

	"gorm.io/gorm"

	"estatedesk/internal/domain/booking"
	"estatedesk/internal/domain/construction"
	"estatedesk/internal/domain/customer"
	"estatedesk/internal/domain/demanddraft"
	"estatedesk/internal/domain/inventory"
	"estatedesk/internal/domain/notification"
	"estatedesk/internal/domain/payment"
	"estatedesk/internal/domain/paymentplan"
)

// Models are ordered so referenced tables come first.
func Models() []any {
	return []any{
		&inventory.Property{},
		&inventory.Tower{},
		&inventory.Flat{},
		&customer.Customer{},
		&booking.Booking{},
		&payment.Payment{},
		&payment.Schedule{},
		&paymentplan.Template{},
		&paymentplan.FlatPaymentPlan{},
		&construction.FlatProgress{},
		&demanddraft.Template{},
		&demanddraft.DemandDraft{},
		&notification.Notification{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
