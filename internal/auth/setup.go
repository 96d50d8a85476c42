package auth

import (
	"log"

	"gorm.io/gorm"

	"github.com/endcrown/liberty-engine/internal/db"
)

// Migrate creates the account and role tables plus the user_roles join table.
func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(&User{}, &Role{})
}

func Init() {
	if err := Migrate(db.DB); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
