// Package seeds installs the default roles and settings a fresh wiki needs.
// The data lives in an embedded YAML file; every seed is idempotent, so
// re-running the seed binary is safe.
package seeds

import (
	_ "embed"
	"errors"
	"fmt"
	"log"

	"github.com/goccy/go-yaml"
	"gorm.io/gorm"

	"github.com/endcrown/liberty-engine/internal/auth"
	"github.com/endcrown/liberty-engine/internal/setting"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type seedData struct {
	Roles []struct {
		Name    string `yaml:"name"`
		IsAdmin bool   `yaml:"isAdmin"`
	} `yaml:"roles"`
	Settings []struct {
		Key   string `yaml:"key"`
		Value string `yaml:"value"`
	} `yaml:"settings"`
}

func SeedAll(d *gorm.DB) error {
	var data seedData
	if err := yaml.Unmarshal(defaultsYAML, &data); err != nil {
		return fmt.Errorf("failed to parse defaults.yaml: %w", err)
	}

	if err := seedRoles(d, data); err != nil {
		return err
	}
	return seedSettings(d, data)
}

func seedRoles(d *gorm.DB, data seedData) error {
	for _, r := range data.Roles {
		var existing auth.Role
		err := d.First(&existing, "name = ?", r.Name).Error

		if err == nil {
			log.Printf("Role exists, skipping: %s", r.Name)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("DB error on role %s: %w", r.Name, err)
		}

		role := auth.Role{Name: r.Name, IsAdmin: r.IsAdmin}
		if err := d.Create(&role).Error; err != nil {
			return fmt.Errorf("failed to create role %s: %w", r.Name, err)
		}
	}

	log.Printf("Seeded %d roles", len(data.Roles))
	return nil
}

func seedSettings(d *gorm.DB, data seedData) error {
	for _, s := range data.Settings {
		var existing setting.Setting
		err := d.First(&existing, "key = ?", s.Key).Error

		if err == nil {
			log.Printf("Setting exists, skipping: %s", s.Key)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("DB error on setting %s: %w", s.Key, err)
		}

		row := setting.Setting{Key: s.Key, Value: s.Value}
		if err := d.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create setting %s: %w", s.Key, err)
		}
	}

	log.Printf("Seeded %d settings", len(data.Settings))
	return nil
}
