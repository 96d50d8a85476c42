// Package wiki holds the article-side models the permission system hangs off
// of, and the per-article permission evaluator. The content and revision
// model lives elsewhere; Article here is only the resource grants attach to.
package wiki

import (
	"log"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/endcrown/liberty-engine/internal/auth"
	"github.com/endcrown/liberty-engine/internal/db"
)

type Article struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FullTitle string         `gorm:"size:512;uniqueIndex;not null" json:"fullTitle"`
	Aliases   pq.StringArray `gorm:"type:text[]" json:"aliases,omitempty"`
}

// ArticlePermission grants a role a set of action flags on one article.
// The composite key uniquely determines the grant; rows cascade away with
// the article or the role.
type ArticlePermission struct {
	ArticleID uint      `gorm:"primaryKey" json:"articleId"`
	RoleID    uint      `gorm:"primaryKey" json:"roleId"`
	Article   Article   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Role      auth.Role `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Read      bool      `gorm:"not null" json:"read"`
	Create    bool      `gorm:"not null" json:"create"`
	Edit      bool      `gorm:"not null" json:"edit"`
	Rename    bool      `gorm:"not null" json:"rename"`
	Delete    bool      `gorm:"not null" json:"delete"`
}

// Migrate creates the article and grant tables.
func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(&Article{}, &ArticlePermission{})
}

func Init() {
	if err := Migrate(db.DB); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
