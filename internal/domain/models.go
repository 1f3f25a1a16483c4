// Package domain defines the persistence model for the game catalog.
// Types here are mapped with GORM and form the core data layer of the
// store backend.
package domain

import "time"

// DefaultCurrency is applied when a listing is created without an
// explicit currency code.
const DefaultCurrency = "EUR"

// Game represents a single purchasable catalog listing. Listings are
// immutable after seeding: there is no update or delete path, so the
// model carries no UpdatedAt/DeletedAt bookkeeping.
//
// Fields:
//   - ID: integer primary key, assigned on insert, stable for the
//     lifetime of the listing.
//   - Title: non-empty display title; mirrored into the FTS index.
//   - PriceCents: non-negative price in the currency's smallest unit.
//   - Currency: ISO-like currency code, defaults to "EUR".
//   - ImageURL / Platform / Region: optional metadata, nullable.
//   - CreatedAt: set once at insert.
//
// The JSON tags define the public wire shape of /list items; CreatedAt
// is storage-only and never serialized.
type Game struct {
	ID         int64     `json:"id"         gorm:"primaryKey;autoIncrement"`
	Title      string    `json:"title"      gorm:"type:text;not null"`
	PriceCents int64     `json:"priceCents" gorm:"column:price_cents;not null;check:price_cents >= 0"`
	Currency   string    `json:"currency"   gorm:"type:varchar(8);not null;default:'EUR'"`
	ImageURL   *string   `json:"imageUrl"   gorm:"column:image_url;type:text"`
	Platform   *string   `json:"platform"   gorm:"type:text"`
	Region     *string   `json:"region"     gorm:"type:text"`
	CreatedAt  time.Time `json:"-"`
}

// TableName returns the database table name for Game.
func (Game) TableName() string { return "games" }
