// Package repo implements the data persistence layer for the game
// catalog, backed by GORM. This file seeds the demo catalog on first
// start and keeps the FTS index in lockstep with each insert.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-store-backend/internal/domain"
)

func strptr(s string) *string { return &s }

// seedGames is the demo catalog inserted on an empty database.
var seedGames = []domain.Game{
	{Title: "FIFA 23", PriceCents: 1499, Currency: "EUR", ImageURL: strptr("https://cdn.akamai.steamstatic.com/steam/apps/1811260/header.jpg"), Platform: strptr("PC"), Region: strptr("EU")},
	{Title: "Red Dead Redemption 2", PriceCents: 1999, Currency: "EUR", ImageURL: strptr("https://cdn.akamai.steamstatic.com/steam/apps/1174180/header.jpg"), Platform: strptr("PC"), Region: strptr("EU")},
	{Title: "Split Fiction", PriceCents: 999, Currency: "EUR", ImageURL: strptr("https://cdn.akamai.steamstatic.com/steam/apps/2001120/header.jpg"), Platform: strptr("PC"), Region: strptr("EU")},
	{Title: "Grand Theft Auto V", PriceCents: 1299, Currency: "EUR", ImageURL: strptr("https://cdn.akamai.steamstatic.com/steam/apps/271590/header.jpg"), Platform: strptr("PC"), Region: strptr("Global")},
	{Title: "The Witcher 3: Wild Hunt", PriceCents: 899, Currency: "EUR", ImageURL: strptr("https://cdn.akamai.steamstatic.com/steam/apps/292030/header.jpg"), Platform: strptr("PC"), Region: strptr("EU")},
	{Title: "Cyberpunk 2077", PriceCents: 2499, Currency: "EUR", ImageURL: strptr("https://cdn.akamai.steamstatic.com/steam/apps/1091500/header.jpg"), Platform: strptr("PC"), Region: strptr("EU")},
	{Title: "Elden Ring", PriceCents: 3499, Currency: "EUR", ImageURL: strptr("https://cdn.akamai.steamstatic.com/steam/apps/1245620/header.jpg"), Platform: strptr("PC"), Region: strptr("Global")},
	{Title: "Hogwarts Legacy", PriceCents: 2999, Currency: "EUR", ImageURL: strptr("https://cdn.akamai.steamstatic.com/steam/apps/990080/header.jpg"), Platform: strptr("PC"), Region: strptr("EU")},
	{Title: "God of War Ragnarök", PriceCents: 3999, Currency: "EUR", ImageURL: strptr("https://cdn.akamai.steamstatic.com/steam/apps/2322010/header.jpg"), Platform: strptr("PlayStation"), Region: strptr("EU")},
	{Title: "Minecraft", PriceCents: 1999, Currency: "EUR", ImageURL: strptr("https://upload.wikimedia.org/wikipedia/en/b/b6/Minecraft_2024_cover_art.png"), Platform: strptr("PC"), Region: strptr("Global")},
	{Title: "Forza Horizon 5", PriceCents: 2499, Currency: "EUR", ImageURL: strptr("https://cdn.akamai.steamstatic.com/steam/apps/1551360/header.jpg"), Platform: strptr("Xbox"), Region: strptr("Global")},
	{Title: "Call of Duty: Modern Warfare III", PriceCents: 4999, Currency: "EUR", ImageURL: strptr("https://cdn.akamai.steamstatic.com/steam/apps/1938090/header.jpg"), Platform: strptr("PC"), Region: strptr("EU")},
	{Title: "Baldur's Gate 3", PriceCents: 4499, Currency: "EUR", ImageURL: strptr("https://cdn.akamai.steamstatic.com/steam/apps/1086940/header.jpg"), Platform: strptr("PC"), Region: strptr("Global")},
}

// SeedIfEmpty inserts the demo catalog when the games table has no rows.
// Each listing and its FTS index row are written in the same transaction
// so the index invariant (exactly one entry per listing) holds even if
// the process dies mid-seed. Calling it on a populated database is a
// no-op.
func SeedIfEmpty(ctx context.Context, db *gorm.DB) error {
	total, err := CountGames(ctx, db)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range seedGames {
			g := seedGames[i] // copy; Create mutates ID
			g.CreatedAt = time.Now().UTC()
			if err := tx.Create(&g).Error; err != nil {
				return err
			}
			if err := IndexGameTitle(tx, g.ID, g.Title); err != nil {
				return err
			}
		}
		return nil
	})
}

// IndexGameTitle inserts the FTS row mirroring a listing's title.
// Must run inside the same transaction as the listing insert.
func IndexGameTitle(tx *gorm.DB, id int64, title string) error {
	return tx.Exec("INSERT INTO games_fts(rowid, title) VALUES (?, ?)", id, title).Error
}
