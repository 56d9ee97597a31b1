package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/vidhub/vidhub-api/config"
	"github.com/vidhub/vidhub-api/pkg/helpers"
)

// Seeds a demo viewer and a demo channel with a couple of videos, a
// subscription, and watch history rows, so the channel and history endpoints
// return data on a fresh database.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	viewerID := upsertUser(db, "demoviewer", "viewer@vidhub.dev", "Demo Viewer", hash)
	channelID := upsertUser(db, "democreator", "creator@vidhub.dev", "Demo Creator", hash)
	fmt.Printf("seeded users: viewer=%s channel=%s password=%s\n", viewerID, channelID, password)

	if _, err := db.Exec(`
		INSERT INTO subscriptions (subscriber_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`, viewerID, channelID); err != nil {
		log.Fatalf("failed to seed subscription: %v", err)
	}

	titles := []string{"Getting started", "Deep dive"}
	for i, title := range titles {
		var videoID string
		if err := db.QueryRow(`
			INSERT INTO videos (owner_id, title, thumbnail_url, duration, views)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, channelID, title, "", 120.0+float64(i)*60, 10*(i+1)).Scan(&videoID); err != nil {
			log.Fatalf("failed to seed video: %v", err)
		}
		if _, err := db.Exec(`
			INSERT INTO watch_history (user_id, video_id, position)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, video_id) DO NOTHING
		`, viewerID, videoID, i); err != nil {
			log.Fatalf("failed to seed watch history: %v", err)
		}
	}
	fmt.Println("seeded videos and watch history")
}

func upsertUser(db *sql.DB, username, email, fullName, hash string) string {
	var id string
	err := db.QueryRow(`
		INSERT INTO users (username, email, full_name, password_hash, avatar_url)
		VALUES ($1, $2, $3, $4, '')
		ON CONFLICT (lower(email)) DO UPDATE SET full_name = EXCLUDED.full_name
		RETURNING id
	`, username, email, fullName, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", username, err)
	}
	return id
}
