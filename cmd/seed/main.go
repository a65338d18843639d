package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"bloghub/config"
	"bloghub/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var authorID string
	err = db.QueryRow(`
		INSERT INTO users (name, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, "Demo Author", "demoauthor", "demo@bloghub.dev", hash).Scan(&authorID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s username=demoauthor password=%s\n", authorID, password)

	posts := []struct{ title, content string }{
		{"Hello bloghub", "This is the first seeded post."},
		{"Writing with Go", "A second post so the listing has something to show."},
	}
	for _, p := range posts {
		var blogID string
		err = db.QueryRow(`
			INSERT INTO blogs (title, content, author_id)
			VALUES ($1, $2, $3)
			RETURNING id
		`, p.title, p.content, authorID).Scan(&blogID)
		if err != nil {
			log.Fatalf("failed to seed blog: %v", err)
		}
		fmt.Printf("seeded blog: id=%s title=%q\n", blogID, p.title)
	}
}
