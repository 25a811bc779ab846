package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/terrence3333/Mindconnect-Demo/internal/config"
	"github.com/terrence3333/Mindconnect-Demo/internal/storage"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	store := storage.NewService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "history":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin history <room_id> [limit]")
			os.Exit(1)
		}
		roomID := os.Args[2]
		limit := 50
		if len(os.Args) > 3 {
			limit, err = strconv.Atoi(os.Args[3])
			if err != nil {
				fmt.Println("Invalid limit. Please provide an integer.")
				os.Exit(1)
			}
		}
		if err := printHistory(store, roomID, limit); err != nil {
			log.Fatalf("Error reading history: %v", err)
		}
	case "prune":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin prune <room_id> <days>")
			os.Exit(1)
		}
		roomID := os.Args[2]
		days, err := strconv.Atoi(os.Args[3])
		if err != nil || days < 1 {
			fmt.Println("Invalid day count. Please provide a positive integer.")
			os.Exit(1)
		}
		before := time.Now().AddDate(0, 0, -days)
		pruned, err := store.PruneMessages(roomID, before)
		if err != nil {
			log.Fatalf("Error pruning messages: %v", err)
		}
		fmt.Printf("Pruned %d messages from room %s.\n", pruned, roomID)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func printHistory(store *storage.Service, roomID string, limit int) error {
	messages, err := store.RecentMessages(roomID, limit)
	if err != nil {
		return err
	}
	// Newest first from the store; print oldest first like a transcript.
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		fmt.Printf("[%s] %s (%s): %s\n",
			m.CreatedAt.Format(time.RFC3339), m.SenderName, m.SenderID, m.Body)
	}
	return nil
}
