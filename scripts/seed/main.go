package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bookbot-ai/bookbot-api/internal/repository"
	"github.com/bookbot-ai/bookbot-api/pkg/config"
	"github.com/bookbot-ai/bookbot-api/pkg/database"
	"github.com/bookbot-ai/bookbot-api/pkg/validation"
)

// Seeds the appointments table with busy slots for local testing, e.g.:
//
//	go run ./scripts/seed -date 2025-08-08 -times 15:00,16:00
func main() {
	var (
		date  string
		times string
	)

	flag.StringVar(&date, "date", "", "Date to seed (YYYY-MM-DD)")
	flag.StringVar(&times, "times", "09:00,10:00", "Comma-separated times to reserve (HH:MM)")
	flag.Parse()

	if !validation.IsCanonicalDate(date) {
		log.Fatalf("invalid or missing -date %q, expected YYYY-MM-DD", date)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close() //nolint:errcheck

	appointments := repository.NewAppointmentRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := appointments.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	var reserved, skipped int
	for _, raw := range strings.Split(times, ",") {
		slot := strings.TrimSpace(raw)
		if !validation.IsCanonicalTime(slot) {
			log.Fatalf("invalid time %q, expected HH:MM", slot)
		}
		ok, err := appointments.Reserve(ctx, date, slot)
		if err != nil {
			log.Fatalf("failed to reserve %s %s: %v", date, slot, err)
		}
		if ok {
			reserved++
		} else {
			skipped++
		}
	}

	fmt.Printf("seeded %s: %d reserved, %d already taken\n", date, reserved, skipped)
}
