package cmd

import (
	"fmt"
	"os"
	"time"

	"fitbook/internal/config"
	"fitbook/pkg/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var (
	seedClasses int
	seedMembers int
	seedReset   bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo data",
	Long: `Populate the database with demo venues, instructors, members and classes.
Useful for local development and load testing. Run migrations first.`,
	Run: func(cmd *cobra.Command, args []string) {
		runSeed()
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().IntVar(&seedClasses, "classes", 20, "Number of classes to create")
	seedCmd.Flags().IntVar(&seedMembers, "members", 100, "Number of members to create")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "Delete existing seed data first")
}

func runSeed() {
	cfg := config.Get()
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Username,
		cfg.Database.Password, cfg.Database.Name, cfg.Database.SSLMode)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if seedReset {
		logger.Info("Removing existing data...")
		for _, table := range []string{"notifications", "reviews", "bookings", "classes", "instructors", "venues", "members"} {
			if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
				logger.Error("Failed to clear table %s: %v", table, err)
				os.Exit(1)
			}
		}
	}

	tx, err := db.Beginx()
	if err != nil {
		logger.Error("Failed to begin transaction: %v", err)
		os.Exit(1)
	}
	defer tx.Rollback()

	venues := []struct {
		Name    string
		Address string
	}{
		{"Downtown Studio", "12 Market Street"},
		{"Riverside Gym", "88 Embankment Road"},
		{"Northside Loft", "3 Hillcrest Avenue"},
	}
	venueIDs := make([]string, 0, len(venues))
	for _, v := range venues {
		var id string
		err := tx.QueryRowx(
			`INSERT INTO venues (name, address) VALUES ($1, $2) RETURNING venue_id`,
			v.Name, v.Address,
		).Scan(&id)
		if err != nil {
			logger.Error("Failed to insert venue %s: %v", v.Name, err)
			os.Exit(1)
		}
		venueIDs = append(venueIDs, id)
	}

	instructors := []struct {
		Name string
		Bio  string
	}{
		{"Maya Chen", "Vinyasa and power yoga, ten years of teaching"},
		{"Liam Ortega", "Strength and conditioning coach"},
		{"Sofia Berg", "Spin and HIIT specialist"},
		{"Ana Kovacs", "Pilates and mobility work"},
	}
	instructorIDs := make([]string, 0, len(instructors))
	for _, ins := range instructors {
		var id string
		err := tx.QueryRowx(
			`INSERT INTO instructors (display_name, bio) VALUES ($1, $2) RETURNING instructor_id`,
			ins.Name, ins.Bio,
		).Scan(&id)
		if err != nil {
			logger.Error("Failed to insert instructor %s: %v", ins.Name, err)
			os.Exit(1)
		}
		instructorIDs = append(instructorIDs, id)
	}

	memberStmt, err := tx.Preparex(
		`INSERT INTO members (email, first_name, last_name, role, active) VALUES ($1, $2, $3, 'member', true)`)
	if err != nil {
		logger.Error("Failed to prepare member insert: %v", err)
		os.Exit(1)
	}
	for i := 0; i < seedMembers; i++ {
		email := fmt.Sprintf("member%03d@example.com", i+1)
		if _, err := memberStmt.Exec(email, "Demo", fmt.Sprintf("Member%03d", i+1)); err != nil {
			logger.Error("Failed to insert member %s: %v", email, err)
			os.Exit(1)
		}
	}

	categories := []string{"yoga", "spin", "hiit", "pilates", "strength"}
	levels := []string{"all", "beginner", "intermediate", "advanced"}
	classStmt, err := tx.Preparex(
		`INSERT INTO classes (name, instructor_id, venue_id, category, level, starts_at, duration_minutes, max_participants)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		logger.Error("Failed to prepare class insert: %v", err)
		os.Exit(1)
	}
	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	for i := 0; i < seedClasses; i++ {
		category := categories[i%len(categories)]
		name := fmt.Sprintf("%s session %d", category, i+1)
		startsAt := start.Add(time.Duration(i) * 2 * time.Hour)
		capacity := 10 + (i%4)*5
		_, err := classStmt.Exec(
			name,
			instructorIDs[i%len(instructorIDs)],
			venueIDs[i%len(venueIDs)],
			category,
			levels[i%len(levels)],
			startsAt,
			60,
			capacity,
		)
		if err != nil {
			logger.Error("Failed to insert class %s: %v", name, err)
			os.Exit(1)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit seed data: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %d venues, %d instructors, %d members and %d classes\n",
		len(venues), len(instructors), seedMembers, seedClasses)
}
