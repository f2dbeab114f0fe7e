package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"busly/internal/schedules"
	"busly/internal/shared/config"
	"busly/internal/shared/database"
	"busly/internal/users"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type options struct {
	Clean bool    `long:"clean" description:"Truncate all tables before seeding"`
	Days  int     `long:"days" default:"7" description:"Number of days of schedules to generate, starting tomorrow"`
	Price float64 `long:"price" default:"500" description:"Base seat price; longer routes are priced as multiples"`
}

type Seeder struct {
	db *database.DB
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	fmt.Println("🌱 Starting Busly Database Seeder...")

	cfg := config.Load()
	cfg.Database.AutoMigrate = true

	db, err := database.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	if opts.Clean {
		fmt.Println("\n🧹 Cleaning database...")
		if err := seeder.CleanDatabase(); err != nil {
			log.Fatalf("Failed to clean database: %v", err)
		}
		fmt.Println("✅ Database cleaned successfully")
	}

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(opts); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables, children first
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"passengers",
		"booking_seats",
		"bookings",
		"schedules",
		"buses",
		"routes",
		"users",
	}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

// SeedAll seeds users, then the route/bus catalogue and its schedules
func (s *Seeder) SeedAll(opts options) error {
	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	routes, err := s.SeedRoutes()
	if err != nil {
		return fmt.Errorf("failed to seed routes: %w", err)
	}

	buses, err := s.SeedBuses()
	if err != nil {
		return fmt.Errorf("failed to seed buses: %w", err)
	}

	list := buildSchedules(routes, buses, time.Now(), opts.Days, opts.Price)
	if len(list) == 0 {
		return nil
	}
	if err := s.db.PostgreSQL.CreateInBatches(&list, 100).Error; err != nil {
		return fmt.Errorf("failed to seed schedules: %w", err)
	}
	fmt.Printf("  🚌 Created %d schedules over %d days\n", len(list), opts.Days)
	return nil
}

// SeedUsers creates 1 admin and 2 regular users, all with password "qwerty"
func (s *Seeder) SeedUsers() error {
	fmt.Println("  👤 Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		name  string
		email string
		phone string
		role  users.Role
	}{
		{"Admin User", "admin@busly.com", "+911234567890", users.RoleAdmin},
		{"Asha Rao", "asha@busly.com", "+919876543210", users.RoleUser},
		{"Vikram Iyer", "vikram@busly.com", "+919812345678", users.RoleUser},
	}

	for _, u := range usersData {
		user := users.User{
			ID:       uuid.New(),
			Name:     u.name,
			Email:    u.email,
			Phone:    u.phone,
			Password: string(hashedPassword),
			Role:     u.role,
		}
		if err := s.db.PostgreSQL.Where(users.User{Email: user.Email}).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.email, err)
		}
		fmt.Printf("    ✅ User: %s (%s)\n", user.Email, user.Role)
	}
	return nil
}

type routeSeed struct {
	route schedules.Route
	hours int
	// price multiplier over the base fare
	factor float64
}

func (s *Seeder) SeedRoutes() ([]routeSeed, error) {
	fmt.Println("  🗺️  Seeding routes...")

	seeds := []routeSeed{
		{schedules.Route{RouteName: "Mumbai - Pune Express", Source: "Mumbai", Destination: "Pune", Stops: []string{"Lonavala"}}, 4, 1},
		{schedules.Route{RouteName: "Pune - Mumbai Express", Source: "Pune", Destination: "Mumbai", Stops: []string{"Lonavala"}}, 4, 1},
		{schedules.Route{RouteName: "Bengaluru - Chennai", Source: "Bengaluru", Destination: "Chennai", Stops: []string{"Hosur", "Vellore"}}, 7, 1.6},
		{schedules.Route{RouteName: "Delhi - Jaipur", Source: "Delhi", Destination: "Jaipur", Stops: []string{"Gurugram", "Neemrana"}}, 6, 1.4},
	}

	for i := range seeds {
		if err := s.db.PostgreSQL.Create(&seeds[i].route).Error; err != nil {
			return nil, fmt.Errorf("failed to create route %s: %w", seeds[i].route.RouteName, err)
		}
		fmt.Printf("    ✅ Route: %s\n", seeds[i].route.RouteName)
	}
	return seeds, nil
}

func (s *Seeder) SeedBuses() ([]schedules.Bus, error) {
	fmt.Println("  🚍 Seeding buses...")

	buses := []schedules.Bus{
		{BusNumber: "MH-12-AB-1001", BusType: "AC Sleeper", TotalSeats: 30},
		{BusNumber: "MH-12-AB-1002", BusType: "AC Seater", TotalSeats: 40},
		{BusNumber: "KA-01-CD-2001", BusType: "Volvo Multi-Axle", TotalSeats: 45},
	}

	for i := range buses {
		if err := s.db.PostgreSQL.Create(&buses[i]).Error; err != nil {
			return nil, fmt.Errorf("failed to create bus %s: %w", buses[i].BusNumber, err)
		}
		fmt.Printf("    ✅ Bus: %s (%d seats)\n", buses[i].BusNumber, buses[i].TotalSeats)
	}
	return buses, nil
}

var departureHours = []int{6, 14, 22}

// buildSchedules lays out departures for every route on each of the next days
// days, rotating through the buses.
func buildSchedules(routes []routeSeed, buses []schedules.Bus, now time.Time, days int, basePrice float64) []schedules.Schedule {
	if len(routes) == 0 || len(buses) == 0 || days <= 0 {
		return nil
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	out := make([]schedules.Schedule, 0, days*len(routes)*len(departureHours))

	n := 0
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		for _, rs := range routes {
			for _, h := range departureHours {
				departure := day.Add(time.Duration(h) * time.Hour)
				bus := buses[n%len(buses)]
				n++

				out = append(out, schedules.Schedule{
					RouteID:       rs.route.ID,
					BusID:         bus.ID,
					DepartureTime: departure,
					ArrivalTime:   departure.Add(time.Duration(rs.hours) * time.Hour),
					Price:         float64(int(basePrice*rs.factor*100+0.5)) / 100,
				})
			}
		}
	}
	return out
}
