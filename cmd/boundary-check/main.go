package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/NagarSeva/NS-Backend/internal/geo"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Checks a lat/lng against a stored ward boundary without going through the
// marking path. Handy when a supervisor reports OUTSIDE_WARD on a point that
// looks fine on the map.
func main() {
	wardID := flag.String("ward", "", "Ward UUID (required)")
	lat := flag.Float64("lat", 0, "Latitude")
	lng := flag.Float64("lng", 0, "Longitude")
	flag.Parse()

	godotenv.Load(".env.local")

	if *wardID == "" {
		log.Fatal("--ward is required")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB connection error: %v", err)
	}

	type Result struct {
		Number   int
		Name     string
		Boundary []byte
	}

	var ward Result
	if err := db.Raw(`
		SELECT number, name, boundary
		FROM org.wards
		WHERE id = ?
	`, *wardID).Scan(&ward).Error; err != nil {
		log.Fatalf("Query error: %v", err)
	}

	poly := geo.ParseBoundary(ward.Boundary)
	fmt.Printf("Ward %d (%s): %d boundary vertices\n", ward.Number, ward.Name, len(poly))

	if len(poly) < 3 {
		fmt.Println("No usable boundary; geofencing fails open → VALID")
		return
	}

	status := geo.Evaluate(*lat, *lng, poly)
	fmt.Printf("Point (%f, %f) → %s\n", *lat, *lng, status)
}
