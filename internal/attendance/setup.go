package attendance

import (
	"log"

	"github.com/NagarSeva/NS-Backend/internal/auth"
	"github.com/NagarSeva/NS-Backend/internal/config"
	"github.com/NagarSeva/NS-Backend/internal/db"
	"github.com/NagarSeva/NS-Backend/internal/org"
)

// Init migrates the sanitation schema and wires the marking service against
// the Postgres-backed ports.
func Init(cfg config.Config) *Service {
	if err := db.EnsureSchema(db.DB, "sanitation"); err != nil {
		log.Fatal("Failed to ensure schema sanitation: ", err)
	}

	if err := db.DB.AutoMigrate(&Record{}); err != nil {
		log.Fatal("Failed to auto-migrate attendance tables: ", err)
	}

	window := Window{StartMinute: cfg.WindowStartMinute, EndMinute: cfg.WindowEndMinute}

	log.Printf("[attendance] module initialized window=%s-%s geofence=%s",
		cfg.WindowStart, cfg.WindowEnd, cfg.Geofence)

	return NewService(org.Directory{}, GormStore{}, auth.StaffInfo{}, window)
}
