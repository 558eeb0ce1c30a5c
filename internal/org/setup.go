package org

import (
	"log"

	"github.com/NagarSeva/NS-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "org"); err != nil {
		log.Fatal("Failed to ensure schema org: ", err)
	}

	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}

	if err := db.DB.AutoMigrate(
		&ULB{},
		&Ward{},
		&Supervisor{},
		&Worker{},
	); err != nil {
		log.Fatal("Failed to auto-migrate org tables: ", err)
	}

	log.Println("Org module initialized")
}
