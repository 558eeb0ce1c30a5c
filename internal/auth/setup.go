package auth

import (
	"log"

	"github.com/NagarSeva/NS-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "staff_auth"); err != nil {
		log.Fatal("Failed to ensure schema staff_auth: ", err)
	}

	if err := db.DB.AutoMigrate(&User{}, &Session{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
