package main

import (
	"log"

	"github.com/VoteCompass/VC-Backend/internal/db"
	"github.com/VoteCompass/VC-Backend/internal/parliament"
	"github.com/VoteCompass/VC-Backend/internal/seeds"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()
	parliament.Init()

	if err := seeds.SeedAll(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
