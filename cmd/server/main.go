package main

import (
	"log"

	"github.com/brianmacetas/admin-api/internal/server"

	// Register migrations and seeders so a plain server binary can still
	// bring a fresh database up to date.
	_ "github.com/brianmacetas/admin-api/database/migrations"
	_ "github.com/brianmacetas/admin-api/database/seeders"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
