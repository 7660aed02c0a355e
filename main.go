package main

import (
	"log"

	"github.com/stylepress/go-stylepress/app"
)

func main() {
	application, err := app.New() // loads .env automatically
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	if err := application.Boot(); err != nil {
		log.Fatalf("boot error: %v", err)
	}

	if err := application.MountHTTP(); err != nil {
		log.Fatalf("routing error: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
