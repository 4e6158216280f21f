package main

import (
	"log"

	"github.com/kyaoi/thumbooks/internal/commands"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		log.Fatalf("thumbooks: %v", err)
	}
}
