package main

import (
	"log"

	"github.com/bernardocerejo/sentinel-criptobot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("could not start application: %v", err)
	}
}
