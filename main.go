package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/spigell/ats-scorer/cmd"
)

func main() {
	// A missing .env file is fine; the environment and config file still apply.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
