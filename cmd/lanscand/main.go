// Command lanscand is the daemon front end: it loads environment
// configuration via godotenv, the way the teacher's cli/cli.go and
// api/server.go expect a .env file in development, and starts the
// control-plane HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"lanscan/controlapi"
	"lanscan/internal/logging"
)

func main() {
	envErr := godotenv.Load()

	log := logging.Configure(os.Getenv("LOG_LEVEL"))
	if envErr != nil {
		log.Info("no .env file found, continuing with process environment")
	}

	if err := controlapi.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "lanscand: %v\n", err)
		os.Exit(1)
	}
}
