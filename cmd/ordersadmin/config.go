package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	endpoint        string
	backendEndpoint string
	dsn             string
	sessionFile     string
	logLevel        string
	env             string
}

func NewConfig() Config {
	// Локальный .env необязателен; при отсутствии просто игнорируется.
	_ = godotenv.Load()

	var (
		endpoint        string
		backendEndpoint string
		dsn             string
		sessionFile     string
		logLevel        string
		env             string
	)

	flag.StringVar(&endpoint, "a", "localhost:8090", "address and port to run console server")
	flag.StringVar(&backendEndpoint, "b", "http://localhost:8080", "base URL of the remote orders backend")
	flag.StringVar(&dsn, "d", "", "data source name for the audit log database (optional)")
	flag.StringVar(&sessionFile, "s", "admin-session.json", "path to the persisted admin session file")
	flag.Parse()

	if address := os.Getenv("RUN_ADDRESS"); address != "" {
		endpoint = address
	}

	if backendAddress := os.Getenv("BACKEND_ADDRESS"); backendAddress != "" {
		backendEndpoint = backendAddress
	}

	if d := os.Getenv("DATABASE_URI"); d != "" {
		dsn = d
	}

	if s := os.Getenv("SESSION_FILE"); s != "" {
		sessionFile = s
	}

	if l := os.Getenv("LOG_LEVEL"); l != "" {
		logLevel = l
	} else {
		logLevel = "error"
	}

	if e := os.Getenv("ENV"); e != "" {
		env = e
	} else {
		env = "production"
	}

	return Config{
		endpoint,
		backendEndpoint,
		dsn,
		sessionFile,
		logLevel,
		env,
	}
}
