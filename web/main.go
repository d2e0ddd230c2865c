package main

import (
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/TioT2/p-tr/web/server"
)

// getEnv reads an environment variable with a default value
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable with a default value
func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Ignoring %s=%q: %v", key, value, err)
		return fallback
	}
	return parsed
}

func main() {
	_ = godotenv.Load(".env")

	addr := flag.String("addr", getEnv("PTR_ADDR", ":8080"), "Address to serve on")
	width := flag.Int("width", getEnvInt("PTR_WIDTH", 800), "Render width in pixels")
	height := flag.Int("height", getEnvInt("PTR_HEIGHT", 600), "Render height in pixels")
	workers := flag.Int("workers", getEnvInt("PTR_WORKERS", 0), "Number of render workers (0 = CPU count)")
	flag.Parse()

	webServer := server.NewServer(server.Config{
		Addr:    *addr,
		Width:   *width,
		Height:  *height,
		Workers: *workers,
	})

	log.Printf("Progressive path tracer web server")
	log.Printf("Visit http://localhost%s to start rendering", *addr)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
