package main

import (
	"assesshub_backend/internal/app"
	"assesshub_backend/internal/logger"
)

func main() {
	if err := app.Run(); err != nil {
		logger.Fatal("server exited", "error", err)
	}
}
