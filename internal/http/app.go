// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/config"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/logger"
)

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP settings only).
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
