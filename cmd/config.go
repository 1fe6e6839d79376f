package cmd

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config carries everything the service reads from the environment. Dispatch
// tuning has working defaults; only the HTTP port and database settings are
// mandatory.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	DispatchRadiusM        float64
	DispatchCandidateLimit int
	DispatchMaxPositionAge time.Duration
	DeliveryFee            decimal.Decimal
	PositionRetention      time.Duration
}
