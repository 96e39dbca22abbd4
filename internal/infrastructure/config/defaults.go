package config

import "time"

// SetDefaults sets default values for all configuration fields.
// The default station is SUPER 200, DIESEL 150 and two REGULAR pumps of 100 and 200.
func SetDefaults(cfg *Config) {
	// Station defaults
	if cfg.Station.DispenseRate == 0 {
		cfg.Station.DispenseRate = 10
	}
	if len(cfg.Station.Pumps) == 0 {
		cfg.Station.Pumps = []PumpConfig{
			{Grade: "SUPER", Quantity: 200},
			{Grade: "DIESEL", Quantity: 150},
			{Grade: "REGULAR", Quantity: 100},
			{Grade: "REGULAR", Quantity: 200},
		}
	}
	if len(cfg.Station.Prices) == 0 {
		cfg.Station.Prices = map[string]float64{
			"REGULAR": 1.40,
			"SUPER":   1.42,
			"DIESEL":  1.20,
		}
	}

	// Simulation defaults
	if cfg.Simulation.Duration == 0 {
		cfg.Simulation.Duration = 60 * time.Second
	}
	if len(cfg.Simulation.Customers) == 0 {
		cfg.Simulation.Customers = []CustomerConfig{
			{Name: "customer-1", Grade: "SUPER", Amount: 30, MaxPrice: 1.50, Interval: 1000 * time.Millisecond},
			{Name: "customer-2", Grade: "DIESEL", Amount: 60, MaxPrice: 1.50, Interval: 1200 * time.Millisecond},
			{Name: "customer-3", Grade: "REGULAR", Amount: 30, MaxPrice: 1.50, Interval: 1300 * time.Millisecond},
		}
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = ":memory:"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "gasstation"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "gasstation"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Daemon defaults
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/gasstation.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 30 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
