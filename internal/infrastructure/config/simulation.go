package config

import "time"

// SimulationConfig holds the customer simulation settings
type SimulationConfig struct {
	// How long `simulate` runs before reporting
	Duration time.Duration `mapstructure:"duration" validate:"required"`

	Customers []CustomerConfig `mapstructure:"customers" validate:"required,min=1,dive"`
}

// CustomerConfig describes one simulated customer
type CustomerConfig struct {
	Name     string        `mapstructure:"name"`
	Grade    string        `mapstructure:"grade" validate:"required,fuelgrade"`
	Amount   float64       `mapstructure:"amount" validate:"gt=0"`
	MaxPrice float64       `mapstructure:"max_price"`
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
}
