package config

// StationConfig holds the pump layout and price table of the station
type StationConfig struct {
	// Units dispensed per simulated second
	DispenseRate float64 `mapstructure:"dispense_rate" validate:"gt=0"`

	// Pumps in registration order; first-fit selection follows this order
	Pumps []PumpConfig `mapstructure:"pumps" validate:"required,min=1,dive"`

	// Unit price per grade, keyed by grade name (case-insensitive)
	Prices map[string]float64 `mapstructure:"prices" validate:"required,dive,keys,fuelgrade,endkeys,gt=0"`
}

// PumpConfig describes one pump
type PumpConfig struct {
	Grade    string  `mapstructure:"grade" validate:"required,fuelgrade"`
	Quantity float64 `mapstructure:"quantity" validate:"gte=0"`
}
