package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	NumberPickerTurnSeconds  int
	NumberPickerMaxRounds    int
	RPSTurnSeconds           int
	RPSMaxRounds             int
	ChainTurnSeconds         int
	ChainMaxRounds           int
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
}

func Default() Config {
	return Config{
		NumberPickerTurnSeconds:  10,
		NumberPickerMaxRounds:    5,
		RPSTurnSeconds:           10,
		RPSMaxRounds:             5,
		ChainTurnSeconds:         15,
		ChainMaxRounds:           10,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("NUMBER_PICKER_TURN_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.NumberPickerTurnSeconds = value
		}
	}
	if raw := os.Getenv("NUMBER_PICKER_MAX_ROUNDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.NumberPickerMaxRounds = value
		}
	}
	if raw := os.Getenv("RPS_TURN_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.RPSTurnSeconds = value
		}
	}
	if raw := os.Getenv("RPS_MAX_ROUNDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.RPSMaxRounds = value
		}
	}
	if raw := os.Getenv("CHAIN_REACTION_TURN_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.ChainTurnSeconds = value
		}
	}
	if raw := os.Getenv("CHAIN_REACTION_MAX_ROUNDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.ChainMaxRounds = value
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	return cfg
}

// TurnSeconds returns the configured turn length for a game type, or zero
// when the type has no override here.
func (c Config) TurnSeconds(gameType string) int {
	switch gameType {
	case "number_picker":
		return c.NumberPickerTurnSeconds
	case "rock_paper_scissors":
		return c.RPSTurnSeconds
	case "chain_reaction":
		return c.ChainTurnSeconds
	}
	return 0
}

// MaxRounds returns the configured round cap for a game type, or zero.
func (c Config) MaxRounds(gameType string) int {
	switch gameType {
	case "number_picker":
		return c.NumberPickerMaxRounds
	case "rock_paper_scissors":
		return c.RPSMaxRounds
	case "chain_reaction":
		return c.ChainMaxRounds
	}
	return 0
}
