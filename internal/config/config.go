package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	DBDSN          string        `envconfig:"DB_DSN" default:"localledger.db"`
	LogFile        string        `envconfig:"LOG_FILE" default:""`
	Debug          bool          `envconfig:"DEBUG" default:"false"`
	StockThreshold int           `envconfig:"STOCK_THRESHOLD" default:"2"`
	SessionTimeout time.Duration `envconfig:"SESSION_TIMEOUT" default:"10m"`
	CurrencySymbol string        `envconfig:"CURRENCY_SYMBOL" default:"₹"`

	TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID" default:""`
	TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN" default:""`
	TwilioNumber     string `envconfig:"TWILIO_PHONE_NUMBER" default:""`

	SpeechURL  string `envconfig:"SPEECH_URL" default:""`
	BarcodeURL string `envconfig:"BARCODE_URL" default:""`
}

func Load() (Config, error) {
	// .env is optional; deployments may set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	log.Printf("[config] PORT=%s DB_DSN=%s STOCK_THRESHOLD=%d SESSION_TIMEOUT=%s DEBUG=%v",
		cfg.Port, cfg.DBDSN, cfg.StockThreshold, cfg.SessionTimeout, cfg.Debug)
	return cfg, nil
}
