package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"takemeto75/trip"
)

type Config struct {
	App      App      `yaml:"app"`
	HTTP     HTTP     `yaml:"http"`
	Log      Log      `yaml:"log"`
	Database Database `yaml:"database"`
	Redis    Redis    `yaml:"redis"`
	Duffel   Duffel   `yaml:"duffel"`
	Amadeus  Amadeus  `yaml:"amadeus"`
	Booking  Booking  `yaml:"booking"`
	Awin     Awin     `yaml:"awin"`
	Weather  Weather  `yaml:"weather"`
	Advisor  Advisor  `yaml:"advisor"`
	Trip     Trip     `yaml:"trip"`
	Markup   Markup   `yaml:"markup"`
}

type App struct {
	Name string `yaml:"name" env:"APP_NAME" env-default:"takemeto75"`
	Env  string `yaml:"env" env:"APP_ENV" env-default:"development"`
}

type HTTP struct {
	Port           string        `yaml:"port" env:"PORT" env-default:"8080"`
	FrontendURL    string        `yaml:"frontend_url" env:"FRONTEND_URL"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"45s"`
	ReleaseMode    bool          `yaml:"release_mode" env:"GIN_RELEASE_MODE" env-default:"false"`
}

// Origins returns the comma-separated FRONTEND_URL list plus local dev servers.
func (h HTTP) Origins() []string {
	origins := []string{"http://localhost:5173", "http://localhost:3000"}
	for _, o := range strings.Split(h.FrontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Database is optional. With neither URL nor Host set, bookings and packages
// live in memory.
type Database struct {
	URL      string `yaml:"url" env:"DATABASE_URL"`
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"takemeto75"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

func (d Database) Enabled() bool {
	return d.URL != "" || d.Host != ""
}

func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type Redis struct {
	Addr       string        `yaml:"addr" env:"REDIS_ADDR"`
	Password   string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB         int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	PackageTTL time.Duration `yaml:"package_ttl" env:"REDIS_PACKAGE_TTL" env-default:"24h"`
}

type Duffel struct {
	Token         string  `yaml:"token" env:"DUFFEL_ACCESS_TOKEN"`
	BaseURL       string  `yaml:"base_url" env:"DUFFEL_BASE_URL" env-default:"https://api.duffel.com"`
	Version       string  `yaml:"version" env:"DUFFEL_VERSION" env-default:"v2"`
	RatePerSecond float64 `yaml:"rate_per_second" env:"DUFFEL_RATE_PER_SECOND" env-default:"5"`
}

type Amadeus struct {
	ClientID      string  `yaml:"client_id" env:"AMADEUS_CLIENT_ID"`
	ClientSecret  string  `yaml:"client_secret" env:"AMADEUS_CLIENT_SECRET"`
	Env           string  `yaml:"env" env:"AMADEUS_ENV" env-default:"test"`
	RatePerSecond float64 `yaml:"rate_per_second" env:"AMADEUS_RATE_PER_SECOND" env-default:"5"`
}

func (a Amadeus) BaseURL() string {
	if a.Env == "production" {
		return "https://api.amadeus.com"
	}
	return "https://test.api.amadeus.com"
}

type Booking struct {
	APIKey        string  `yaml:"api_key" env:"BOOKING_API_KEY"`
	AffiliateID   string  `yaml:"affiliate_id" env:"BOOKING_AFFILIATE_ID" env-default:"304142"`
	BaseURL       string  `yaml:"base_url" env:"BOOKING_BASE_URL" env-default:"https://demandapi.booking.com/3.1"`
	RatePerSecond float64 `yaml:"rate_per_second" env:"BOOKING_RATE_PER_SECOND" env-default:"5"`
}

type Awin struct {
	PublisherID  string `yaml:"publisher_id" env:"AWIN_PUBLISHER_ID" env-default:"2705974"`
	AdvertiserID string `yaml:"advertiser_id" env:"AWIN_ADVERTISER_ID" env-default:"6776"`
}

type Weather struct {
	APIKey  string `yaml:"api_key" env:"WEATHER_API_KEY"`
	BaseURL string `yaml:"base_url" env:"WEATHER_BASE_URL" env-default:"https://api.weatherapi.com/v1"`
	Days    int    `yaml:"days" env:"WEATHER_FORECAST_DAYS" env-default:"7"`
}

type Advisor struct {
	Provider      string        `yaml:"provider" env:"ADVISOR_PROVIDER" env-default:"openai"`
	OpenAIKey     string        `yaml:"openai_key" env:"OPENAI_API_KEY"`
	OpenAIModel   string        `yaml:"openai_model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	OpenAIBaseURL string        `yaml:"openai_base_url" env:"OPENAI_BASE_URL"`
	HFToken       string        `yaml:"hf_token" env:"HF_TOKEN"`
	HFModel       string        `yaml:"hf_model" env:"HF_MODEL" env-default:"mistralai/Mistral-7B-Instruct-v0.2"`
	Timeout       time.Duration `yaml:"timeout" env:"ADVISOR_TIMEOUT" env-default:"20s"`
}

type Trip struct {
	Nights            int    `yaml:"nights" env:"TRIP_NIGHTS" env-default:"3"`
	DefaultOrigin     string `yaml:"default_origin" env:"TRIP_DEFAULT_ORIGIN" env-default:"JFK"`
	BatchSize         int    `yaml:"batch_size" env:"TRIP_BATCH_SIZE" env-default:"10"`
	DestinationsLimit int    `yaml:"destinations_limit" env:"TRIP_DESTINATIONS_LIMIT" env-default:"10"`
}

// Markup holds the per-tier flight markup in cents.
type Markup struct {
	BaseCents    int64 `yaml:"base_cents" env:"FLIGHT_MARKUP_BASE" env-default:"2500"`
	PremiumCents int64 `yaml:"premium_cents" env:"FLIGHT_MARKUP_PREMIUM" env-default:"4000"`
	LuxeCents    int64 `yaml:"luxe_cents" env:"FLIGHT_MARKUP_LUXE" env-default:"7500"`
}

// FlightMarkups returns the markup in currency units keyed by tier.
func (m Markup) FlightMarkups() map[trip.Tier]float64 {
	return map[trip.Tier]float64{
		trip.TierBase:    float64(m.BaseCents) / 100,
		trip.TierPremium: float64(m.PremiumCents) / 100,
		trip.TierLuxe:    float64(m.LuxeCents) / 100,
	}
}

// New reads config.yaml when present and lets the environment override it.
func New() (*Config, error) {
	return Load("config.yaml")
}

func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		// no file: environment only
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("config env override: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Trip.Nights <= 0 {
		return fmt.Errorf("config error: trip nights must be positive, got %d", c.Trip.Nights)
	}
	if c.Trip.BatchSize <= 0 {
		return fmt.Errorf("config error: trip batch size must be positive, got %d", c.Trip.BatchSize)
	}
	if c.Weather.Days < 1 || c.Weather.Days > 14 {
		return fmt.Errorf("config error: weather forecast days must be 1-14, got %d", c.Weather.Days)
	}
	switch c.Advisor.Provider {
	case "openai", "huggingface", "none":
	default:
		return fmt.Errorf("config error: unknown advisor provider %q", c.Advisor.Provider)
	}
	return nil
}
