package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080" validate:"required"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`

	// Remote dataset source. Identifiers are stable file IDs on the host.
	DriveBaseURL       string        `envconfig:"DRIVE_BASE_URL" default:"https://drive.google.com/uc" validate:"required,url"`
	DriveTimeout       time.Duration `envconfig:"DRIVE_TIMEOUT" default:"30s" validate:"gt=0"`
	CountyCSVID        string        `envconfig:"COUNTY_CSV_ID" default:"1Af6Xh3ugLx_jAeQc1qPOOe-szzADKTX_" validate:"required"`
	LandslideGeoJSONID string        `envconfig:"LANDSLIDE_GEOJSON_ID" default:"1j5xOYXjNY9E1wequhjE-vxBLA8_WgVdj" validate:"required"`
	WildfireGeoJSONID  string        `envconfig:"WILDFIRE_GEOJSON_ID" default:"1zQmcVrtqCU_RzZcrZzPTxZCoJXMbIob7" validate:"required"`

	// Point datasets are sampled down to SampleSize markers each.
	SampleSize int    `envconfig:"SAMPLE_SIZE" default:"500" validate:"gt=0"`
	SampleSeed uint64 `envconfig:"SAMPLE_SEED" default:"42"`

	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"30m" validate:"gt=0"`

	MapCenterLat float64 `envconfig:"MAP_CENTER_LAT" default:"44.1" validate:"gte=-90,lte=90"`
	MapCenterLon float64 `envconfig:"MAP_CENTER_LON" default:"-120.5" validate:"gte=-180,lte=180"`
	MapZoom      int     `envconfig:"MAP_ZOOM" default:"7" validate:"gte=1,lte=20"`
}

// Load reads configuration from the environment (and an optional .env file),
// applying defaults where unset, and validates the result.
func Load() (*Config, error) {
	// A missing .env file is fine; existing variables are never overridden.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
