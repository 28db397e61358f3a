package config

import (
	"os"

	"github.com/hjson/hjson-go/v4"
)

var CONF *Config = nil

type Config struct {
	Logger   Logger   `json:"logger"`
	Database Database `json:"database"`
	Redis    Redis    `json:"redis"`
	Http     Http     `json:"http"`
	Grid     Grid     `json:"grid"`
}

type Logger struct {
	Level        string `json:"level"`
	TrackLine    bool   `json:"track_line"`
	EnableFile   bool   `json:"enable_file"`
	DisableColor bool   `json:"disable_color"`
}

type Database struct {
	// Url scheme selects the store: mongodb:// mysql:// sqlite://
	Url string `json:"url"`
}

type Redis struct {
	Enable   bool   `json:"enable"`
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type Http struct {
	Addr string `json:"addr"`
}

// Grid carries the default generation parameters. All distances are in
// world units, angles in degrees.
type Grid struct {
	CellSize        float32 `json:"cell_size"`
	StepSize        float32 `json:"step_size"`
	WidthClearance  float32 `json:"width_clearance"`
	HeightClearance float32 `json:"height_clearance"`
	StandableAngle  float32 `json:"standable_angle"`
	MaxDropHeight   float32 `json:"max_drop_height"`
}

func DefaultConfig() *Config {
	return &Config{
		Logger: Logger{
			Level:        "INFO",
			TrackLine:    true,
			EnableFile:   false,
			DisableColor: false,
		},
		Database: Database{
			Url: "sqlite://navgrid.db",
		},
		Redis: Redis{
			Enable: false,
			Addr:   "127.0.0.1:6379",
		},
		Http: Http{
			Addr: "0.0.0.0:8080",
		},
		Grid: Grid{
			CellSize:        24.0,
			StepSize:        12.0,
			WidthClearance:  24.0,
			HeightClearance: 72.0,
			StandableAngle:  45.0,
			MaxDropHeight:   400.0,
		},
	}
}

func InitConfig(filePath string) {
	CONF = DefaultConfig()
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	err = hjson.Unmarshal(fileData, CONF)
	if err != nil {
		panic("parse config file error: " + err.Error())
	}
}

func GetConfig() *Config {
	if CONF == nil {
		CONF = DefaultConfig()
	}
	return CONF
}
