package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchelldurbincs/HexTactics/internal/hex"
	"github.com/mitchelldurbincs/HexTactics/internal/hexgrid"
	"github.com/mitchelldurbincs/HexTactics/internal/mapgen"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Grid        GridConfig        `mapstructure:"grid"`
	Units       UnitsConfig       `mapstructure:"units"`
	Pathfinding PathfindingConfig `mapstructure:"pathfinding"`
	Mapgen      MapgenConfig      `mapstructure:"mapgen"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// GridConfig holds map size and perturbation settings
type GridConfig struct {
	Width     int   `mapstructure:"width"`
	Height    int   `mapstructure:"height"`
	Noise     bool  `mapstructure:"noise"`
	NoiseSeed int64 `mapstructure:"noise_seed"`
}

// UnitsConfig holds per-kind unit stats
type UnitsConfig struct {
	Player UnitConfig `mapstructure:"player"`
	Enemy  UnitConfig `mapstructure:"enemy"`
}

// UnitConfig holds the stats of one unit kind
type UnitConfig struct {
	Speed       int     `mapstructure:"speed"`
	VisionRange int     `mapstructure:"vision_range"`
	TravelSpeed float64 `mapstructure:"travel_speed"`
}

// PathfindingConfig holds search settings
type PathfindingConfig struct {
	DefaultSpeed int `mapstructure:"default_speed"`
}

// MapgenConfig holds procedural generation settings
type MapgenConfig struct {
	Seed                 int64   `mapstructure:"seed"`
	MaxElevation         int     `mapstructure:"max_elevation"`
	WaterLevel           int     `mapstructure:"water_level"`
	ElevationOctaves     int     `mapstructure:"elevation_octaves"`
	ElevationFrequency   float64 `mapstructure:"elevation_frequency"`
	ElevationPersistence float64 `mapstructure:"elevation_persistence"`
	MoistureFrequency    float64 `mapstructure:"moisture_frequency"`
	SpecialRatio         int     `mapstructure:"special_ratio"`
	RoadDensity          int     `mapstructure:"road_density"`
	MinRoadLength        int     `mapstructure:"min_road_length"`
	MaxRoadLengthRatio   float64 `mapstructure:"max_road_length_ratio"`
	UrbanChance          float64 `mapstructure:"urban_chance"`
}

// StorageConfig holds map file and catalog locations
type StorageConfig struct {
	MapDir         string `mapstructure:"map_dir"`
	CatalogEnabled bool   `mapstructure:"catalog_enabled"`
	CatalogPath    string `mapstructure:"catalog_path"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	VerboseLogging bool `mapstructure:"verbose_logging"`
	ShowLabels     bool `mapstructure:"show_labels"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Grid defaults
	v.SetDefault("grid.width", hexgrid.DefaultCellCountX)
	v.SetDefault("grid.height", hexgrid.DefaultCellCountZ)
	v.SetDefault("grid.noise", true)
	v.SetDefault("grid.noise_seed", 1234)

	// Unit defaults
	for _, kind := range []string{"player", "enemy"} {
		v.SetDefault("units."+kind+".speed", hexgrid.DefaultUnitSpeed)
		v.SetDefault("units."+kind+".vision_range", hexgrid.DefaultUnitVisionRange)
		v.SetDefault("units."+kind+".travel_speed", hexgrid.DefaultUnitTravelSpeed)
	}

	v.SetDefault("pathfinding.default_speed", hexgrid.DefaultUnitSpeed)

	// Generation defaults
	v.SetDefault("mapgen.seed", 0)
	v.SetDefault("mapgen.max_elevation", 6)
	v.SetDefault("mapgen.water_level", 1)
	v.SetDefault("mapgen.elevation_octaves", 4)
	v.SetDefault("mapgen.elevation_frequency", 0.08)
	v.SetDefault("mapgen.elevation_persistence", 0.5)
	v.SetDefault("mapgen.moisture_frequency", 0.06)
	v.SetDefault("mapgen.special_ratio", 40)
	v.SetDefault("mapgen.road_density", 25)
	v.SetDefault("mapgen.min_road_length", 3)
	v.SetDefault("mapgen.max_road_length_ratio", 0.25)
	v.SetDefault("mapgen.urban_chance", 0.05)

	// Storage defaults
	v.SetDefault("storage.map_dir", "maps")
	v.SetDefault("storage.catalog_enabled", true)
	v.SetDefault("storage.catalog_path", "maps/catalog.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("development.verbose_logging", false)
	v.SetDefault("development.show_labels", true)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/hextactics")
	}

	// HEX_MAPGEN_SEED overrides mapgen.seed
	v.SetEnvPrefix("HEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing explicit file falls back to defaults; elsewhere only "not found" is tolerated
		if configPath == "" {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		// Initialize with defaults if not already initialized
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	v.Unmarshal(cfg)
}

func GetString(key string) string { return v.GetString(key) }
func GetInt(key string) int { return v.GetInt(key) }
func GetBool(key string) bool { return v.GetBool(key) }
func GetFloat64(key string) float64 { return v.GetFloat64(key) }

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file. A changed file that fails
// validation keeps the previous values.
func WatchConfig(onChange func()) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil || Validate(next) != nil {
			return
		}
		*cfg = *next
		if onChange != nil {
			onChange()
		}
	})
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Grid.Width <= 0 || c.Grid.Width%hex.ChunkSizeX != 0 {
		return fmt.Errorf("grid.width must be a positive multiple of %d", hex.ChunkSizeX)
	}
	if c.Grid.Height <= 0 || c.Grid.Height%hex.ChunkSizeZ != 0 {
		return fmt.Errorf("grid.height must be a positive multiple of %d", hex.ChunkSizeZ)
	}

	validateUnit := func(u UnitConfig, name string) error {
		if u.Speed <= 0 {
			return fmt.Errorf("units.%s.speed must be positive", name)
		}
		if u.VisionRange < 0 {
			return fmt.Errorf("units.%s.vision_range must be non-negative", name)
		}
		if u.TravelSpeed <= 0 {
			return fmt.Errorf("units.%s.travel_speed must be positive", name)
		}
		return nil
	}
	if err := validateUnit(c.Units.Player, "player"); err != nil {
		return err
	}
	if err := validateUnit(c.Units.Enemy, "enemy"); err != nil {
		return err
	}

	if c.Pathfinding.DefaultSpeed <= 0 {
		return fmt.Errorf("pathfinding.default_speed must be positive")
	}

	m := c.Mapgen
	if m.MaxElevation < 0 || m.MaxElevation > 255 {
		return fmt.Errorf("mapgen.max_elevation must be between 0 and 255")
	}
	if m.WaterLevel < 0 || m.WaterLevel > 255 {
		return fmt.Errorf("mapgen.water_level must be between 0 and 255")
	}
	if m.ElevationOctaves <= 0 {
		return fmt.Errorf("mapgen.elevation_octaves must be positive")
	}
	if m.SpecialRatio < 0 {
		return fmt.Errorf("mapgen.special_ratio must be non-negative")
	}
	if m.RoadDensity < 0 {
		return fmt.Errorf("mapgen.road_density must be non-negative")
	}
	if m.MinRoadLength < 1 {
		return fmt.Errorf("mapgen.min_road_length must be at least 1")
	}
	if m.MaxRoadLengthRatio <= 0 || m.MaxRoadLengthRatio > 1 {
		return fmt.Errorf("mapgen.max_road_length_ratio must be between 0 and 1")
	}
	if m.UrbanChance < 0 || m.UrbanChance > 1 {
		return fmt.Errorf("mapgen.urban_chance must be between 0 and 1")
	}

	if c.Storage.MapDir == "" {
		return fmt.Errorf("storage.map_dir must be set")
	}
	if c.Storage.CatalogEnabled && c.Storage.CatalogPath == "" {
		return fmt.Errorf("storage.catalog_path must be set when the catalog is enabled")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}

	return nil
}

// UnitStats converts the units section for hexgrid.Config
func (c *Config) UnitStats() map[hexgrid.UnitKind]hexgrid.UnitStats {
	convert := func(u UnitConfig) hexgrid.UnitStats {
		return hexgrid.UnitStats{Speed: u.Speed, VisionRange: u.VisionRange, TravelSpeed: u.TravelSpeed}
	}
	return map[hexgrid.UnitKind]hexgrid.UnitStats{
		hexgrid.UnitPlayer: convert(c.Units.Player),
		hexgrid.UnitEnemy:  convert(c.Units.Enemy),
	}
}

// MapConfig converts the mapgen section for a map of width by height cells
func (c *Config) MapConfig(width, height int) mapgen.MapConfig {
	m := c.Mapgen
	roads := 0
	if m.RoadDensity > 0 {
		roads = (width * height) / m.RoadDensity
	}
	return mapgen.MapConfig{
		Width:                width,
		Height:               height,
		Seed:                 m.Seed,
		MaxElevation:         m.MaxElevation,
		WaterLevel:           m.WaterLevel,
		ElevationOctaves:     m.ElevationOctaves,
		ElevationFrequency:   m.ElevationFrequency,
		ElevationPersistence: m.ElevationPersistence,
		MoistureFrequency:    m.MoistureFrequency,
		SpecialRatio:         m.SpecialRatio,
		RoadCount:            roads,
		MinRoadLength:        m.MinRoadLength,
		MaxRoadLength:        max(m.MinRoadLength, int(float64(width)*m.MaxRoadLengthRatio)),
		UrbanChance:          m.UrbanChance,
	}
}
