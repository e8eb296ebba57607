// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the tunables that rarely change between runs. Every key
// can come from a config file (peergrade.yaml), the environment
// (PEERGRADE_*), or fall back to the defaults below; flags still win
// where a flag exists.
type Config struct {
	CommentSeparator string   `mapstructure:"comment_separator" validate:"required"`
	SelfPrefix       string   `mapstructure:"self_prefix" validate:"required"`
	PeerPrefix       string   `mapstructure:"peer_prefix" validate:"required"`
	DiffPrefix       string   `mapstructure:"diff_prefix" validate:"required"`
	MaxDistance      int      `mapstructure:"max_distance" validate:"min=0,max=10"`
	NATokens         []string `mapstructure:"na_tokens"`
	AliasDB          string   `mapstructure:"alias_db"`
	RatingsRequired  bool     `mapstructure:"ratings_required"`
	SheetCompiled    string   `mapstructure:"sheet_compiled" validate:"required"`
	SheetUnmatched   string   `mapstructure:"sheet_unmatched" validate:"required"`
	SheetSummary     string   `mapstructure:"sheet_summary" validate:"required"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("comment_separator", " | ")
	v.SetDefault("self_prefix", "SE")
	v.SetDefault("peer_prefix", "PE")
	v.SetDefault("diff_prefix", "SE-PE")
	v.SetDefault("max_distance", 2)
	v.SetDefault("na_tokens", []string{})
	v.SetDefault("alias_db", "")
	v.SetDefault("ratings_required", false)
	v.SetDefault("sheet_compiled", "Compiled")
	v.SetDefault("sheet_unmatched", "Unmatched")
	v.SetDefault("sheet_summary", "Summary")
}

// Default returns the built-in configuration.
func Default() Config {
	c, _ := load("", false)
	return c
}

// Load reads configuration with precedence env > file > defaults.
// path "" searches the working directory for peergrade.{yaml,yml};
// a missing discovered file is fine, a missing explicit path is not.
func Load(path string) (Config, error) {
	return load(path, true)
}

func load(path string, readFile bool) (Config, error) {
	// A .env alongside the run is picked up; missing is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PEERGRADE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if readFile {
		if path != "" {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("config: %w", err)
			}
		} else {
			v.SetConfigName("peergrade")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
			if err := v.ReadInConfig(); err != nil {
				var nf viper.ConfigFileNotFoundError
				if !errors.As(err, &nf) {
					return Config{}, fmt.Errorf("config: %w", err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func validate(c Config) error {
	val := validator.New()
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if tag == "-" {
			return ""
		}
		return tag
	})
	err := val.Struct(c)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		parts := make([]string, 0, len(ves))
		for _, fe := range ves {
			parts = append(parts, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("config: %s", strings.Join(parts, "; "))
	}
	return fmt.Errorf("config: %w", err)
}
