package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// SchedulingConfig holds the operator-tunable scheduling knobs. They are
// hot-reloadable so a deployment can adjust slot granularity without a
// restart.
type SchedulingConfig struct {
	// DefaultStepMinutes is the slot grid granularity when the caller
	// does not supply one.
	DefaultStepMinutes int `mapstructure:"defaultStepMinutes"`
	// MinLeadMinutes is how far in the future a booking must start.
	// Zero keeps the bare "strictly in the future" rule.
	MinLeadMinutes int `mapstructure:"minLeadMinutes"`
	// HorizonDays caps how far ahead availability is served.
	HorizonDays int `mapstructure:"horizonDays"`
}

func DefaultSchedulingConfig() SchedulingConfig {
	return SchedulingConfig{
		DefaultStepMinutes: 30,
		MinLeadMinutes:     0,
		HorizonDays:        90,
	}
}

// SchedulingConfigHolder serves the current scheduling config and swaps it
// atomically on file change.
type SchedulingConfigHolder struct {
	current atomic.Value // holds SchedulingConfig
}

func NewSchedulingConfigHolder() (*SchedulingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("scheduling")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/reserva/config")
	v.AddConfigPath("/etc/reserva")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RESERVA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultSchedulingConfig()
		v.SetDefault("scheduling.defaultStepMinutes", defaults.DefaultStepMinutes)
		v.SetDefault("scheduling.minLeadMinutes", defaults.MinLeadMinutes)
		v.SetDefault("scheduling.horizonDays", defaults.HorizonDays)
	}

	var cfg SchedulingConfig
	if err := v.UnmarshalKey("scheduling", &cfg); err != nil {
		return nil, err
	}
	if err := validateSchedulingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &SchedulingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated SchedulingConfig
		if err := v.UnmarshalKey("scheduling", &updated); err != nil {
			log.Printf("[scheduling-config] reload failed: %v", err)
			return
		}
		if err := validateSchedulingConfig(updated); err != nil {
			log.Printf("[scheduling-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[scheduling-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *SchedulingConfigHolder) Get() SchedulingConfig {
	return h.current.Load().(SchedulingConfig)
}

// NewStaticSchedulingConfigHolder wraps a fixed config, used by tests.
func NewStaticSchedulingConfigHolder(cfg SchedulingConfig) *SchedulingConfigHolder {
	holder := &SchedulingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateSchedulingConfig(cfg SchedulingConfig) error {
	if cfg.DefaultStepMinutes <= 0 {
		return errors.New("scheduling.defaultStepMinutes must be positive")
	}
	if cfg.MinLeadMinutes < 0 {
		return errors.New("scheduling.minLeadMinutes cannot be negative")
	}
	if cfg.HorizonDays <= 0 {
		return errors.New("scheduling.horizonDays must be positive")
	}
	return nil
}
