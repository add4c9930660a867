package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// NumberingConfig controls how human-facing invoice numbers are rendered.
type NumberingConfig struct {
	InvoiceNumberTemplate string `mapstructure:"invoiceNumberTemplate"`
}

func DefaultNumberingConfig() NumberingConfig {
	return NumberingConfig{
		InvoiceNumberTemplate: "INV-{YYYY}{MM}-{SEQ6}",
	}
}

// NumberingHolder exposes the current numbering config and hot-reloads it
// when the backing file changes.
type NumberingHolder struct {
	current atomic.Value // holds NumberingConfig
}

func NewNumberingHolder() (*NumberingHolder, error) {
	v := viper.New()

	v.SetConfigName("numbering")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/cotiza")
	v.AddConfigPath(".")

	v.SetEnvPrefix("COTIZA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultNumberingConfig()
		v.SetDefault("numbering.invoiceNumberTemplate", defaults.InvoiceNumberTemplate)
	}

	var cfg NumberingConfig
	if err := v.UnmarshalKey("numbering", &cfg); err != nil {
		return nil, err
	}
	if err := validateNumberingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &NumberingHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated NumberingConfig
		if err := v.UnmarshalKey("numbering", &updated); err != nil {
			log.Printf("[numbering-config] reload failed: %v", err)
			return
		}
		if err := validateNumberingConfig(updated); err != nil {
			log.Printf("[numbering-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[numbering-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *NumberingHolder) Get() NumberingConfig {
	return h.current.Load().(NumberingConfig)
}

func validateNumberingConfig(cfg NumberingConfig) error {
	if strings.TrimSpace(cfg.InvoiceNumberTemplate) == "" {
		return errors.New("numbering.invoiceNumberTemplate cannot be empty")
	}
	return nil
}
