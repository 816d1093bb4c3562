package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cfg.BeforeEndLead != time.Hour || cfg.OverdueGrace != 30*time.Minute {
		t.Errorf("reminder offsets = %v / %v", cfg.BeforeEndLead, cfg.OverdueGrace)
	}
	if cfg.StoreDriver != "mongo" || cfg.SchedulerQueue != "bookings" || cfg.AppPort != "8080" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestDurationsFromEnvironment(t *testing.T) {
	t.Setenv("OVERDUE_GRACE", "45m")
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cfg.OverdueGrace != 45*time.Minute {
		t.Fatalf("OverdueGrace = %v, want 45m", cfg.OverdueGrace)
	}
}
