package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Fatalf("default port = %d, want 8080", cfg.HTTP.Port)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Size != 128 {
		t.Fatalf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("Addr = %q, want :8080", cfg.Addr())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "negative port", key: "CONSOLE_HTTP_PORT", value: "-1"},
		{name: "zero cache size", key: "CONSOLE_CACHE_SIZE", value: "0"},
		{name: "amqp enabled without url", key: "CONSOLE_AMQP_ENABLED", value: "true"},
		{name: "broken business hours", key: "CONSOLE_AGENDA_DAY_START", value: "morning"},
		{name: "inverted business hours", key: "CONSOLE_AGENDA_DAY_END", value: "08:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load accepted %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestSlotCatalogueFromBusinessHours(t *testing.T) {
	t.Setenv("CONSOLE_AGENDA_DAY_START", "09:00")
	t.Setenv("CONSOLE_AGENDA_DAY_END", "11:00")
	t.Setenv("CONSOLE_AGENDA_SLOT_MINUTES", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	catalogue, err := cfg.SlotCatalogue()
	if err != nil {
		t.Fatalf("SlotCatalogue returned error: %v", err)
	}
	want := []string{"09:00", "09:30", "10:00", "10:30"}
	if !reflect.DeepEqual(catalogue, want) {
		t.Fatalf("SlotCatalogue = %v, want %v", catalogue, want)
	}
}
