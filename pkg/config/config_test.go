package config

import (
	"os"
	"testing"
	"time"
)

func TestConfig_FundingCapValidation(t *testing.T) {
	t.Run("zero_funding_cap_rejected", func(t *testing.T) {
		cfg := validBaseConfig()
		cfg.FundingCap = 0

		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error for zero funding cap, got nil")
		}
	})

	t.Run("positive_funding_cap_allowed", func(t *testing.T) {
		os.Setenv("FUNDING_CAP", "250")
		t.Cleanup(func() { os.Unsetenv("FUNDING_CAP") })

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.FundingCap != 250 {
			t.Errorf("expected FundingCap to be 250, got %f", cfg.FundingCap)
		}
	})
}

func TestConfig_FeeDiscountRange(t *testing.T) {
	t.Run("negative_discount_rejected", func(t *testing.T) {
		cfg := validBaseConfig()
		cfg.FeeDiscount = -0.1

		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error for negative fee discount, got nil")
		}
	})

	t.Run("discount_over_one_rejected", func(t *testing.T) {
		cfg := validBaseConfig()
		cfg.FeeDiscount = 1.5

		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error for fee discount > 1, got nil")
		}
	})

	t.Run("zero_discount_allowed", func(t *testing.T) {
		cfg := validBaseConfig()
		cfg.FeeDiscount = 0

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestConfig_ExecutionModeValidation(t *testing.T) {
	t.Run("unknown_mode_rejected", func(t *testing.T) {
		cfg := validBaseConfig()
		cfg.ExecutionMode = "bogus"

		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error for unknown execution mode, got nil")
		}
	})

	t.Run("live_mode_requires_venue_base_url", func(t *testing.T) {
		cfg := validBaseConfig()
		cfg.ExecutionMode = "live"
		cfg.VenueBaseURL = ""

		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error for live mode with empty venue base URL, got nil")
		}
	})

	t.Run("simulate_mode_default", func(t *testing.T) {
		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.ExecutionMode != "simulate" {
			t.Errorf("expected default ExecutionMode to be simulate, got %q", cfg.ExecutionMode)
		}
	})
}

func TestConfig_StorageModeValidation(t *testing.T) {
	for _, mode := range []string{"console", "postgres", "sqlite"} {
		mode := mode
		t.Run(mode+"_allowed", func(t *testing.T) {
			cfg := validBaseConfig()
			cfg.StorageMode = mode
			if err := cfg.Validate(); err != nil {
				t.Errorf("expected no error for mode %q, got %v", mode, err)
			}
		})
	}

	t.Run("unknown_mode_rejected", func(t *testing.T) {
		cfg := validBaseConfig()
		cfg.StorageMode = "redis"
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error for unknown storage mode, got nil")
		}
	})
}

func TestConfig_DeadlinesMustBePositive(t *testing.T) {
	t.Run("zero_cycle_deadline_rejected", func(t *testing.T) {
		cfg := validBaseConfig()
		cfg.CycleDeadline = 0
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error for zero cycle deadline, got nil")
		}
	})

	t.Run("default_probe_deadline_is_200ms", func(t *testing.T) {
		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.ProbeDeadline != 200*time.Millisecond {
			t.Errorf("expected default ProbeDeadline to be 200ms, got %s", cfg.ProbeDeadline)
		}
	})
}

func validBaseConfig() *Config {
	return &Config{
		HTTPPort:                 "8080",
		VenueBaseURL:             "https://api.kucoin.com",
		FundingCap:               100.0,
		RevalidationThresholdPct: 0.8,
		PerLegFeePct:             0.0008,
		FeeDiscount:              0.2,
		OrderbookDepth:           10,
		ProbeDeadline:            200 * time.Millisecond,
		CycleDeadline:            2 * time.Second,
		BreakerMaxFailures:       5,
		ExecutionMode:            "simulate",
		StorageMode:              "console",
	}
}
