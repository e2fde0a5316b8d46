package config

import (
	"os"
	"testing"
)

// BenchmarkConfig_Validate benchmarks configuration validation.
func BenchmarkConfig_Validate(b *testing.B) {
	cfg := validBaseConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cfg.Validate()
	}
}

// BenchmarkConfig_LoadFromEnv benchmarks environment variable loading.
func BenchmarkConfig_LoadFromEnv(b *testing.B) {
	os.Setenv("FUNDING_CAP", "100")
	os.Setenv("REVALIDATION_THRESHOLD_PCT", "0.8")
	os.Setenv("EXECUTION_MODE", "simulate")
	defer func() {
		os.Unsetenv("FUNDING_CAP")
		os.Unsetenv("REVALIDATION_THRESHOLD_PCT")
		os.Unsetenv("EXECUTION_MODE")
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = LoadFromEnv()
	}
}
