package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"banking-os-go/internal/models"
	"banking-os-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Bank.MaxAccounts)
	assert.Equal(t, 5, cfg.Bank.CacheCapacity)
	assert.Equal(t, 2, cfg.Bank.Quantum)
	assert.Equal(t, models.BurstTimes{Deposit: 5, Withdraw: 7, Balance: 3}, cfg.Bank.Bursts)
	assert.Equal(t, models.ScheduleScopeHistory, cfg.Bank.ScheduleScope)
	assert.Equal(t, ":memory:", cfg.Database.Dsn)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BANK_MAX_ACCOUNTS", "10")
	t.Setenv("CACHE_CAPACITY", "3")
	t.Setenv("RR_QUANTUM", "4")
	t.Setenv("BURST_WITHDRAW", "9")
	t.Setenv("SCHEDULE_SCOPE", "latest")
	t.Setenv("LOCK_TIMEOUT", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Bank.MaxAccounts)
	assert.Equal(t, 3, cfg.Bank.CacheCapacity)
	assert.Equal(t, 4, cfg.Bank.Quantum)
	assert.Equal(t, 9, cfg.Bank.Bursts.Withdraw)
	assert.Equal(t, models.ScheduleScopeLatest, cfg.Bank.ScheduleScope)
	assert.Equal(t, 250*time.Millisecond, cfg.Bank.LockTimeout)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero quantum", "RR_QUANTUM", "0"},
		{"zero cache", "CACHE_CAPACITY", "0"},
		{"zero accounts", "BANK_MAX_ACCOUNTS", "0"},
		{"zero burst", "BURST_BALANCE", "0"},
		{"unknown scope", "SCHEDULE_SCOPE", "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.ErrorIs(t, err, store.ErrInvalidConfiguration)
		})
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("LOCK_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestSettingsFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	content := `
bank:
  cache_capacity: 8
  quantum: 3
  schedule_scope: latest
  lock_timeout: 2s
  bursts:
    deposit: 4
server:
  addr: ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("BANK_SETTINGS_FILE", path)
	t.Setenv("RR_QUANTUM", "6")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Bank.CacheCapacity)
	assert.Equal(t, 3, cfg.Bank.Quantum, "settings file wins over the environment")
	assert.Equal(t, models.ScheduleScopeLatest, cfg.Bank.ScheduleScope)
	assert.Equal(t, 2*time.Second, cfg.Bank.LockTimeout)
	assert.Equal(t, 4, cfg.Bank.Bursts.Deposit)
	assert.Equal(t, 7, cfg.Bank.Bursts.Withdraw)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 100, cfg.Bank.MaxAccounts)
}

func TestParseSettingsRejectsUnknownKeys(t *testing.T) {
	_, err := ParseSettings([]byte("bank:\n  quantums: 3\n"))
	assert.Error(t, err)
}

func TestSettingsFileMissing(t *testing.T) {
	t.Setenv("BANK_SETTINGS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)
}
