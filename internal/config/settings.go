package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"banking-os-go/internal/models"

	"gopkg.in/yaml.v2"
)

// Settings is the optional YAML overlay for bank limits. Absent keys keep
// the value loaded from the environment.
type Settings struct {
	Bank struct {
		MaxAccounts   *int    `yaml:"max_accounts"`
		CacheCapacity *int    `yaml:"cache_capacity"`
		Quantum       *int    `yaml:"quantum"`
		ScheduleScope *string `yaml:"schedule_scope"`
		LockTimeout   *string `yaml:"lock_timeout"`
		Bursts        *struct {
			Deposit  *int `yaml:"deposit"`
			Withdraw *int `yaml:"withdraw"`
			Balance  *int `yaml:"balance"`
		} `yaml:"bursts"`
	} `yaml:"bank"`
	Server struct {
		Addr *string `yaml:"addr"`
	} `yaml:"server"`
}

func LoadSettings(settingsFile string) (*Settings, error) {
	var settingsPath string
	if filepath.IsAbs(settingsFile) {
		settingsPath = settingsFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		settingsPath = filepath.Join(wd, settingsFile)
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", settingsFile, err)
	}
	return ParseSettings(data)
}

func ParseSettings(data []byte) (*Settings, error) {
	var settings Settings
	if err := yaml.UnmarshalStrict(data, &settings); err != nil {
		return nil, fmt.Errorf("unable to parse settings: %w", err)
	}
	return &settings, nil
}

// Apply overlays every key present in the settings onto cfg.
func (s *Settings) Apply(cfg *models.Config) error {
	bank := &cfg.Bank
	setInt(&bank.MaxAccounts, s.Bank.MaxAccounts)
	setInt(&bank.CacheCapacity, s.Bank.CacheCapacity)
	setInt(&bank.Quantum, s.Bank.Quantum)
	if s.Bank.ScheduleScope != nil {
		bank.ScheduleScope = models.ScheduleScope(*s.Bank.ScheduleScope)
	}
	if s.Bank.LockTimeout != nil {
		timeout, err := time.ParseDuration(*s.Bank.LockTimeout)
		if err != nil {
			return fmt.Errorf("invalid lock_timeout %q: %w", *s.Bank.LockTimeout, err)
		}
		bank.LockTimeout = timeout
	}
	if b := s.Bank.Bursts; b != nil {
		setInt(&bank.Bursts.Deposit, b.Deposit)
		setInt(&bank.Bursts.Withdraw, b.Withdraw)
		setInt(&bank.Bursts.Balance, b.Balance)
	}
	if s.Server.Addr != nil {
		cfg.Server.Addr = *s.Server.Addr
	}
	return nil
}

// ApplySettingsFile loads settingsFile and overlays it onto cfg.
func ApplySettingsFile(cfg *models.Config, settingsFile string) error {
	settings, err := LoadSettings(settingsFile)
	if err != nil {
		return err
	}
	return settings.Apply(cfg)
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
