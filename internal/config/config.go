/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"banking-os-go/internal/models"
	"banking-os-go/internal/store"
)

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	lockTimeout, err := getEnvDuration("LOCK_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	readTimeout, err := getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	writeTimeout, err := getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &models.Config{
		Database: models.DatabaseConfig{
			Dsn:             getEnvString("DATABASE_DSN", ":memory:"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Bank: models.BankConfig{
			MaxAccounts:   getEnvInt("BANK_MAX_ACCOUNTS", 100),
			CacheCapacity: getEnvInt("CACHE_CAPACITY", 5),
			Quantum:       getEnvInt("RR_QUANTUM", 2),
			Bursts: models.BurstTimes{
				Deposit:  getEnvInt("BURST_DEPOSIT", 5),
				Withdraw: getEnvInt("BURST_WITHDRAW", 7),
				Balance:  getEnvInt("BURST_BALANCE", 3),
			},
			LockTimeout:   lockTimeout,
			ScheduleScope: models.ScheduleScope(getEnvString("SCHEDULE_SCOPE", string(models.ScheduleScopeHistory))),
			PasswordCost:  getEnvInt("PASSWORD_COST", 0),
			SettingsFile:  getEnvString("BANK_SETTINGS_FILE", ""),
		},
		Server: models.ServerConfig{
			Addr:            getEnvString("SERVER_ADDR", ":8080"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
	}

	if cfg.Bank.SettingsFile != "" {
		if err := ApplySettingsFile(cfg, cfg.Bank.SettingsFile); err != nil {
			return nil, err
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects limits the ledger, cache and scheduler cannot run with.
func Validate(cfg *models.Config) error {
	bank := cfg.Bank
	switch {
	case bank.MaxAccounts < 1:
		return fmt.Errorf("%w: BANK_MAX_ACCOUNTS must be at least 1, got %d", store.ErrInvalidConfiguration, bank.MaxAccounts)
	case bank.CacheCapacity < 1:
		return fmt.Errorf("%w: CACHE_CAPACITY must be at least 1, got %d", store.ErrInvalidConfiguration, bank.CacheCapacity)
	case bank.Quantum < 1:
		return fmt.Errorf("%w: RR_QUANTUM must be at least 1, got %d", store.ErrInvalidConfiguration, bank.Quantum)
	case bank.Bursts.Deposit < 1 || bank.Bursts.Withdraw < 1 || bank.Bursts.Balance < 1:
		return fmt.Errorf("%w: burst times must be at least 1, got %+v", store.ErrInvalidConfiguration, bank.Bursts)
	case bank.LockTimeout < 0:
		return fmt.Errorf("%w: LOCK_TIMEOUT cannot be negative", store.ErrInvalidConfiguration)
	}

	switch bank.ScheduleScope {
	case models.ScheduleScopeHistory, models.ScheduleScopeLatest:
	default:
		return fmt.Errorf("%w: SCHEDULE_SCOPE must be %q or %q, got %q",
			store.ErrInvalidConfiguration, models.ScheduleScopeHistory, models.ScheduleScopeLatest, bank.ScheduleScope)
	}

	if cfg.Database.Dsn == "" {
		return fmt.Errorf("%w: DATABASE_DSN cannot be empty", store.ErrInvalidConfiguration)
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
