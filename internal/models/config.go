package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Bank     BankConfig
	Server   ServerConfig
}

// DatabaseConfig holds operation journal connection settings
type DatabaseConfig struct {
	Dsn             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// BankConfig holds the limits of the ledger, cache and scheduler
type BankConfig struct {
	MaxAccounts   int
	CacheCapacity int
	Quantum       int
	Bursts        BurstTimes
	LockTimeout   time.Duration
	ScheduleScope ScheduleScope
	PasswordCost  int
	SettingsFile  string
}

// BurstTimes is the simulated CPU cost of each operation kind
type BurstTimes struct {
	Deposit  int `yaml:"deposit"`
	Withdraw int `yaml:"withdraw"`
	Balance  int `yaml:"balance"`
}

// For returns the burst time of an operation kind, or 0 for an unknown kind.
func (b BurstTimes) For(kind OperationKind) int {
	switch kind {
	case OperationDeposit:
		return b.Deposit
	case OperationWithdraw:
		return b.Withdraw
	case OperationBalance:
		return b.Balance
	}
	return 0
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// ScheduleScope selects which transactions a scheduling run covers.
type ScheduleScope string

const (
	// ScheduleScopeHistory re-simulates every transaction submitted so far.
	ScheduleScopeHistory ScheduleScope = "history"
	// ScheduleScopeLatest simulates only transactions submitted since the previous run.
	ScheduleScopeLatest ScheduleScope = "latest"
)
