package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"banking-os-go/internal/cache"
	"banking-os-go/internal/dispatcher"
	"banking-os-go/internal/ledger"
	"banking-os-go/internal/models"
	"banking-os-go/internal/scheduler"
	"banking-os-go/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestConsole(t *testing.T, script string) (*console, *bytes.Buffer) {
	t.Helper()

	l, err := ledger.New(ledger.Options{MaxAccounts: 10, LockTimeout: time.Second, PasswordCost: bcrypt.MinCost})
	require.NoError(t, err)
	c, err := cache.New(5)
	require.NoError(t, err)
	s, err := scheduler.New(2, models.ScheduleScopeHistory)
	require.NoError(t, err)
	d, err := dispatcher.New(dispatcher.Options{
		Ledger:    l,
		Cache:     c,
		Scheduler: s,
		Bursts:    models.BurstTimes{Deposit: 5, Withdraw: 7, Balance: 3},
	})
	require.NoError(t, err)

	var out bytes.Buffer
	return newConsole(strings.NewReader(script), &out, session.New(d), d, true), &out
}

func TestConsoleFullSession(t *testing.T) {
	script := strings.Join([]string{
		"2", "alice", "secret", "100", // register, auto-login
		"1", "50", // deposit
		"2", "500", // withdraw too much
		"3", // balance
		"4", // logout
		"1", "alice", "secret", // login
		"5", // exit
	}, "\n") + "\n"

	c, out := newTestConsole(t, script)
	require.NoError(t, c.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Account created successfully! Account ID: 1")
	assert.Contains(t, text, "Transaction successful. New balance: 150")
	assert.Contains(t, text, "Insufficient funds.")
	assert.Contains(t, text, "Balance: 150")
	assert.Contains(t, text, "Logged out.")
	assert.Contains(t, text, "Login successful! Account ID: 1")
	assert.Contains(t, text, "Memory (Pages): 1")
	assert.Contains(t, text, "T1 [0-2] T1 [2-4]")
	assert.Contains(t, text, "Average Waiting Time: ")
	assert.Contains(t, text, "Exiting...")
	assert.Equal(t, session.Closed, c.session.State())
}

func TestConsoleRejectsBadInput(t *testing.T) {
	script := strings.Join([]string{
		"9", // unknown choice
		"1", "nobody", "secret", // failed login
		"2", "bob", "secret", "lots", // bad balance
		"3",
	}, "\n") + "\n"

	c, out := newTestConsole(t, script)
	require.NoError(t, c.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Invalid choice. Please try again.")
	assert.Contains(t, text, "Invalid username or password.")
	assert.Contains(t, text, "Invalid amount.")
	assert.Equal(t, session.Closed, c.session.State())
}

func TestConsoleEndOfInputCloses(t *testing.T) {
	c, out := newTestConsole(t, "")
	require.NoError(t, c.run(context.Background()))
	assert.Contains(t, out.String(), "Exiting...")
	assert.Equal(t, session.Closed, c.session.State())
}
