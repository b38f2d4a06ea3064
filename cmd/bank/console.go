package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"banking-os-go/internal/common"
	"banking-os-go/internal/models"
	"banking-os-go/internal/session"
	"banking-os-go/internal/store"
)

// console drives one session from line-oriented input.
type console struct {
	in        *bufio.Scanner
	out       io.Writer
	session   *session.Session
	inspector cacheInspector
	showGantt bool
}

type cacheInspector interface {
	InspectCache() []int64
}

func newConsole(in io.Reader, out io.Writer, s *session.Session, inspector cacheInspector, showGantt bool) *console {
	return &console{
		in:        bufio.NewScanner(in),
		out:       out,
		session:   s,
		inspector: inspector,
		showGantt: showGantt,
	}
}

// run loops between the welcome and account menus until exit or end of input.
func (c *console) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var done bool
		var err error
		if c.session.State() == session.LoggedIn {
			done, err = c.accountMenu(ctx)
		} else {
			done, err = c.welcomeMenu(ctx)
		}
		if err != nil {
			return err
		}
		if done {
			fmt.Fprintln(c.out, "Exiting...")
			return c.session.Close()
		}
	}
}

func (c *console) welcomeMenu(ctx context.Context) (bool, error) {
	fmt.Fprintln(c.out, "\n===== Welcome to the Banking System =====")
	fmt.Fprintln(c.out, "1. Login")
	fmt.Fprintln(c.out, "2. Create New Account")
	fmt.Fprintln(c.out, "3. Exit")

	choice, ok := c.prompt("Enter your choice: ")
	if !ok {
		return true, nil
	}

	switch choice {
	case "1":
		if err := c.session.BeginLogin(); err != nil {
			return false, err
		}
		username, _ := c.prompt("Enter username: ")
		password, _ := c.prompt("Enter password: ")
		id, err := c.session.Login(ctx, username, password)
		if err != nil {
			c.report(err)
			return false, nil
		}
		fmt.Fprintf(c.out, "Login successful! Account ID: %d\n", id)
	case "2":
		username, _ := c.prompt("Enter username: ")
		password, _ := c.prompt("Enter password: ")
		balanceText, _ := c.prompt("Enter initial balance: ")
		balance, err := strconv.ParseInt(balanceText, 10, 64)
		if err != nil {
			fmt.Fprintln(c.out, "Invalid amount.")
			return false, nil
		}
		id, err := c.session.Register(ctx, username, password, balance)
		if err != nil {
			c.report(err)
			return false, nil
		}
		fmt.Fprintf(c.out, "Account created successfully! Account ID: %d\n", id)
	case "3":
		return true, nil
	default:
		fmt.Fprintln(c.out, "Invalid choice. Please try again.")
	}
	return false, nil
}

func (c *console) accountMenu(ctx context.Context) (bool, error) {
	fmt.Fprintln(c.out, "\n===== MENU =====")
	fmt.Fprintln(c.out, "1. Deposit")
	fmt.Fprintln(c.out, "2. Withdraw")
	fmt.Fprintln(c.out, "3. Check Balance")
	fmt.Fprintln(c.out, "4. Logout")
	fmt.Fprintln(c.out, "5. Exit")

	choice, ok := c.prompt("Enter your choice: ")
	if !ok {
		return true, nil
	}

	var result *models.OperationResult
	var err error
	switch choice {
	case "1":
		amount, valid := c.promptAmount("Enter amount to deposit: ")
		if !valid {
			return false, nil
		}
		result, err = c.session.Deposit(ctx, amount)
	case "2":
		amount, valid := c.promptAmount("Enter amount to withdraw: ")
		if !valid {
			return false, nil
		}
		result, err = c.session.Withdraw(ctx, amount)
	case "3":
		result, err = c.session.Balance(ctx)
	case "4":
		if err := c.session.Logout(); err != nil {
			return false, err
		}
		fmt.Fprintln(c.out, "Logged out.")
		return false, nil
	case "5":
		return true, nil
	default:
		fmt.Fprintln(c.out, "Invalid choice. Please try again.")
		return false, nil
	}

	if err != nil {
		c.report(err)
	}
	if result != nil {
		c.printResult(result)
	}
	return false, nil
}

func (c *console) printResult(result *models.OperationResult) {
	switch {
	case !result.Succeeded():
	case result.Kind == models.OperationBalance:
		fmt.Fprintf(c.out, "Balance: %d\n", result.Balance)
	default:
		fmt.Fprintf(c.out, "Transaction successful. New balance: %d\n", result.Balance)
	}

	if result.CacheEvent.Kind == models.CacheEvicted {
		fmt.Fprintf(c.out, "Evicting page %d from memory (LRU)\n", result.CacheEvent.EvictedId)
	}
	fmt.Fprintln(c.out, common.FormatCache(c.inspector.InspectCache()))
	if c.showGantt && result.Report != nil {
		fmt.Fprint(c.out, "\n"+common.FormatGantt(result.Report))
	}
}

func (c *console) report(err error) {
	switch {
	case errors.Is(err, store.ErrInvalidCredentials):
		fmt.Fprintln(c.out, "Invalid username or password.")
	case errors.Is(err, store.ErrInsufficientFunds):
		fmt.Fprintln(c.out, "Insufficient funds.")
	case errors.Is(err, store.ErrInvalidAmount):
		fmt.Fprintln(c.out, "Invalid amount.")
	case errors.Is(err, store.ErrCapacityExceeded):
		fmt.Fprintln(c.out, "Maximum account limit reached.")
	case errors.Is(err, store.ErrDuplicateUsername):
		fmt.Fprintln(c.out, "Username already taken.")
	default:
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
}

func (c *console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *console) promptAmount(label string) (int64, bool) {
	text, _ := c.prompt(label)
	amount, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		fmt.Fprintln(c.out, "Invalid amount.")
		return 0, false
	}
	return amount, true
}
