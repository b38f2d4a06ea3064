package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"banking-os-go/internal/models"

	"go.uber.org/zap"
)

var ErrInvalidTransition = errors.New("invalid session transition")

type State int

const (
	LoggedOut State = iota
	Authenticating
	LoggedIn
	Closed
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged_out"
	case Authenticating:
		return "authenticating"
	case LoggedIn:
		return "logged_in"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Bank is the subset of the dispatcher a session drives.
type Bank interface {
	OpenAccount(ctx context.Context, username, password string, balance int64) (int64, error)
	Authenticate(ctx context.Context, username, password string) (int64, error)
	Deposit(ctx context.Context, id, amount int64) (*models.OperationResult, error)
	Withdraw(ctx context.Context, id, amount int64) (*models.OperationResult, error)
	CheckBalance(ctx context.Context, id int64) (*models.OperationResult, error)
}

// Session is one user's walk through the bank: log in or register, operate
// on the authenticated account, log out, and finally close.
type Session struct {
	mu        sync.Mutex
	bank      Bank
	state     State
	accountId int64
}

func New(bank Bank) *Session {
	return &Session{bank: bank, state: LoggedOut}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AccountId returns the authenticated account, or 0 when logged out.
func (s *Session) AccountId() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountId
}

func (s *Session) BeginLogin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(LoggedOut, "begin login"); err != nil {
		return err
	}
	s.state = Authenticating
	return nil
}

// Login completes an authentication started by BeginLogin. A failed attempt
// returns the session to LoggedOut.
func (s *Session) Login(ctx context.Context, username, password string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(Authenticating, "login"); err != nil {
		return 0, err
	}

	id, err := s.bank.Authenticate(ctx, username, password)
	if err != nil {
		s.state = LoggedOut
		zap.L().Info("Login failed", zap.String("username", username), zap.Error(err))
		return 0, err
	}

	s.enter(id)
	return id, nil
}

// Register opens an account and logs straight into it.
func (s *Session) Register(ctx context.Context, username, password string, balance int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != LoggedOut && s.state != Authenticating {
		return 0, s.transitionError("register")
	}

	id, err := s.bank.OpenAccount(ctx, username, password, balance)
	if err != nil {
		s.state = LoggedOut
		return 0, err
	}

	s.enter(id)
	return id, nil
}

func (s *Session) Deposit(ctx context.Context, amount int64) (*models.OperationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(LoggedIn, "deposit"); err != nil {
		return nil, err
	}
	return s.bank.Deposit(ctx, s.accountId, amount)
}

func (s *Session) Withdraw(ctx context.Context, amount int64) (*models.OperationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(LoggedIn, "withdraw"); err != nil {
		return nil, err
	}
	return s.bank.Withdraw(ctx, s.accountId, amount)
}

func (s *Session) Balance(ctx context.Context) (*models.OperationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(LoggedIn, "check balance"); err != nil {
		return nil, err
	}
	return s.bank.CheckBalance(ctx, s.accountId)
}

func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(LoggedIn, "logout"); err != nil {
		return err
	}
	zap.L().Info("Session logged out", zap.Int64("account_id", s.accountId))
	s.state = LoggedOut
	s.accountId = 0
	return nil
}

// Close ends the session from any open state.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Closed {
		return s.transitionError("close")
	}
	s.state = Closed
	s.accountId = 0
	return nil
}

func (s *Session) enter(id int64) {
	s.state = LoggedIn
	s.accountId = id
	zap.L().Info("Session logged in", zap.Int64("account_id", id))
}

// expect must be called with s.mu held.
func (s *Session) expect(want State, action string) error {
	if s.state != want {
		return s.transitionError(action)
	}
	return nil
}

func (s *Session) transitionError(action string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, s.state)
}
