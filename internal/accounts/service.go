package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paydown-dev/paydown/internal/id"
	"github.com/paydown-dev/paydown/internal/model"
)

// Service provides in-memory lookup over the household's accounts.
type Service struct {
	accounts []model.Account
	byID     map[string]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byID := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return &Service{accounts: accounts, byID: byID}
}

// Load reads accounts/accounts.csv from a ledger root and returns a Service.
// A missing file yields an empty Service.
func Load(repoRoot string) (*Service, error) {
	f, err := os.Open(path(repoRoot))
	if os.IsNotExist(err) {
		return NewService(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Active returns accounts flagged active.
func (s *Service) Active() []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Active {
			result = append(result, a)
		}
	}
	return result
}

// Get returns an account by ID.
func (s *Service) Get(id string) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Kind returns the kind of an account, or "" if it does not exist.
func (s *Service) Kind(id string) model.Kind {
	return s.byID[id].Kind
}

// Find resolves ref as an exact ID, a unique ID prefix of at least four
// characters, or a case-insensitive account name.
func (s *Service) Find(ref string) (model.Account, error) {
	ref = strings.TrimSpace(ref)
	if a, ok := s.byID[ref]; ok {
		return a, nil
	}

	var matches []model.Account
	for _, a := range s.accounts {
		byPrefix := len(ref) >= 4 && strings.HasPrefix(a.ID, ref)
		byName := strings.EqualFold(a.Name, ref) || strings.EqualFold(a.DisplayName(), ref)
		if byPrefix || byName {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return model.Account{}, fmt.Errorf("no account matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return model.Account{}, fmt.Errorf("%q matches %d accounts, use the account ID", ref, len(matches))
	}
}

// ByKind returns all accounts of the given kind.
func (s *Service) ByKind(kind model.Kind) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Kind == kind {
			result = append(result, a)
		}
	}
	return result
}

// Add validates acct, assigns an ID when it has none, stamps it and appends it.
func (s *Service) Add(acct model.Account, now time.Time) (model.Account, error) {
	if acct.ID == "" {
		acct.ID = id.NewAccountID()
	}
	if s.Exists(acct.ID) {
		return model.Account{}, fmt.Errorf("account %s already exists", acct.ID)
	}
	if err := Validate(acct); err != nil {
		return model.Account{}, fmt.Errorf("invalid account: %w", err)
	}
	acct.CreatedAt = now.UTC()
	acct.UpdatedAt = now.UTC()

	s.accounts = append(s.accounts, acct)
	s.byID[acct.ID] = acct
	return acct, nil
}

// SetActive flips an account's active flag.
func (s *Service) SetActive(id string, active bool, now time.Time) error {
	for i := range s.accounts {
		if s.accounts[i].ID != id {
			continue
		}
		s.accounts[i].Active = active
		s.accounts[i].UpdatedAt = now.UTC()
		s.byID[id] = s.accounts[i]
		return nil
	}
	return fmt.Errorf("unknown account %s", id)
}

// Save writes the accounts to accounts/accounts.csv.
func (s *Service) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path(repoRoot))
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}

func path(repoRoot string) string {
	return filepath.Join(repoRoot, "accounts", "accounts.csv")
}
