// Package identity runs the admins and users pages.
package identity

import (
	"context"
	"slices"
	"strings"

	appshared "github.com/erp/pos/internal/application/shared"
	"github.com/erp/pos/internal/domain/identity"
	"github.com/erp/pos/internal/domain/sequence"
	"github.com/erp/pos/internal/domain/shared"
)

var accountRoles = []identity.Role{identity.RoleAdmin, identity.RoleUser}

var accountLister = appshared.Lister[AccountResponse]{
	Text: func(a AccountResponse) []string { return []string{a.Name, a.Email, a.Phone} },
	Sorts: map[string]appshared.Compare[AccountResponse]{
		"name":      func(a, b AccountResponse) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
		"email":     func(a, b AccountResponse) int { return strings.Compare(a.Email, b.Email) },
		"createdAt": func(a, b AccountResponse) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
	DefaultSort: "createdAt",
}

// AccountService manages admin and user accounts. Each role lives under its
// own record store key.
type AccountService struct {
	store    shared.RecordStore[identity.Account]
	notifier shared.Notifier
	opts     appshared.Options
}

// NewAccountService creates a new AccountService
func NewAccountService(store shared.RecordStore[identity.Account], notifier shared.Notifier, opts ...appshared.Option) *AccountService {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &AccountService{store: store, notifier: notifier, opts: appshared.BuildOptions(opts...)}
}

// List returns a page of accounts of role
func (s *AccountService) List(ctx context.Context, role identity.Role, q appshared.ListQuery) (shared.Paginated[AccountResponse], error) {
	if !role.IsValid() {
		return shared.Paginated[AccountResponse]{}, invalidRole()
	}
	accounts := s.store.Load(ctx, role.StoreKey())
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return accountLister.List(out, q), nil
}

// GetByID returns one account of role
func (s *AccountService) GetByID(ctx context.Context, role identity.Role, id string) (*AccountResponse, error) {
	if !role.IsValid() {
		return nil, invalidRole()
	}
	accounts := s.store.Load(ctx, role.StoreKey())
	i, err := findAccount(accounts, id)
	if err != nil {
		return nil, err
	}
	resp := ToAccountResponse(&accounts[i])
	return &resp, nil
}

// Create adds an account. Emails are unique across both roles.
func (s *AccountService) Create(ctx context.Context, role identity.Role, req CreateAccountRequest) (*AccountResponse, error) {
	var created *AccountResponse
	err := sequence.DoAll(ctx, s.opts.Guard, accountKeys(), func(ctx context.Context) error {
		acct, err := identity.NewAccount(role, identity.AccountDetails{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		}, req.Password, s.opts.Now())
		if err != nil {
			return err
		}
		if err := s.checkUniqueEmail(ctx, acct); err != nil {
			return err
		}
		accounts, err := s.store.LoadStrict(ctx, role.StoreKey())
		if err != nil {
			return err
		}
		if err := s.store.Save(ctx, role.StoreKey(), append(accounts, *acct)); err != nil {
			return err
		}
		resp := ToAccountResponse(acct)
		created = &resp
		return nil
	})
	if err := appshared.Outcome(ctx, s.notifier, err, roleLabel(role)+" account created"); err != nil {
		return nil, err
	}
	return created, nil
}

// Update edits the profile of an account
func (s *AccountService) Update(ctx context.Context, role identity.Role, id string, req UpdateAccountRequest) (*AccountResponse, error) {
	return s.mutate(ctx, role, id, roleLabel(role)+" account updated", func(a *identity.Account) error {
		if err := a.Update(identity.AccountDetails{Name: req.Name, Email: req.Email, Phone: req.Phone}, s.opts.Now()); err != nil {
			return err
		}
		return s.checkUniqueEmail(ctx, a)
	})
}

// ChangePassword replaces the password of an account
func (s *AccountService) ChangePassword(ctx context.Context, role identity.Role, id string, req ChangePasswordRequest) error {
	_, err := s.mutate(ctx, role, id, "Password changed", func(a *identity.Account) error {
		return a.SetPassword(req.Password, s.opts.Now())
	})
	return err
}

// SetStatus activates or deactivates an account
func (s *AccountService) SetStatus(ctx context.Context, role identity.Role, id string, req SetStatusRequest) (*AccountResponse, error) {
	return s.mutate(ctx, role, id, roleLabel(role)+" account "+string(req.Status), func(a *identity.Account) error {
		return a.SetStatus(req.Status, s.opts.Now())
	})
}

// Delete removes an account
func (s *AccountService) Delete(ctx context.Context, role identity.Role, id string) error {
	err := func() error {
		if !role.IsValid() {
			return invalidRole()
		}
		return s.opts.Guard.Do(ctx, role.StoreKey(), func(ctx context.Context) error {
			accounts, err := s.store.LoadStrict(ctx, role.StoreKey())
			if err != nil {
				return err
			}
			i, err := findAccount(accounts, id)
			if err != nil {
				return err
			}
			return s.store.Save(ctx, role.StoreKey(), slices.Delete(accounts, i, i+1))
		})
	}()
	return appshared.Outcome(ctx, s.notifier, err, roleLabel(role)+" account deleted")
}

func (s *AccountService) mutate(ctx context.Context, role identity.Role, id, success string, fn func(*identity.Account) error) (*AccountResponse, error) {
	var out *AccountResponse
	err := func() error {
		if !role.IsValid() {
			return invalidRole()
		}
		return sequence.DoAll(ctx, s.opts.Guard, accountKeys(), func(ctx context.Context) error {
			accounts, err := s.store.LoadStrict(ctx, role.StoreKey())
			if err != nil {
				return err
			}
			i, err := findAccount(accounts, id)
			if err != nil {
				return err
			}
			if err := fn(&accounts[i]); err != nil {
				return err
			}
			if err := s.store.Save(ctx, role.StoreKey(), accounts); err != nil {
				return err
			}
			resp := ToAccountResponse(&accounts[i])
			out = &resp
			return nil
		})
	}()
	if err := appshared.Outcome(ctx, s.notifier, err, success); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AccountService) checkUniqueEmail(ctx context.Context, acct *identity.Account) error {
	for _, role := range accountRoles {
		accounts, err := s.store.LoadStrict(ctx, role.StoreKey())
		if err != nil {
			return err
		}
		for _, other := range accounts {
			if other.ID != acct.ID && other.Email == acct.Email {
				return shared.NewConflictError("DUPLICATE_EMAIL", "An account with email "+acct.Email+" already exists")
			}
		}
	}
	return nil
}

// accountKeys lists the keys of every role. Email uniqueness spans both, so
// writes that can change an email hold all of them.
func accountKeys() []string {
	keys := make([]string, len(accountRoles))
	for i, role := range accountRoles {
		keys[i] = role.StoreKey()
	}
	return keys
}

func findAccount(accounts []identity.Account, id string) (int, error) {
	for i := range accounts {
		if accounts[i].ID == id {
			return i, nil
		}
	}
	return -1, shared.NewNotFoundError("Account", id)
}

func invalidRole() error {
	return shared.NewValidationError("INVALID_ROLE", "Role must be admin or user")
}

func roleLabel(role identity.Role) string {
	if role == identity.RoleAdmin {
		return "Admin"
	}
	return "User"
}
