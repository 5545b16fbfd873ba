package user

import (
	"context"
	"errors"

	"github.com/trezcool/kelasi/core"
)

var (
	// errors
	ErrNotFound  = errors.New("user not found")
	ErrNoSession = errors.New("no active session")
)

type (
	Repository interface {
		CreateUser(usr User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id string) (User, error)
		// GetUserByEmail does a case-insensitive match on User.Email.
		GetUserByEmail(email string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of
		// User.FirstName, User.LastName or User.Email.
		FilterUsers(filter QueryFilter) ([]User, error)
	}

	// SessionStore persists the serialized current user between process runs:
	// written on login, cleared on logout, read once at startup.
	SessionStore interface {
		Save(ctx context.Context, usr User) error
		// Current returns ErrNoSession when no user record is stored.
		Current(ctx context.Context) (User, error)
		Clear(ctx context.Context) error
	}

	ServiceInterface interface {
		Authenticate(ctx context.Context, creds Credentials) (User, error)
		Logout(ctx context.Context) error
		Restore(ctx context.Context) (User, error)
		QueryAll() ([]User, error)
		GetByID(id string) (User, error)
		GetByEmail(email string) (User, error)
		Filter(filter QueryFilter) ([]User, error)
	}

	service struct {
		repo     Repository
		sessions SessionStore
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, sessions SessionStore) ServiceInterface {
	return &service{repo: repo, sessions: sessions}
}

// Authenticate looks a user up by case-insensitive email and exact role match,
// persists the matched user to the session store and returns it.
// The password itself is not verified (demo stub); it only needs to be non-empty,
// which Credentials.Validate enforces before this is called.
func (svc *service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	usr, err := svc.repo.GetUserByEmail(core.CleanString(creds.Email, true /* lower */))
	if err != nil {
		return User{}, err
	}
	if usr.Role != creds.Role {
		return User{}, ErrNotFound
	}
	if err = svc.sessions.Save(ctx, usr); err != nil {
		return User{}, err
	}
	return usr, nil
}

func (svc *service) Logout(ctx context.Context) error {
	return svc.sessions.Clear(ctx)
}

// Restore loads the previously persisted session user, if any.
// Credentials are not re-validated.
func (svc *service) Restore(ctx context.Context) (User, error) {
	return svc.sessions.Current(ctx)
}

func (svc *service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *service) Filter(filter QueryFilter) ([]User, error) {
	return svc.repo.FilterUsers(filter)
}
