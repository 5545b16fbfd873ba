package inmemdb

import (
	"strings"

	"github.com/trezcool/kelasi/core"
	"github.com/trezcool/kelasi/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.users}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.rows))
	for _, u := range repo.db.rows {
		users = append(users, *u)
	}
	return users
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	row := usr
	repo.db.rows = append(repo.db.rows, &row)
	repo.db.idx[row.ID] = &row
	return row, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.idx[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	email = core.CleanString(email, true /* lower */)
	for _, usr := range repo.db.rows {
		if strings.ToLower(usr.Email) == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.IsEmpty() {
		return repo.query(), nil
	}

	search := strings.ToLower(filter.Search)
	matches := make([]user.User, 0, len(repo.db.rows))
	for _, usr := range repo.db.rows {
		if filter.Role != "" && usr.Role != filter.Role {
			continue
		}
		if filter.Class != "" && usr.Class != filter.Class {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(usr.FirstName), search) &&
			!strings.Contains(strings.ToLower(usr.LastName), search) &&
			!strings.Contains(strings.ToLower(usr.Email), search) {
			continue
		}
		matches = append(matches, *usr)
	}
	return matches, nil
}
