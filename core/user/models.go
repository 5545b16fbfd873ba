package user

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/kelasi/core"
)

// Roles
const (
	RoleStudent    = "student"
	RoleSupervisor = "supervisor"
)

var (
	AllRoles = []string{RoleStudent, RoleSupervisor}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Supervisor", Value: RoleSupervisor},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar,omitempty"`
	Class     string `json:"class,omitempty"` // students only
	Phone     string `json:"phone,omitempty"` // reserved for SMS notifications
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

func (u *User) IsSupervisor() bool {
	return u.Role == RoleSupervisor
}

// Credentials contains information needed to log a User in.
//
// NB: the password is never checked against a stored hash; any non-empty
// value passes as long as a user with this email and role exists. This is a
// demo stub, not real authentication.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,userrole"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	c.Role = core.CleanString(c.Role, true /* lower */)
	return validate.Struct(c)
}

type QueryFilter struct {
	Search string `query:"search"`
	Role   string `query:"role"`
	Class  string `query:"class"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.Class == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = core.CleanString(qf.Role, true /* lower */)
	qf.Class = core.CleanString(qf.Class)
}
