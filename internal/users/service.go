// Package users manages back-office accounts.
package users

import (
	"context"
	"strings"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/enums"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/security"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/validation"
)

const minPasswordLength = 8

var emailValidator = validation.New()

// Provisioner creates and resets admin accounts from the command line.
type Provisioner struct {
	repo   *Repository
	hasher *security.Hasher
}

func NewProvisioner(repo *Repository, hasher *security.Hasher) *Provisioner {
	return &Provisioner{repo: repo, hasher: hasher}
}

// ProvisionInput describes the account to create.
type ProvisionInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// Create hashes the password and inserts the user. A blank password gets a
// generated one, which is returned.
func (p *Provisioner) Create(ctx context.Context, in ProvisionInput) (*UserDTO, string, error) {
	var fields pkgerrors.FieldErrors
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := emailValidator.Var(email, "required,email"); err != nil {
		fields.Add("email", "must be a valid email")
	}
	if strings.TrimSpace(in.Name) == "" {
		fields.Add("name", "is required")
	}
	rawRole := strings.ToLower(strings.TrimSpace(in.Role))
	if rawRole == "" {
		rawRole = string(enums.RoleAdmin)
	}
	role, err := enums.ParseRole(rawRole)
	if err != nil {
		fields.Add("role", "is not supported")
	}
	password := in.Password
	if password != "" && len(password) < minPasswordLength {
		fields.Add("password", "must be at least 8 characters")
	}
	if err := fields.Err(); err != nil {
		return nil, "", err
	}

	generated := ""
	if password == "" {
		password, err = security.GenerateTempPassword(16)
		if err != nil {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate password")
		}
		generated = password
	}
	hash, err := p.hasher.Hash(password)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user, err := p.repo.Create(ctx, CreateUserDTO{Email: email, PasswordHash: hash, Name: in.Name, Role: role})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, "", pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create user")
	}
	return FromModel(user), generated, nil
}

// ResetPassword sets a new password for the account with email.
func (p *Provisioner) ResetPassword(ctx context.Context, email, password string) error {
	if len(password) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	user, err := p.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get user")
	}
	hash, err := p.hasher.Hash(password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := p.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update password")
	}
	return nil
}
