package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lucaapp/account-service/internal/model"
)

// AccountRepo persists account rows in the `accounts` table.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// Create inserts an account and returns its ID. The password field
// must already contain the stored secret (the repository never
// hashes). A duplicate email maps to ErrEmailExists.
func (r *AccountRepo) Create(ctx context.Context, a *model.Account) (uint64, error) {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO accounts (name, email, phone, date_of_birth, password) VALUES (?,?,?,?,?)",
		a.Name, a.Email, a.Phone, a.DateOfBirth, a.Password)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	a.ID = uint64(id)
	return a.ID, nil
}

// GetByEmail fetches an account by normalized email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var a model.Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,phone,date_of_birth,password,last_login FROM accounts WHERE email=? LIMIT 1",
		email).Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.DateOfBirth, &a.Password, &a.LastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (*model.Account, error) {
	var a model.Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,phone,date_of_birth,password,last_login FROM accounts WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.DateOfBirth, &a.Password, &a.LastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdatePassword overwrites the stored secret for an account. Used
// by the reset flow and by the legacy plaintext upgrade on login.
func (r *AccountRepo) UpdatePassword(ctx context.Context, id uint64, secret string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET password=? WHERE id=?", secret, id)
	return err
}

// UpdateProfile applies the provided name/phone changes. Empty
// strings leave the corresponding column untouched.
func (r *AccountRepo) UpdateProfile(ctx context.Context, id uint64, name, phone string) error {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if name != "" {
		sets = append(sets, "name=?")
		args = append(args, name)
	}
	if phone != "" {
		sets = append(sets, "phone=?")
		args = append(args, phone)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET "+strings.Join(sets, ",")+" WHERE id=?", args...)
	return err
}

// TouchLastLogin records the time of a successful login. Callers
// treat failure as non-fatal; the column is informational only.
func (r *AccountRepo) TouchLastLogin(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET last_login=NOW() WHERE id=?", id)
	return err
}

// Delete removes the account row. Sessions must be revoked by the
// caller first so no dangling bearer tokens remain valid.
func (r *AccountRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM accounts WHERE id=?", id)
	return err
}

// List returns all accounts ordered by id. Used by the admin
// listing endpoint.
func (r *AccountRepo) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,email,phone,date_of_birth,password,last_login FROM accounts ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.DateOfBirth, &a.Password, &a.LastLogin); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
