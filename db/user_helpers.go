package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

func GetUser(ctx context.Context, userId int64) (*User, error) {
	var user User
	err := Conn.GetContext(ctx, &user, Conn.Rebind("SELECT * FROM users WHERE id = ?"), userId)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, errors.Wrap(err, "error getting user")
	}

	return &user, nil
}

func GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := Conn.GetContext(ctx, &user, Conn.Rebind("SELECT * FROM users WHERE email = ?"), email)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, errors.Wrap(err, "error getting user")
	}

	return &user, nil
}

func NumUsers(ctx context.Context, tx *sqlx.Tx) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM users")

	if err != nil {
		return 0, errors.Wrap(err, "error counting users")
	}

	return count, nil
}

func CreateUser(ctx context.Context, tx *sqlx.Tx, email, passwordHash, name, role string) (*User, error) {
	user := User{
		Email:    email,
		Password: passwordHash,
		Name:     name,
		Role:     role,
	}

	query := tx.Rebind("INSERT INTO users (email, password, name, role) VALUES (?, ?, ?, ?) RETURNING id")
	err := tx.QueryRowxContext(ctx, query, user.Email, user.Password, user.Name, user.Role).Scan(&user.Id)

	if err != nil {
		if IsNonUniqueErr(err) {
			return nil, errors.Wrapf(ErrEmailTaken, "%s", email)
		}
		return nil, errors.Wrap(err, "error creating user")
	}

	return &user, nil
}

func SetUserRole(ctx context.Context, email, role string) error {
	res, err := Conn.ExecContext(ctx, Conn.Rebind("UPDATE users SET role = ? WHERE email = ?"), role, email)
	if err != nil {
		return errors.Wrap(err, "error updating user role")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "error updating user role")
	}
	if n == 0 {
		return errors.Wrapf(ErrUserNotFound, "%s", email)
	}

	return nil
}
