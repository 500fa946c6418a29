// Package auth checks credentials and creates accounts. Session handling lives in handlers.
package auth

import (
	"context"
	"strings"

	"blog-server/db"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUnknownEmail   = errors.New("no user with that email")
	ErrBadPassword    = errors.New("incorrect password")
)

// HashCost is the bcrypt cost used for new passwords. Tests lower it.
var HashCost = bcrypt.DefaultCost

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", errors.Wrap(err, "error hashing password")
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

const maxRegisterAttempts = 3

// Register creates a user. The first account ever created becomes the administrator.
func Register(ctx context.Context, email, password, name string) (*db.User, error) {
	email = NormalizeEmail(email)

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	// the user count and the insert must not interleave with another
	// registration, or two first accounts could both become admin
	var user *db.User
	for attempt := 1; ; attempt++ {
		err = db.WithTxOpts(ctx, db.SerializableTxOpts(), "register user", func(tx *sqlx.Tx) error {
			numUsers, err := db.NumUsers(ctx, tx)
			if err != nil {
				return err
			}

			role := db.RoleUser
			if numUsers == 0 {
				role = db.RoleAdmin
			}

			user, err = db.CreateUser(ctx, tx, email, hash, name, role)
			return err
		})

		if err == nil || !db.IsSerializationErr(err) || attempt == maxRegisterAttempts {
			break
		}
		zap.S().Warnf("Retrying registration for %s after serialization failure (attempt %d)", email, attempt)
	}

	if err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			return nil, errors.Wrapf(ErrDuplicateEmail, "%s", email)
		}
		return nil, err
	}

	return user, nil
}

func Login(ctx context.Context, email, password string) (*db.User, error) {
	email = NormalizeEmail(email)

	user, err := db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, errors.Wrapf(ErrUnknownEmail, "%s", email)
	}

	if !CheckPassword(user.Password, password) {
		return nil, ErrBadPassword
	}

	return user, nil
}
