package db

import (
	"embed"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

var Conn *sqlx.DB

// Driver is the database/sql driver name Conn was opened with.
var Driver string

const LockTimeout = 4000
const IdleInTransactionSessionTimeout = 90000
const StatementTimeout = 30000

func init() {
	// modernc registers as "sqlite", which sqlx doesn't know about
	sqlx.BindDriver(DriverSqlite, sqlx.QUESTION)
}

func driverFor(dbUrl string) (driver, dsn string, err error) {
	switch {
	case strings.HasPrefix(dbUrl, "postgres://"), strings.HasPrefix(dbUrl, "postgresql://"):
		dsn = dbUrl
		if strings.Contains(dsn, "?") {
			dsn += "&"
		} else {
			dsn += "?"
		}
		dsn += fmt.Sprintf("statement_timeout=%d&lock_timeout=%d&timezone=UTC&idle_in_transaction_session_timeout=%d", StatementTimeout, LockTimeout, IdleInTransactionSessionTimeout)
		return DriverPostgres, dsn, nil

	case strings.HasPrefix(dbUrl, "sqlite://"), strings.HasPrefix(dbUrl, "sqlite:"):
		dsn = strings.TrimPrefix(strings.TrimPrefix(dbUrl, "sqlite://"), "sqlite:")
		if dsn == "" {
			return "", "", errors.New("sqlite url has no path")
		}
		if strings.Contains(dsn, "?") {
			dsn += "&"
		} else {
			dsn += "?"
		}
		dsn += "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		return DriverSqlite, dsn, nil
	}

	return "", "", errors.Errorf("unsupported database url: %s", redact(dbUrl))
}

func redact(dbUrl string) string {
	u, err := url.Parse(dbUrl)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}

func Connect(dbUrl string) error {
	driver, dsn, err := driverFor(dbUrl)
	if err != nil {
		return err
	}

	conn, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return errors.Wrap(err, "error connecting to database")
	}

	Conn = conn
	Driver = driver

	zap.S().Infof("connected to %s database", driver)

	if driver == DriverSqlite {
		// writes are serialized by sqlite anyway, and a single connection keeps
		// in-memory databases alive and shared
		Conn.SetMaxOpenConns(1)
		return nil
	}

	if os.Getenv("GOENV") == "production" {
		Conn.SetMaxOpenConns(50)
		Conn.SetMaxIdleConns(20)
	} else {
		Conn.SetMaxOpenConns(10)
		Conn.SetMaxIdleConns(5)
	}

	// Verify settings
	type setting struct {
		Name    string  `db:"name"`
		Setting string  `db:"setting"`
		Unit    *string `db:"unit"`
		Context string  `db:"context"`
	}

	var settings []setting
	err = Conn.Select(&settings, `
		SELECT name, setting, unit, context
		FROM pg_settings
		WHERE name IN ('statement_timeout', 'lock_timeout', 'TimeZone', 'idle_in_transaction_session_timeout')
`)
	if err != nil {
		return errors.Wrap(err, "error checking settings")
	}

	s := ""
	for _, setting := range settings {
		unitStr := ""
		if setting.Unit != nil {
			unitStr = " " + *setting.Unit
		}
		s += fmt.Sprintf("- %s = %s%s (context: %s)\n", setting.Name, setting.Setting, unitStr, setting.Context)
	}
	zap.S().Infof("database settings:\n%s", s)

	return nil
}

func Close() error {
	if Conn == nil {
		return nil
	}
	err := Conn.Close()
	Conn = nil
	return err
}

func MigrationsUp() error {
	if Conn == nil {
		return errors.New("db not initialized")
	}

	var (
		driver database.Driver
		err    error
	)

	switch Driver {
	case DriverPostgres:
		driver, err = postgres.WithInstance(Conn.DB, &postgres.Config{})
	case DriverSqlite:
		driver, err = sqlite.WithInstance(Conn.DB, &sqlite.Config{})
	default:
		return errors.Errorf("no migrations for driver %q", Driver)
	}
	if err != nil {
		return errors.Wrapf(err, "error creating %s migration driver", Driver)
	}

	dir, err := fs.Sub(migrationsFS, "migrations/"+Driver)
	if err != nil {
		return errors.Wrap(err, "error opening migrations")
	}

	source, err := iofs.New(dir, ".")
	if err != nil {
		return errors.Wrap(err, "error creating migration source")
	}

	// m.Close() would close Conn along with the driver, so it's never called
	m, err := migrate.NewWithInstance("iofs", source, Driver, driver)
	if err != nil {
		return errors.Wrap(err, "error creating migration instance")
	}

	err = m.Up()

	if err != nil {
		if err == migrate.ErrNoChange {
			zap.S().Info("migration state is up to date")
			return nil
		}
		return errors.Wrap(err, "error running migrations")
	}

	zap.S().Info("ran migrations successfully")

	return nil
}
