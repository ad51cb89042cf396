// Package database drops environment schemas on the shared MySQL server.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"github.com/mrz1836/sitebox/internal/constants"
	"github.com/mrz1836/sitebox/internal/ctxutil"
	sberrors "github.com/mrz1836/sitebox/internal/errors"
)

// driverName is the database/sql driver registered by go-sql-driver/mysql.
const driverName = "mysql"

// Options holds the connection settings of the shared server.
type Options struct {
	Host     string
	Port     int
	User     string
	Password string
}

// DSN builds a go-sql-driver/mysql connection string for opts.
func DSN(opts Options) string {
	cfg := mysql.NewConfig()
	cfg.User = opts.User
	cfg.Passwd = opts.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	cfg.Timeout = constants.DatabaseConnectTimeout
	return cfg.FormatDSN()
}

// QuoteIdentifier wraps name in backticks, doubling embedded backticks.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// Opener returns a connection pool. Tests substitute a sqlmock pool.
type Opener func() (*sql.DB, error)

// Dropper removes schemas. Each call opens and closes its own connection.
type Dropper struct {
	open   Opener
	addr   string
	logger zerolog.Logger
}

// NewDropper creates a Dropper connecting with opts.
func NewDropper(opts Options, logger zerolog.Logger) *Dropper {
	dsn := DSN(opts)
	return NewDropperWithOpener(func() (*sql.DB, error) {
		return sql.Open(driverName, dsn)
	}, net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)), logger)
}

// NewDropperWithOpener creates a Dropper using a custom opener. addr is only
// used for logging.
func NewDropperWithOpener(open Opener, addr string, logger zerolog.Logger) *Dropper {
	return &Dropper{
		open:   open,
		addr:   addr,
		logger: logger.With().Str("component", "database").Str("addr", addr).Logger(),
	}
}

// Ping opens a connection and checks that the server answers.
func (d *Dropper) Ping(ctx context.Context) (err error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	db, err := d.open()
	if err != nil {
		return fmt.Errorf("connect to %s: %w: %w", d.addr, sberrors.ErrDatabaseOperation, err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close connection to %s: %w: %w", d.addr, sberrors.ErrDatabaseOperation, closeErr)
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect to %s: %w: %w", d.addr, sberrors.ErrDatabaseOperation, err)
	}
	return nil
}

// DropDatabase issues DROP DATABASE IF EXISTS for name. Connection and query
// failures are returned wrapping ErrDatabaseOperation; nothing is retried.
func (d *Dropper) DropDatabase(ctx context.Context, name string) (err error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if name == "" {
		return sberrors.Wrap(sberrors.ErrEmptyValue, "database name")
	}

	d.logger.Info().Str("slug", name).Msg("Deleting Database")

	db, err := d.open()
	if err != nil {
		return fmt.Errorf("connect to %s: %w: %w", d.addr, sberrors.ErrDatabaseOperation, err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close connection to %s: %w: %w", d.addr, sberrors.ErrDatabaseOperation, closeErr)
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect to %s: %w: %w", d.addr, sberrors.ErrDatabaseOperation, err)
	}

	stmt := "DROP DATABASE IF EXISTS " + QuoteIdentifier(name)
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("drop database %s: %w: %w", name, sberrors.ErrDatabaseOperation, err)
	}

	d.logger.Debug().Str("slug", name).Msg("database dropped")
	return nil
}
