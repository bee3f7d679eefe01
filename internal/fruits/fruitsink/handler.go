package fruitsink

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const TableName = "fruit_table"

var sqlOpen = sql.Open

type Options struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	SSLMode  string
}

type Handler struct {
	DB *sql.DB
}

// BuildDSN renders o as a postgres:// URL. Values are escaped but not
// validated; a bad host only shows up when connecting.
func BuildDSN(o Options) string {
	host := o.Host
	if o.Port != "" {
		host = net.JoinHostPort(o.Host, o.Port)
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   host,
		Path:   o.Database,
	}
	if o.Password != "" {
		u.User = url.UserPassword(o.User, o.Password)
	} else if o.User != "" {
		u.User = url.User(o.User)
	}

	q := u.Query()
	if o.SSLMode != "" {
		q.Set("sslmode", o.SSLMode)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// Open prepares a connection pool. Nothing is dialled until Ping or the
// first statement.
func Open(o Options) (*Handler, error) {
	db, err := sqlOpen("pgx", BuildDSN(o))
	if err != nil {
		return nil, fmt.Errorf("could not open postgres: %w", err)
	}
	return &Handler{DB: db}, nil
}

func (h *Handler) Ping(ctx context.Context) error {
	if err := h.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("could not reach postgres: %w", err)
	}
	return nil
}

func (h *Handler) Close() error {
	if h.DB == nil {
		return nil
	}
	return h.DB.Close()
}
