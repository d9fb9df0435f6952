// Package store reads heatmap configuration and kill events from the hlstats
// MySQL database.
//
// The store never writes. One Store wraps one connection which the batch
// reuses serially for every map; it is opened once at startup and closed once
// at shutdown by the caller that owns it.
package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hlstatsx/heatmaps/pkg/errors"
	"github.com/hlstatsx/heatmaps/pkg/model"
)

// DefaultTablePrefix is the prefix of every hlstats table.
const DefaultTablePrefix = "hlstats"

// tablePrefixRegex limits prefixes to plain identifiers since they are
// interpolated into SQL.
var tablePrefixRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Options are the connection parameters.
type Options struct {
	Host        string
	Port        int
	User        string
	Password    string
	Database    string
	TablePrefix string      // defaults to DefaultTablePrefix
	Logger      *log.Logger // receives slow query and error reports; SQL at debug level
}

// DSN builds the go-sql-driver DSN for o.
func (o Options) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = o.User
	cfg.Passwd = o.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
	cfg.DBName = o.Database
	cfg.ParseTime = true
	cfg.Loc = time.Local
	return cfg.FormatDSN()
}

// Store reads hlstats tables through a single gorm connection.
type Store struct {
	db     *gorm.DB
	prefix string
}

// Open connects to the database and verifies the connection. Any failure is
// a CONNECTION error.
func Open(ctx context.Context, opts Options) (*Store, error) {
	prefix, err := validatePrefix(opts.TablePrefix)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(gormmysql.Open(opts.DSN()), &gorm.Config{
		Logger:               newGormLogger(opts.Logger),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConnection, err, "connect to %s:%d", opts.Host, opts.Port)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConnection, err, "connect to %s:%d", opts.Host, opts.Port)
	}
	// The batch is sequential; one connection is all it ever uses.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(errors.ErrCodeConnection, err, "connect to %s:%d", opts.Host, opts.Port)
	}

	return &Store{db: db, prefix: prefix}, nil
}

// New wraps an existing gorm handle. The caller keeps ownership of the
// underlying connection.
func New(db *gorm.DB, tablePrefix string) (*Store, error) {
	prefix, err := validatePrefix(tablePrefix)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, prefix: prefix}, nil
}

// Close releases the connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// MapConfigs returns the heatmap configuration rows for game ordered by code,
// game and map. Failures are QUERY errors.
func (s *Store) MapConfigs(ctx context.Context, game string) ([]model.MapConfig, error) {
	var rows []model.MapConfig
	if err := s.mapConfigQuery(s.db.WithContext(ctx), game).Find(&rows).Error; err != nil {
		return nil, queryError(err, "load heatmap config for %s", game)
	}
	return rows, nil
}

// KillEvents returns the frag and teamkill rows recorded on mapName (bare or
// under custom/). Frags are limited to game, to rows with a killer position
// and to events at or after since; teamkills are matched on map only.
// Failures are QUERY errors.
func (s *Store) KillEvents(ctx context.Context, mapName, game string, since time.Time) ([]model.KillEvent, error) {
	var rows []model.KillEvent
	if err := s.killEventQuery(s.db.WithContext(ctx), mapName, game, since).Scan(&rows).Error; err != nil {
		return nil, queryError(err, "load kill events for %s", mapName)
	}
	return rows, nil
}

func (s *Store) table(name string) string {
	return s.prefix + "_" + name
}

// queryError wraps a failed query as QUERY, adding the server error number
// when the driver reports one.
func queryError(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if n, ok := mysqlErrorNumber(err); ok {
		msg = fmt.Sprintf("%s (mysql error %d)", msg, n)
	}
	return errors.Wrap(errors.ErrCodeQuery, err, "%s", msg)
}

func mysqlErrorNumber(err error) (uint16, bool) {
	var me *mysql.MySQLError
	if stderrors.As(err, &me) {
		return me.Number, true
	}
	return 0, false
}

func validatePrefix(prefix string) (string, error) {
	if prefix == "" {
		return DefaultTablePrefix, nil
	}
	if !tablePrefixRegex.MatchString(prefix) {
		return "", errors.New(errors.ErrCodeInvalidConfig, "invalid table prefix %q", prefix)
	}
	return prefix, nil
}

// newGormLogger routes gorm's reports through l. SQL statements are traced
// only when l is at debug level.
func newGormLogger(l *log.Logger) logger.Interface {
	if l == nil {
		return logger.Discard
	}
	level := logger.Warn
	if l.GetLevel() <= log.DebugLevel {
		level = logger.Info
	}
	return logger.New(l.WithPrefix("sql"), logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Describe returns a short description of the connection target for logs.
func (o Options) Describe() string {
	return fmt.Sprintf("%s@%s/%s", o.User, net.JoinHostPort(o.Host, strconv.Itoa(o.Port)), o.Database)
}
