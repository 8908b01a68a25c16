package database

import (
	"fmt"
	"os"
	"strconv"

	"atlas-trips/retry"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Migrator applies schema migrations against the connection
type Migrator func(db *gorm.DB) error

// DSNBuilder assembles a postgres connection string
type DSNBuilder struct {
	user         string
	password     string
	host         string
	port         int
	databaseName string
}

// NewDSNBuilder creates an empty DSN builder
func NewDSNBuilder() *DSNBuilder {
	return &DSNBuilder{}
}

// SetUser sets the database user
func (b *DSNBuilder) SetUser(user string) *DSNBuilder {
	b.user = user
	return b
}

// SetPassword sets the database password
func (b *DSNBuilder) SetPassword(password string) *DSNBuilder {
	b.password = password
	return b
}

// SetHost sets the database host
func (b *DSNBuilder) SetHost(host string) *DSNBuilder {
	b.host = host
	return b
}

// SetPort sets the database port
func (b *DSNBuilder) SetPort(port int) *DSNBuilder {
	b.port = port
	return b
}

// SetDatabaseName sets the database name
func (b *DSNBuilder) SetDatabaseName(databaseName string) *DSNBuilder {
	b.databaseName = databaseName
	return b
}

// Build produces the postgres DSN
func (b *DSNBuilder) Build() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		b.host, b.user, b.password, b.databaseName, b.port)
}

// Configuration holds connection settings
type Configuration struct {
	dsn        string
	migrations []Migrator
}

// Configurator mutates the connection configuration
type Configurator func(c *Configuration)

// SetMigrations adds migrations to run after the connection is established
func SetMigrations(migrations ...Migrator) Configurator {
	return func(c *Configuration) {
		c.migrations = append(c.migrations, migrations...)
	}
}

// Connect opens the database connection from environment configuration, runs
// the configured migrations, and fails hard when either step cannot complete.
func Connect(l logrus.FieldLogger, configurators ...Configurator) *gorm.DB {
	port, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		l.WithError(err).Fatal("Unable to parse DB_PORT.")
	}

	c := &Configuration{
		dsn: NewDSNBuilder().
			SetUser(os.Getenv("DB_USER")).
			SetPassword(os.Getenv("DB_PASSWORD")).
			SetHost(os.Getenv("DB_HOST")).
			SetPort(port).
			SetDatabaseName(os.Getenv("DB_NAME")).
			Build(),
		migrations: make([]Migrator, 0),
	}
	for _, configurator := range configurators {
		configurator(c)
	}

	var db *gorm.DB
	err = retry.ExecuteWithRetry(retry.DefaultRetryConfig().WithLogger(l).WithMaxRetries(5), func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(c.dsn), &gorm.Config{})
		return openErr
	})
	if err != nil {
		l.WithError(err).Fatal("Unable to connect to database.")
	}

	for _, m := range c.migrations {
		if err = m(db); err != nil {
			l.WithError(err).Fatal("Unable to migrate database.")
		}
	}

	return db
}
