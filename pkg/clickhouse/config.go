package clickhouse

import "time"

// Option configures Client.
type Option func(*Options)

// Options holds connection settings.
type Options struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	UseHTTP         bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	MaxExecTime     time.Duration
}

func defaultOptions() Options {
	return Options{
		Port:            9000,
		Database:        "default",
		User:            "default",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     10 * time.Second,
	}
}

func WithHost(host string) Option { return func(o *Options) { o.Host = host } }

func WithPort(port int) Option { return func(o *Options) { o.Port = port } }

func WithDatabase(db string) Option { return func(o *Options) { o.Database = db } }

// WithCredentials sets username and password.
func WithCredentials(user, password string) Option {
	return func(o *Options) {
		o.User = user
		o.Password = password
	}
}

// WithHTTP switches to the HTTP interface.
func WithHTTP(useHTTP bool) Option { return func(o *Options) { o.UseHTTP = useHTTP } }

// WithPool sets pool sizes.
func WithPool(maxOpen, maxIdle int) Option {
	return func(o *Options) {
		o.MaxOpenConns = maxOpen
		o.MaxIdleConns = maxIdle
	}
}

// WithTimeouts sets dial and read timeouts.
func WithTimeouts(dial, read time.Duration) Option {
	return func(o *Options) {
		o.DialTimeout = dial
		o.ReadTimeout = read
	}
}

// WithMaxExecutionTime sets the server-side max_execution_time per query.
func WithMaxExecutionTime(d time.Duration) Option {
	return func(o *Options) { o.MaxExecTime = d }
}
