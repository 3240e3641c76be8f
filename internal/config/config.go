package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, webmention policy,
// outbound fetching, storage backends, workers and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request,
		// including a synchronous source fetch
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"30s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MaxFormBytes limits the size of a submission body
		MaxFormBytes int64 `env:"HTTP_MAX_FORM_BYTES" env-default:"65536" yaml:"maxFormBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// Webmention holds the receiving policy
	Webmention struct {
		// AllowedDomains is a pipe delimited list of target domains, e.g.
		// "example.com|*.example.org". An empty list accepts nothing.
		AllowedDomains string `env:"ALLOWED_DOMAINS" env-default:"" yaml:"allowedDomains"`
		// Async answers submissions with 202 and verifies them in a background worker
		Async bool `env:"WEBMENTION_ASYNC" env-default:"false" yaml:"async"`
	} `yaml:"webmention"`

	// Fetcher bounds outbound source fetches
	Fetcher struct {
		// Timeout covers a whole fetch including redirects
		Timeout time.Duration `env:"FETCHER_TIMEOUT" env-default:"10s" yaml:"timeout"`
		// MaxRedirects is the number of redirects followed
		MaxRedirects int `env:"FETCHER_MAX_REDIRECTS" env-default:"10" yaml:"maxRedirects"`
		// MaxBodyBytes caps how much of a source document is read
		MaxBodyBytes int64 `env:"FETCHER_MAX_BODY_BYTES" env-default:"5242880" yaml:"maxBodyBytes"`
		// UserAgent is sent with every fetch
		UserAgent string `env:"FETCHER_USER_AGENT" env-default:"webmention-receiver/1.0" yaml:"userAgent"`
		// RatePerHost limits fetches per second to one source host; zero disables
		RatePerHost float64 `env:"FETCHER_RATE_PER_HOST" env-default:"1" yaml:"ratePerHost"`
		// Burst is the number of fetches allowed at once per host
		Burst int `env:"FETCHER_BURST" env-default:"5" yaml:"burst"`
		// BlockPrivateNetworks refuses to connect to loopback and private addresses
		BlockPrivateNetworks bool `env:"FETCHER_BLOCK_PRIVATE_NETWORKS" env-default:"true" yaml:"blockPrivateNetworks"`
	} `yaml:"fetcher"`

	// Storage selects the mention log backend
	Storage struct {
		// Driver is one of memory, redis or postgres
		Driver string `env:"STORAGE_DRIVER" env-default:"memory" yaml:"driver"`
		// KeyPrefix namespaces keys in key-value backends
		KeyPrefix string `env:"STORAGE_KEY_PREFIX" env-default:"webmention:" yaml:"keyPrefix"`
	} `yaml:"storage"`

	// Redis contains the connection settings of the redis driver
	Redis struct {
		// URL is a redis:// connection URL
		URL string `env:"REDIS_URL" env-default:"redis://localhost:6379/0" yaml:"url"`
		// PoolSize is the maximum number of socket connections
		PoolSize int `env:"REDIS_POOL_SIZE" env-default:"10" yaml:"poolSize"`
		// MinIdleConns is the minimum number of idle connections
		MinIdleConns int `env:"REDIS_MIN_IDLE_CONNS" env-default:"2" yaml:"minIdleConns"`
		// DialTimeout is the timeout for establishing new connections
		DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" env-default:"5s" yaml:"dialTimeout"`
		// ReadTimeout is the timeout for socket reads
		ReadTimeout time.Duration `env:"REDIS_READ_TIMEOUT" env-default:"3s" yaml:"readTimeout"`
		// WriteTimeout is the timeout for socket writes
		WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" env-default:"3s" yaml:"writeTimeout"`
	} `yaml:"redis"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"webmention" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// Worker configures background verification
	Worker struct {
		// MaxWorkers bounds concurrent queued verifications
		MaxWorkers int `env:"WORKER_MAX_WORKERS" env-default:"20" yaml:"maxWorkers"`
	} `yaml:"worker"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

var (
	// ErrUnknownDriver is returned for a storage driver other than memory, redis or postgres.
	ErrUnknownDriver = errors.New("unknown storage driver")
	// ErrAsyncNeedsPostgres is returned when async verification is enabled
	// without the postgres driver, the only backend with a job queue.
	ErrAsyncNeedsPostgres = errors.New("async verification requires the postgres storage driver")
)

// Validate checks combinations the struct tags cannot express.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverRedis, DriverPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Storage.Driver)
	}

	if c.Webmention.Async && c.Storage.Driver != DriverPostgres {
		return ErrAsyncNeedsPostgres
	}

	return nil
}

// Load receives the path for yaml config file and returns a filled, validated
// Config struct. A missing file is not an error: defaults and environment
// variables apply.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
