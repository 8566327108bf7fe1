package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	DeadlinePolicyReject = "reject"
	DeadlinePolicyWarn   = "warn"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	Limits   LimitsConfig
	Policy   PolicyConfig
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Worker   WorkerConfig
}

// LimitsConfig holds the capacity limits, read once at process start
// and applied uniformly.
type LimitsConfig struct {
	ProjectMax int `env:"PROJECT_MAX" env-default:"10"`
	TaskMax    int `env:"TASK_MAX" env-default:"50"`
}

type PolicyConfig struct {
	// CascadeDelete controls whether deleting a project deletes its
	// tasks or fails while active tasks remain.
	CascadeDelete bool `env:"CASCADE_DELETE" env-default:"true"`
	// OverdueReopen allows explicit user transitions out of the
	// overdue status; when disabled overdue is terminal.
	OverdueReopen bool `env:"OVERDUE_REOPEN" env-default:"true"`
	// DeadlinePastPolicy is "reject" or "warn" for tasks created with
	// a deadline already in the past.
	DeadlinePastPolicy string `env:"DEADLINE_PAST_POLICY" env-default:"reject"`
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-required:"true"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-required:"true"`
	Password       string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Database       string        `env:"POSTGRES_DATABASE" env-required:"true"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED" env-default:"false"`
	Host     string        `env:"REDIS_HOST" env-default:"localhost"`
	Port     int           `env:"REDIS_PORT" env-default:"6379"`
	Password string        `env:"REDIS_PASSWORD" env-default:""`
	DB       int           `env:"REDIS_DB" env-default:"0"`
	StatsTTL time.Duration `env:"REDIS_STATS_TTL" env-default:"30s"`
}

type WorkerConfig struct {
	// AutocloseSchedule is a cron spec for the worker binary.
	AutocloseSchedule string `env:"AUTOCLOSE_SCHEDULE" env-default:"@hourly"`
}
