package mongo

import "time"

// Config represents the connection settings for the delivery log database.
type Config struct {
	ConnectionURL   string        `env:"MONGODB_URL,required"`                         // mongodb://host:27017
	Database        string        `env:"MONGODB_DATABASE" envDefault:"notifications"`  // database holding the delivery_logs collection
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`     // timeout for establishing a connection
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`       // maximum number of pooled connections
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`         // minimum number of pooled connections
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"` // maximum idle time before a pooled connection is closed
	RetryWrites     bool          `env:"MONGODB_RETRY_WRITES" envDefault:"true"`       // whether to retry write operations
	RetryReads      bool          `env:"MONGODB_RETRY_READS" envDefault:"true"`        // whether to retry read operations
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`        // connection attempts before giving up
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`       // interval between connection attempts
}
