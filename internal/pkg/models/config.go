package models

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NSQ      NSQConfig
	JWT      JWTConfig
	Logger   LoggerConfig
	Engine   EngineConfig
}

// AppConfig holds application metadata configuration
type AppConfig struct {
	Name        string `json:"name"`
	Environment string `json:"environment"`
	Debug       bool   `json:"debug"`
	Version     string `json:"version"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	ReadTimeout     int    `json:"read_timeout"`
	WriteTimeout    int    `json:"write_timeout"`
	ShutdownTimeout int    `json:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Database  string `json:"database"`
	SSLMode   string `json:"ssl_mode"`
	MaxConns  int    `json:"max_conns"`
	IdleConns int    `json:"idle_conns"`
	// TimeoutSeconds bounds every storage call; expiry surfaces as a
	// storage-unavailable error rather than blocking the request.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
}

// NSQConfig holds NSQ messaging configuration
type NSQConfig struct {
	Address        string `json:"address"`
	PublishEnabled bool   `json:"publish_enabled"`
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret     string `json:"secret"`
	Expiration int    `json:"expiration"` // minutes
	Issuer     string `json:"issuer"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level    string `json:"level"`
	FilePath string `json:"file_path"`
}

// EngineConfig holds fleet engine tunables
type EngineConfig struct {
	// MaintenanceKmThreshold and MaintenanceDaysThreshold feed the
	// needs-maintenance flag on vehicle reads.
	MaintenanceKmThreshold   float64 `json:"maintenance_km_threshold"`
	MaintenanceDaysThreshold int     `json:"maintenance_days_threshold"`
	// LivePositionTTLSeconds bounds how long a cached trip position
	// survives without updates.
	LivePositionTTLSeconds int `json:"live_position_ttl_seconds"`
}
