// api/config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server        ServerConfiguration
	Redis         RedisConfiguration
	Elasticsearch ElasticsearchConfiguration
	Neo4j         Neo4jConfiguration
	Auth          AuthConfiguration
	Dept          DeptConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr            string
	DefaultCacheTTL string
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	URL string
}

// Neo4jConfiguration stores data for the optional graph-backed directory
type Neo4jConfiguration struct {
	URI string
}

// AuthConfiguration stores token and remember-me lifetimes
type AuthConfiguration struct {
	TokenTTL      time.Duration
	RememberMeTTL time.Duration
	SigningKey    string
}

// DeptConfiguration stores department defaults used by delete cascades
type DeptConfiguration struct {
	DefaultID int
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	// Set default configurations
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.defaultCacheTTL", "10m")
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("neo4j.uri", "bolt://localhost:7687")
	viper.SetDefault("storage.backend", "memory")
	viper.SetDefault("auth.tokenTTL", "24h")
	// Remembered credentials expire after seven days.
	viper.SetDefault("auth.rememberMeTTL", "168h")
	viper.SetDefault("auth.signingKey", "argus-dev-signing-key")
	viper.SetDefault("dept.defaultId", 1)
	viper.SetDefault("log.dir", "logging")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
