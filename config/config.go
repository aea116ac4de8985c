package config

import (
	"fmt"
	"time"

	"maplenotes/utils"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	BackendMongo  = "mongo"
	BackendDynamo = "dynamo"
	BackendMemory = "memory"
)

type Config struct {
	Port    string
	Backend string

	Mongo  MongoConfig
	Dynamo DynamoConfig
}

type MongoConfig struct {
	URI             string
	DatabaseName    string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

type DynamoConfig struct {
	Region    string
	TableName string
	// Endpoint overrides the AWS endpoint for dynamodb-local.
	Endpoint    string
	CreateTable bool
}

// Load reads configuration from the environment with local-development
// defaults. An unknown STORAGE_BACKEND value is a startup error.
func Load() (*Config, error) {
	cfg := &Config{
		Port:    utils.GetEnvAsString("PORT", "8080"),
		Backend: utils.GetEnvAsString("STORAGE_BACKEND", BackendMongo),
		Mongo: MongoConfig{
			URI:             utils.GetEnvAsString("MONGO_URI", "mongodb://localhost:27017"),
			DatabaseName:    utils.GetEnvAsString("MONGO_DB", "maplenotes"),
			MaxPoolSize:     utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
			MinPoolSize:     utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10),
			MaxConnIdleTime: utils.GetEnvAsDuration("MONGO_MAX_CONN_IDLE_TIME", 60*time.Second),
			ConnectTimeout:  utils.GetEnvAsDuration("MONGO_CONNECT_TIMEOUT", 5*time.Second),
		},
		Dynamo: DynamoConfig{
			Region:      utils.GetEnvAsString("AWS_REGION", "us-east-1"),
			TableName:   utils.GetEnvAsString("DYNAMO_TABLE", "maplenotes"),
			Endpoint:    utils.GetEnvAsString("DYNAMO_ENDPOINT", ""),
			CreateTable: utils.GetEnvAsBool("DYNAMO_CREATE_TABLE", false),
		},
	}

	switch cfg.Backend {
	case BackendMongo, BackendDynamo, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	return cfg, nil
}
