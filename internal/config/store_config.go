package config

import (
	"github.com/spf13/viper"
)

const (
	keyStoreBackend   = "store_backend"
	keyMongoURI       = "mongo_uri"
	keyMongoDatabase  = "mongo_database"
	keySessionBackend = "session_backend"
	keyRedisAddr      = "redis_addr"
	keyRedisPassword  = "redis_password"
	keyRedisDB        = "redis_db"

	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
)

// StoreConfig selects and configures the document store and the session store.
type StoreConfig interface {
	GetStoreBackend() string
	GetMongoURI() string
	GetMongoDatabase() string
	GetSessionBackend() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

type Stores struct {
	v *viper.Viper
}

var _ StoreConfig = Stores{}

func setStoreDefaults(v *viper.Viper) {
	v.SetDefault(keyStoreBackend, BackendMemory)
	v.SetDefault(keyMongoURI, "mongodb://localhost:27017")
	v.SetDefault(keyMongoDatabase, "blog")
	v.SetDefault(keySessionBackend, BackendMemory)
	v.SetDefault(keyRedisAddr, "localhost:6379")
	v.SetDefault(keyRedisPassword, "")
	v.SetDefault(keyRedisDB, 0)
}

func (s Stores) GetStoreBackend() string {
	return s.v.GetString(keyStoreBackend)
}

func (s Stores) GetMongoURI() string {
	return s.v.GetString(keyMongoURI)
}

func (s Stores) GetMongoDatabase() string {
	return s.v.GetString(keyMongoDatabase)
}

func (s Stores) GetSessionBackend() string {
	return s.v.GetString(keySessionBackend)
}

func (s Stores) GetRedisAddr() string {
	return s.v.GetString(keyRedisAddr)
}

func (s Stores) GetRedisPassword() string {
	return s.v.GetString(keyRedisPassword)
}

func (s Stores) GetRedisDB() int {
	return s.v.GetInt(keyRedisDB)
}
