package config

const (
	StorageBackendMemory = "memory"
	StorageBackendRedis  = "redis"
)

type StorageConfig interface {
	GetStorageBackend() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetStorageEncryptionKey() string
}

type Storage struct {
	Backend       string `validate:"oneof=memory redis"`
	RedisAddr     string `validate:"required_if=Backend redis"`
	RedisPassword string
	RedisDB       int    `validate:"gte=0"`
	EncryptionKey string `validate:"omitempty,base64"`
}

var _ StorageConfig = Storage{}

func loadStorage() Storage {
	return Storage{
		Backend:       GetEnv("STORAGE_BACKEND", StorageBackendMemory),
		RedisAddr:     GetEnv("REDIS_ADDR", ""),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       GetEnvInt("REDIS_DB", 0),
		EncryptionKey: GetEnv("STORAGE_ENCRYPTION_KEY", ""),
	}
}

func (s Storage) GetStorageBackend() string {
	return s.Backend
}

func (s Storage) GetRedisAddr() string {
	return s.RedisAddr
}

func (s Storage) GetRedisPassword() string {
	return s.RedisPassword
}

func (s Storage) GetRedisDB() int {
	return s.RedisDB
}

// GetStorageEncryptionKey returns the base64 encoded 32 byte key used to seal
// stored records. Empty disables sealing.
func (s Storage) GetStorageEncryptionKey() string {
	return s.EncryptionKey
}
