package config

import "os"

type Config struct {
	Port                    string
	Env                     string
	MongoURI                string
	MongoDB                 string
	JWTSecret               string
	UploadDir               string
	FirebaseCredentialsPath string
	RateLimitPerMinute      string
	SweepInterval           string
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDB:                 getEnv("MONGO_DB", "social"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		UploadDir:               getEnv("UPLOAD_DIR", "./uploads"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		RateLimitPerMinute:      getEnv("RATE_LIMIT_PER_MINUTE", "300"),
		SweepInterval:           getEnv("STORY_SWEEP_INTERVAL", "1h"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
