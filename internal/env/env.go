package env

import (
	"os"
)

const (
	AWSRegion        = "AWS_REGION"
	AWSID            = "AWS_ID"
	AWSSecret        = "AWS_SECRET"
	AWSToken         = "AWS_TOKEN"
	DynamoDBEndpoint = "DYNAMODB_ENDPOINT"
	UserSecretKey    = "USER_SECRET"
	AdminSecretKey   = "ADMIN_SECRET"
	AuthRedisURL     = "AUTH_REDIS_URL"
	AuthRedisPass    = "AUTH_REDIS_PASS"
	WebUrl           = "WEB_URL"
)

var required = []string{
	AWSRegion,
	AWSID,
	AWSSecret,
	// AWSToken,
	UserSecretKey,
	AdminSecretKey,
	AuthRedisURL,
	WebUrl,
}

// MustLoad panics when a required variable is missing. Servers call it
// first thing in main. Package-level init in importers may already have
// read individual variables by then; this is the completeness check.
func MustLoad() {
	for _, key := range required {
		if os.Getenv(key) == "" {
			panic("env: required environment variable not set: " + key)
		}
	}
}

func Get(key string) string {
	return os.Getenv(key)
}

func GetOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("env: required environment variable not set: " + key)
	}
	return val
}
