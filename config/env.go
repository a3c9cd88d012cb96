package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// lookup returns the trimmed value of key, treating blank values as unset
func lookup(key string) (string, bool) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// GetEnvAsInt64 retrieves an environment variable and converts it to int64
func GetEnvAsInt64(key string, defaultVal int64) int64 {
	if value, ok := lookup(key); ok {
		if result, err := strconv.ParseInt(value, 10, 64); err == nil {
			return result
		}
	}
	return defaultVal
}

// GetEnvAsUint64 retrieves an environment variable and converts it to uint64
func GetEnvAsUint64(key string, defaultVal uint64) uint64 {
	if value, ok := lookup(key); ok {
		if result, err := strconv.ParseUint(value, 10, 64); err == nil {
			return result
		}
	}
	return defaultVal
}

// GetEnvAsDuration accepts Go duration syntax ("30s") or a bare number of seconds
func GetEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	value, ok := lookup(key)
	if !ok {
		return defaultVal
	}
	if result, err := time.ParseDuration(value); err == nil {
		return result
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultVal
}

// GetEnvAsBool retrieves an environment variable and converts it to boolean
func GetEnvAsBool(key string, defaultVal bool) bool {
	if value, ok := lookup(key); ok {
		if result, err := strconv.ParseBool(value); err == nil {
			return result
		}
	}
	return defaultVal
}

// GetEnvAsString retrieves an environment variable or returns a default value
func GetEnvAsString(key string, defaultVal string) string {
	if value, ok := lookup(key); ok {
		return value
	}
	return defaultVal
}
