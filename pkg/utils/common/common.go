package common

import (
	"os"
	"strconv"
)

// Getenv fetches the env value, falling back to the default value when unset or empty
func Getenv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	return value
}

// GetenvInt fetches the env value as an integer, falling back to the default value
// when the env is unset or not a number
func GetenvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
