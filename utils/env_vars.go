package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type envValue interface {
	string | int | bool | float64 | time.Duration
}

// GetEnv reads an environment variable, converted to the type of the default value.
// An unparseable value is a configuration error and stops the process.
func GetEnv[T envValue](envVar string, defaultValue T) T {
	raw, ok := os.LookupEnv(envVar)
	if !ok || raw == "" {
		return defaultValue
	}
	value, err := parseEnv[T](raw)
	if err != nil {
		log.Fatalf("Environment variable %s is not valid: '%s' (%s)", envVar, raw, err)
	}
	return value
}

func GetRequiredEnv[T envValue](envVar string) T {
	raw, ok := os.LookupEnv(envVar)
	if !ok || raw == "" {
		log.Fatalf("%s environment variable is required", envVar)
	}
	value, err := parseEnv[T](raw)
	if err != nil {
		log.Fatalf("Environment variable %s is not valid: '%s' (%s)", envVar, raw, err)
	}
	return value
}

func parseEnv[T envValue](raw string) (T, error) {
	var out T
	var parsed any
	var err error

	switch any(out).(type) {
	case string:
		parsed = raw
	case int:
		parsed, err = strconv.Atoi(raw)
	case bool:
		parsed, err = strconv.ParseBool(raw)
	case float64:
		parsed, err = strconv.ParseFloat(raw, 64)
	case time.Duration:
		parsed, err = time.ParseDuration(raw)
	default:
		err = fmt.Errorf("unsupported type %T", out)
	}
	if err != nil {
		return out, err
	}
	return parsed.(T), nil
}
