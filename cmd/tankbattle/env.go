package main

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// envOr parses the variable named key, falling back to def when it is unset
// or does not parse.
func envOr[T any](key string, def T, parse func(string) (T, error)) T {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return def
	}
	v, err := parse(val)
	if err != nil {
		return def
	}
	return v
}

func getEnvOrDefault(key, defaultVal string) string {
	return envOr(key, defaultVal, func(s string) (string, error) { return s, nil })
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	return envOr(key, defaultVal, time.ParseDuration)
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	return envOr(key, defaultVal, func(s string) (int, error) { return strconv.Atoi(strings.TrimSpace(s)) })
}

// getEnvBoolOrDefault accepts "yes" on top of what strconv.ParseBool knows.
func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	return envOr(key, defaultVal, func(s string) (bool, error) {
		if strings.EqualFold(s, "yes") {
			return true, nil
		}
		return strconv.ParseBool(s)
	})
}
