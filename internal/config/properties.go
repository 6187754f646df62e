package config

import (
	"fmt"
	"strings"
)

// ParseSystemProperties parses key=value entries. Later entries win. A bare
// key sets an empty value.
func ParseSystemProperties(entries ...[]string) (map[string]string, error) {
	out := make(map[string]string)
	for _, list := range entries {
		for _, entry := range list {
			key, value, err := splitProperty(entry)
			if err != nil {
				return nil, err
			}
			out[key] = value
		}
	}
	return out, nil
}

func splitProperty(entry string) (string, string, error) {
	key, value, _ := strings.Cut(entry, "=")
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("invalid system property %q: expected key=value", entry)
	}
	return key, value, nil
}
