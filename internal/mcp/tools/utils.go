package tools

import (
	"encoding/json"
	"fmt"
)

// intArgument reads an optional positive integer argument. JSON numbers
// arrive as float64.
func intArgument(args map[string]any, name string, fallback int) (int, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return fallback, nil
	}
	switch v := raw.(type) {
	case float64:
		if v < 1 || v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be a positive integer", name)
		}
		return int(v), nil
	case int:
		if v < 1 {
			return 0, fmt.Errorf("%s must be a positive integer", name)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("%s must be a number", name)
	}
}

func stringArgument(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

func boolArgument(args map[string]any, name string) bool {
	b, _ := args[name].(bool)
	return b
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
