package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/terraconstructs/credentials/internal/auth"
)

type outputMode string

const (
	outputString outputMode = "string"
	outputJSON   outputMode = "json"
	outputBoth   outputMode = "both"
)

func parseOutputFormat(value string) (outputMode, error) {
	switch mode := outputMode(strings.ToLower(value)); mode {
	case outputString, outputJSON, outputBoth:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid --output %q (expected string, json or both)", value)
	}
}

// renderCredentials writes the requested serialized forms of creds, one per line.
func renderCredentials(w io.Writer, creds auth.Credentials, mode outputMode) error {
	if mode == outputString || mode == outputBoth {
		if _, err := fmt.Fprintln(w, creds.String()); err != nil {
			return err
		}
	}
	if mode == outputJSON || mode == outputBoth {
		data, err := creds.MarshalJSON()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	}
	return nil
}

// parseAttributeArgs turns repeated key=value flags into permission attributes.
// Repeating a key appends to its value list.
func parseAttributeArgs(args []string) (map[string][]string, error) {
	if len(args) == 0 {
		return nil, nil
	}

	attributes := make(map[string][]string)
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("invalid attribute %q (expected key=value)", arg)
		}
		attributes[key] = append(attributes[key], value)
	}
	return attributes, nil
}

// readInput reads the named file, or stdin when name is empty or "-".
func readInput(stdin io.Reader, name string, readFile func(string) ([]byte, error)) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(stdin)
	}
	return readFile(name)
}
