package utils

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// inputFields are tried in order on each JSON Lines record.
var inputFields = []string{"brief", "content", "text"}

// ReadInputsFromFile reads batch inputs from a file.
// Supports plain text files (one input per line) and .jsonl files, where the
// brief, content or text field of each record is used, falling back to the
// whole line.
func ReadInputsFromFile(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var inputs []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	jsonl := strings.HasSuffix(filename, ".jsonl")

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !jsonl {
			inputs = append(inputs, line)
			continue
		}

		var data map[string]any
		if err := json.Unmarshal([]byte(line), &data); err != nil {
			return nil, fmt.Errorf("failed to parse JSON line %d: %w", lineNo, err)
		}
		inputs = append(inputs, pickInput(data, line))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return inputs, nil
}

func pickInput(data map[string]any, line string) string {
	for _, field := range inputFields {
		if s, ok := data[field].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return line
}
