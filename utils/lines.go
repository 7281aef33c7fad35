package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadQueryLines reads a query file: one free-form query per line,
// whitespace trimmed, blank lines dropped.
func ReadQueryLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening query file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	return lines, nil
}
