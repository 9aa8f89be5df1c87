package validators

import (
	"log"
	"os"
	"regexp"
	"strconv"
)

var thresholdRe = regexp.MustCompile(`"?([a-zA-Z-]*(?:max|complexity)[a-zA-Z-]*)"?\s*[:=]\s*\[?\s*"?(?:error|warn)?"?,?\s*(\d+)`)

// LintThresholds extracts numeric threshold values from a linter config
// file by pattern matching. This is deliberately not a full parse: only
// rules carrying a number (max-lines, complexity, max-params, ...) are
// collected. A missing or unreadable file yields an empty map with a
// warning.
func LintThresholds(path string) map[string]int {
	thresholds := make(map[string]int)
	if path == "" {
		return thresholds
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: lint config unreadable, thresholds unavailable: %v", err)
		return thresholds
	}

	for _, m := range thresholdRe.FindAllStringSubmatch(string(data), -1) {
		value, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		thresholds[m[1]] = value
	}

	return thresholds
}
