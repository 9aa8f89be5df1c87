package scan

import (
	"bufio"
	"context"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// History gathers recent version-control history and tags each commit with
// the features whose paths it touched. Extraction is a single bounded
// subprocess call; any failure degrades to Available=false with a warning,
// never an error.
func (s *Scanner) History(ctx context.Context, repoRoot string, commits int, featureNames []string) HistoryResult {
	if commits <= 0 {
		commits = 30
	}

	gitPath, err := exec.LookPath("git")
	if err != nil {
		log.Printf("Warning: git not found, history evidence unavailable: %v", err)
		return HistoryResult{Available: false}
	}

	cmd := exec.CommandContext(ctx, gitPath, "-C", repoRoot, "log",
		"--name-only",
		"--pretty=format:@@%H|%an|%at|%s",
		"-n", strconv.Itoa(commits))
	output, err := cmd.Output()
	if err != nil {
		log.Printf("Warning: git log failed, history evidence unavailable: %v", err)
		return HistoryResult{Available: false}
	}

	return HistoryResult{
		Available: true,
		Commits:   parseHistory(string(output), featureNames),
	}
}

// parseHistory reads the @@hash|author|unix|subject format followed by the
// touched file list for each commit.
func parseHistory(output string, featureNames []string) []Commit {
	var result []Commit
	var current *Commit

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "@@") {
			if current != nil {
				result = append(result, *current)
			}
			current = parseCommitHeader(strings.TrimPrefix(line, "@@"))
			continue
		}
		if current == nil || strings.TrimSpace(line) == "" {
			continue
		}
		for _, name := range featureNames {
			if pathTouchesFeature(line, name) && !containsString(current.Features, name) {
				current.Features = append(current.Features, name)
			}
		}
	}
	if current != nil {
		result = append(result, *current)
	}

	return result
}

func parseCommitHeader(header string) *Commit {
	parts := strings.SplitN(header, "|", 4)
	c := &Commit{}
	if len(parts) > 0 {
		c.Hash = parts[0]
	}
	if len(parts) > 1 {
		c.Author = parts[1]
	}
	if len(parts) > 2 {
		if unix, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
			c.When = time.Unix(unix, 0)
		}
	}
	if len(parts) > 3 {
		c.Subject = parts[3]
	}
	return c
}

// pathTouchesFeature matches a changed path against a feature folder at a
// path component boundary.
func pathTouchesFeature(path, feature string) bool {
	return strings.Contains(path, "/"+feature+"/") || strings.HasPrefix(path, feature+"/")
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
