// Package validators runs real external linter/type-checker subprocesses
// and converts their output into code-quality evidence. All failures here
// are soft: a dead or slow validator degrades to unavailable evidence with
// a warning, never an error.
package validators

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Result holds validator findings for one feature.
type Result struct {
	// Available is false when neither validator could run.
	Available bool `json:"available"`

	LintErrors   int `json:"lint_errors"`
	LintWarnings int `json:"lint_warnings"`
	TypeErrors   int `json:"type_errors"`
}

// Cache memoizes validator results per feature for one run. It is passed
// explicitly through the call chain rather than living as a package
// singleton, so separate or parallel runs never share results.
type Cache struct {
	results map[string]Result
}

// NewCache creates an empty run-scoped cache.
func NewCache() *Cache {
	return &Cache{results: make(map[string]Result)}
}

// Runner invokes external validators with a bounded timeout, pacing spawns
// with a rate limiter so validating many features doesn't fork-bomb the
// host.
type Runner struct {
	// LintCmd and TypecheckCmd are argv-style command lines; the feature
	// path is appended as the final argument. Empty means skip.
	LintCmd      []string
	TypecheckCmd []string

	// Timeout bounds each subprocess invocation.
	Timeout time.Duration

	// Limiter paces subprocess launches.
	Limiter *rate.Limiter
}

// NewRunner creates a runner with the given commands and defaults.
func NewRunner(lintCmd, typecheckCmd []string, timeout time.Duration, spawnsPerSecond float64) *Runner {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if spawnsPerSecond <= 0 {
		spawnsPerSecond = 2
	}
	return &Runner{
		LintCmd:      lintCmd,
		TypecheckCmd: typecheckCmd,
		Timeout:      timeout,
		Limiter:      rate.NewLimiter(rate.Limit(spawnsPerSecond), 1),
	}
}

// Validate runs the configured validators against featurePath, memoizing by
// feature name in the run-scoped cache so each feature is validated at most
// once per run.
func (r *Runner) Validate(ctx context.Context, cache *Cache, featureName, featurePath string) Result {
	if cached, ok := cache.results[featureName]; ok {
		return cached
	}

	result := Result{}

	if len(r.LintCmd) > 0 {
		if out, ok := r.run(ctx, r.LintCmd, featurePath); ok {
			result.Available = true
			result.LintErrors, result.LintWarnings = countLintFindings(out)
		}
	}

	if len(r.TypecheckCmd) > 0 {
		if out, ok := r.run(ctx, r.TypecheckCmd, featurePath); ok {
			result.Available = true
			result.TypeErrors = countTypeErrors(out)
		}
	}

	cache.results[featureName] = result
	return result
}

// run executes one validator command. Non-zero exit with output is a normal
// outcome (findings were reported); everything else degrades soft.
func (r *Runner) run(ctx context.Context, argv []string, target string) (string, bool) {
	if err := r.Limiter.Wait(ctx); err != nil {
		return "", false
	}

	runCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	args := append(append([]string{}, argv[1:]...), target)
	cmd := exec.CommandContext(runCtx, argv[0], args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if _, isExit := err.(*exec.ExitError); isExit && len(output) > 0 {
			return string(output), true
		}
		log.Printf("Warning: validator %s failed: %v", argv[0], err)
		return "", false
	}

	return string(output), true
}

var (
	lintErrorRe   = regexp.MustCompile(`(?im)\berror\b`)
	lintWarningRe = regexp.MustCompile(`(?im)\bwarning\b`)
	typeErrorRe   = regexp.MustCompile(`(?m)error TS\d+|type error`)
)

func countLintFindings(output string) (errors, warnings int) {
	for _, line := range strings.Split(output, "\n") {
		switch {
		case typeErrorRe.MatchString(line):
			// Counted by the type checker pass, not lint.
		case lintErrorRe.MatchString(line):
			errors++
		case lintWarningRe.MatchString(line):
			warnings++
		}
	}
	return errors, warnings
}

func countTypeErrors(output string) int {
	return len(typeErrorRe.FindAllString(output, -1))
}

// String summarizes the result for evidence lines.
func (r Result) String() string {
	if !r.Available {
		return "validators unavailable"
	}
	return fmt.Sprintf("%d lint errors, %d lint warnings, %d type errors",
		r.LintErrors, r.LintWarnings, r.TypeErrors)
}
