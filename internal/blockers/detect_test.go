package blockers

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCompletionPercentageFormula(t *testing.T) {
	// 2 required files (1 found) + 2 required patterns (1 matched)
	// ⇒ round(100·(1+1)/(2+2)) = 50.
	root := t.TempDir()
	writeFile(t, root, "src/auth/auth.service.ts", "function login() {}")

	d := &Detector{
		Root: root,
		Catalog: []Entry{{
			ID:            "auth-subsystem",
			Name:          "Authentication subsystem",
			BlocksAll:     true,
			RequiredFiles: []string{"src/auth/auth.service.ts", "src/auth/auth.guard.ts"},
			RequiredPatterns: []RequiredPattern{
				{regexp.MustCompile(`login`), "login flow"},
				{regexp.MustCompile(`token`), "session/token handling"},
			},
		}},
	}

	results, err := d.Detect(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, 50, r.Evidence.CompletionPercentage)
	assert.Equal(t, StatusInProgress, r.Status)
	assert.Equal(t, []string{"src/auth/auth.guard.ts"}, r.Evidence.FilesMissing)
	assert.Equal(t, []string{"session/token handling"}, r.Evidence.PatternsMissing)
}

func TestStatusThresholds(t *testing.T) {
	tests := []struct {
		name     string
		evidence Evidence
		want     Status
	}{
		{
			name: "complete",
			evidence: Evidence{
				FilesFound: []string{"a"}, PatternsMatched: []string{"p"},
				CompletionPercentage: 100,
			},
			want: StatusCompleted,
		},
		{
			name: "eighty percent with nothing missing",
			evidence: Evidence{
				FilesFound: []string{"a"}, PatternsMatched: []string{"p"},
				CompletionPercentage: 80,
			},
			want: StatusCompleted,
		},
		{
			name: "high percentage but a required file missing",
			evidence: Evidence{
				FilesFound: []string{"a"}, FilesMissing: []string{"b"},
				PatternsMatched: []string{"p", "q", "r", "s", "t", "u", "v"},
				CompletionPercentage: 89,
			},
			want: StatusInProgress,
		},
		{
			name: "some evidence",
			evidence: Evidence{
				FilesFound:           []string{"a"},
				CompletionPercentage: 33,
			},
			want: StatusInProgress,
		},
		{
			name:     "nothing at all",
			evidence: Evidence{},
			want:     StatusNotStarted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.evidence))
		})
	}
}

func TestCompletedRequiresAllFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/models/schema.ts", "export interface Order { id: string }")

	d := NewDetector(root)
	results, err := d.Detect(context.Background())
	require.NoError(t, err)

	byID := map[string]Result{}
	for _, r := range results {
		byID[r.ID] = r
	}

	schema := byID["core-data-schema"]
	assert.Equal(t, StatusCompleted, schema.Status)
	assert.Equal(t, 100, schema.Evidence.CompletionPercentage)

	auth := byID["auth-subsystem"]
	assert.Equal(t, StatusNotStarted, auth.Status)
}

func TestUnresolvedBlocksAll(t *testing.T) {
	results := []Result{
		{ID: "auth", BlocksAll: true, Status: StatusInProgress},
		{ID: "schema", BlocksAll: true, Status: StatusCompleted},
		{ID: "permissions", BlocksAll: false, Status: StatusNotStarted},
	}

	unresolved := UnresolvedBlocksAll(results)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "auth", unresolved[0].ID)
}
