package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canopyapps/nextup/internal/scan"
	"github.com/canopyapps/nextup/internal/validators"
)

func TestZeroComponentsScoresZeroImplementation(t *testing.T) {
	f := &scan.FeatureScan{Name: "empty", Content: map[string]string{}}

	scorer := NewScorer([]*scan.FeatureScan{f}, "")
	score := scorer.Score(context.Background(), f)

	assert.Equal(t, 0, score.Implementation.Score)
	assert.Equal(t, 0, score.TestSignal.Score)
	assert.Equal(t, 0, score.Accessibility.Score)
	assert.Equal(t, ConfidenceMeasured, score.Implementation.Confidence)
}

func TestTotalIsSumOfDimensionsAndBounded(t *testing.T) {
	f := &scan.FeatureScan{
		Name: "orders",
		ComponentFiles: []scan.ComponentFile{{
			Path:        "orders.component.ts",
			HasTemplate: true,
			HasStyle:    true,
			HasSpec:     true,
			Content:     "export class OrdersComponent {\n  load(): void {\n    this.refresh();\n  }\n}",
		}},
		TemplateFiles: []string{"orders.component.html"},
		SpecFiles:     []string{"orders.component.spec.ts"},
		DocFiles:      []string{"README.md"},
		Content: map[string]string{
			"orders.component.html":    `<label for="q">Search</label><input id="q" (keyup.enter)="search()">`,
			"orders.component.spec.ts": "it('loads', () => { expect(a).toBe(1); expect(b).toBe(2); });",
		},
	}

	scorer := NewScorer([]*scan.FeatureScan{f}, "path: 'orders'")
	score := scorer.Score(context.Background(), f)

	sum := score.Implementation.Score + score.TestSignal.Score +
		score.Accessibility.Score + score.CodeQuality.Score
	assert.Equal(t, sum, score.Total)
	assert.GreaterOrEqual(t, score.Total, 0)
	assert.LessOrEqual(t, score.Total, 100)

	for _, d := range []ScoreDetail{score.Implementation, score.TestSignal, score.Accessibility, score.CodeQuality} {
		assert.GreaterOrEqual(t, d.Score, 0)
		assert.LessOrEqual(t, d.Score, DimensionMax)
	}
}

func TestBandBoundaries(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{95, "production-ready"},
		{90, "production-ready"},
		{89, "minor polish needed"},
		{75, "minor polish needed"},
		{74, "functional with gaps"},
		{50, "functional with gaps"},
		{49, "substantial work remaining"},
		{25, "substantial work remaining"},
		{24, "major rework required"},
		{0, "major rework required"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Band(tt.total), "total %d", tt.total)
	}
}

func TestTestSignalZeroSpecFiles(t *testing.T) {
	f := &scan.FeatureScan{
		Name:           "orders",
		ComponentFiles: []scan.ComponentFile{{Path: "orders.component.ts"}},
		Content:        map[string]string{},
	}

	scorer := NewScorer([]*scan.FeatureScan{f}, "")
	detail := scorer.scoreTestSignal(f)

	assert.Equal(t, 0, detail.Score)
	assert.Contains(t, detail.Details[0], "no spec files")
}

func TestTestSignalSpecWithoutBlocks(t *testing.T) {
	f := &scan.FeatureScan{
		Name:      "orders",
		SpecFiles: []string{"orders.component.spec.ts"},
		Content:   map[string]string{"orders.component.spec.ts": "// placeholder"},
	}

	scorer := NewScorer([]*scan.FeatureScan{f}, "")
	detail := scorer.scoreTestSignal(f)
	assert.Equal(t, 0, detail.Score)
}

func TestAccessibilityPatternBasedConfidence(t *testing.T) {
	f := &scan.FeatureScan{
		Name:          "orders",
		TemplateFiles: []string{"orders.component.html"},
		Content: map[string]string{
			"orders.component.html": `<button aria-label="Add">+</button>`,
		},
	}

	scorer := NewScorer([]*scan.FeatureScan{f}, "")
	detail := scorer.scoreAccessibility(f)

	assert.Equal(t, ConfidencePatternBased, detail.Confidence)
	assert.Equal(t, 18, detail.Score, "all templates marked, no keyboard handlers")
}

func TestAccessibilityNoTemplates(t *testing.T) {
	f := &scan.FeatureScan{Name: "orders", Content: map[string]string{}}

	scorer := NewScorer([]*scan.FeatureScan{f}, "")
	detail := scorer.scoreAccessibility(f)
	assert.Equal(t, 0, detail.Score)
}

func TestEstimatedQualityConfidence(t *testing.T) {
	f := &scan.FeatureScan{
		Name: "orders",
		ComponentFiles: []scan.ComponentFile{{
			Path:    "orders.component.ts",
			Content: "export class OrdersComponent {}\n",
		}},
		Content: map[string]string{},
	}

	scorer := NewScorer([]*scan.FeatureScan{f}, "")
	detail := scorer.scoreCodeQuality(context.Background(), f)

	assert.Equal(t, ConfidenceEstimated, detail.Confidence)
	assert.Equal(t, DimensionMax, detail.Score, "tiny clean file keeps full marks")
}

func TestValidatedQualityPenalties(t *testing.T) {
	scorer := NewScorer(nil, "")

	detail := scorer.validatedQuality(validators.Result{
		Available: true, LintErrors: 2, LintWarnings: 1, TypeErrors: 1,
	})
	assert.Equal(t, ConfidenceValidated, detail.Confidence)
	// 25 - 2*3 - 1*4 - 1 = 14
	assert.Equal(t, 14, detail.Score)
	assert.Equal(t, "2 lint errors, 1 lint warnings, 1 type errors", detail.Details[0])

	detail = scorer.validatedQuality(validators.Result{
		Available: true, LintErrors: 10, LintWarnings: 10, TypeErrors: 10,
	})
	assert.Equal(t, 0, detail.Score, "clamped at zero")
}

func TestRoutingWiringAffectsImplementation(t *testing.T) {
	f := &scan.FeatureScan{
		Name: "orders",
		ComponentFiles: []scan.ComponentFile{{
			Path: "orders.component.ts", HasTemplate: true,
		}},
		Content: map[string]string{},
	}

	wired := NewScorer([]*scan.FeatureScan{f}, "{ path: 'orders' }").scoreImplementation(f)
	unwired := NewScorer([]*scan.FeatureScan{f}, "{ path: 'billing' }").scoreImplementation(f)

	assert.Equal(t, wired.Score-4, unwired.Score)
}

func TestUnresolvedChildSelectorsReported(t *testing.T) {
	f := &scan.FeatureScan{
		Name: "orders",
		ComponentFiles: []scan.ComponentFile{{
			Path:    "orders.component.ts",
			Content: `@Component({ selector: 'app-orders' })`,
		}},
		TemplateFiles: []string{"orders.component.html"},
		Content: map[string]string{
			"orders.component.html": `<app-orders-list></app-orders-list>`,
		},
	}

	scorer := NewScorer([]*scan.FeatureScan{f}, "")
	resolved, unresolved := scorer.resolveChildSelectors(f)
	assert.Equal(t, 0, resolved)
	assert.Equal(t, 1, unresolved)
}
