package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canopyapps/nextup/internal/scan"
)

// feature builds an in-memory FeatureScan without touching disk.
func feature(name string, components []scan.ComponentFile, content map[string]string, templates, specs []string) *scan.FeatureScan {
	if content == nil {
		content = map[string]string{}
	}
	return &scan.FeatureScan{
		Name:           name,
		ComponentFiles: components,
		Content:        content,
		TemplateFiles:  templates,
		SpecFiles:      specs,
	}
}

func TestOrdersScenarioErrorDisplayMissing(t *testing.T) {
	// A template with no conditional error markup and no labeling, plus a
	// spec with 2 test blocks and 3 assertions.
	template := "<div>\n  <ul><li *ngFor=\"let o of orders\">{{o.id}}</li></ul>\n</div>\n"
	spec := `it('lists orders', () => { expect(list.length).toBe(2); expect(list[0].id).toBe(1); });
it('refreshes', () => { expect(called).toBe(true); });
`
	f := feature("orders",
		[]scan.ComponentFile{{
			Path:    "orders.component.ts",
			Content: "export class OrdersComponent { load() { this.orders = fetchOrders(); } }",
		}},
		map[string]string{
			"orders.component.html":    template,
			"orders.component.spec.ts": spec,
		},
		[]string{"orders.component.html"},
		[]string{"orders.component.spec.ts"},
	)

	v := NewVerifier()
	result, err := v.Check(f, "ui-error-display")
	require.NoError(t, err)

	assert.True(t, result.Needed)
	require.Len(t, result.Missing, 2)
	assert.Contains(t, result.Missing, "conditional error markup")
	assert.Contains(t, result.Missing, "error message styling or alert role")
	assert.Empty(t, result.Matched)
}

func TestErrorDisplayPresent(t *testing.T) {
	template := `<div *ngIf="error" class="error-banner" role="alert">{{error}}</div>`
	f := feature("orders", nil,
		map[string]string{"orders.component.html": template},
		[]string{"orders.component.html"}, nil)

	v := NewVerifier()
	result, err := v.Check(f, "ui-error-display")
	require.NoError(t, err)

	assert.False(t, result.Needed)
	assert.Len(t, result.Matched, 2)
	assert.Empty(t, result.Missing)
}

func TestFormValidationShortCircuitsWithoutForms(t *testing.T) {
	f := feature("orders",
		[]scan.ComponentFile{{Path: "orders.component.ts", Content: "export class OrdersComponent {}"}},
		map[string]string{"orders.component.html": "<div>read-only listing</div>"},
		[]string{"orders.component.html"}, nil)

	v := NewVerifier()
	result, err := v.Check(f, "form-validation")
	require.NoError(t, err)

	assert.False(t, result.Needed)
	assert.Contains(t, result.ScopeUsed, "no form elements detected")
}

func TestTestsScopeIgnoresNonSpecContent(t *testing.T) {
	// "expect" mentioned in a component must not mask a missing suite.
	f := feature("orders",
		[]scan.ComponentFile{{
			Path:    "orders.component.ts",
			Content: "// we expect(orders) to be sorted\nit('fake', () => {})",
		}},
		nil, nil, nil)

	v := NewVerifier()
	result, err := v.Check(f, "tests")
	require.NoError(t, err)

	assert.True(t, result.Needed)
	assert.Len(t, result.Missing, 2)
}

func TestSharedStateReachableViaImport(t *testing.T) {
	f := feature("orders",
		[]scan.ComponentFile{{
			Path:    "orders.component.ts",
			Content: `import { CartStore } from '../../state/cart.store';`,
		}},
		nil, nil, nil)

	v := NewVerifier()
	v.SharedStateContent = map[string]string{
		"src/state/cart.store.ts": "load() { return this.http.get(url).pipe(catchError(e => this.handleError(e))); }",
	}

	result, err := v.Check(f, "http-error-handling")
	require.NoError(t, err)
	assert.False(t, result.Needed, "error handling lives in the imported shared store")
}

func TestUnknownCategoryIsAnError(t *testing.T) {
	v := NewVerifier()
	_, err := v.Check(feature("orders", nil, nil, nil, nil), "no-such-category")
	assert.Error(t, err)
}

func TestCheckAllCoversCatalog(t *testing.T) {
	v := NewVerifier()
	results, err := v.CheckAll(feature("orders", nil, nil, nil, nil))
	require.NoError(t, err)
	assert.Len(t, results, len(v.Categories()))
}
