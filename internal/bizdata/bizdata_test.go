package bizdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNameListShape(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "priority.json", `["checkout", "orders", "billing"]`)

	src := Load("priority", path)
	assert.Equal(t, ShapeNameList, src.Shape)

	first, ok := src.Value("checkout")
	require.True(t, ok)
	assert.InDelta(t, 1.0, first, 0.001, "first entry gets full weight")

	second, ok := src.Value("orders")
	require.True(t, ok)
	assert.Less(t, second, first, "later entries rank lower")

	_, ok = src.Value("unlisted")
	assert.False(t, ok)
}

func TestRecordListShape(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "revenue.json",
		`[{"feature": "checkout", "revenue": 50000}, {"feature": "orders", "revenue": 25000}]`)

	src := Load("revenue", path)
	assert.Equal(t, ShapeRecordList, src.Shape)

	top, ok := src.Value("checkout")
	require.True(t, ok)
	assert.InDelta(t, 1.0, top, 0.001, "max value normalizes to 1")

	half, ok := src.Value("orders")
	require.True(t, ok)
	assert.InDelta(t, 0.5, half, 0.001)
}

func TestKeyedObjectShape(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "requests.json", `{"checkout": 40, "orders": 10}`)

	src := Load("requests", path)
	assert.Equal(t, ShapeKeyedObject, src.Shape)

	v, ok := src.Value("orders")
	require.True(t, ok)
	assert.InDelta(t, 0.25, v, 0.001)
}

func TestMissingFileIsUnknownNotZero(t *testing.T) {
	src := Load("priority", filepath.Join(t.TempDir(), "absent.json"))
	assert.Equal(t, ShapeUnknown, src.Shape)

	_, ok := src.Value("anything")
	assert.False(t, ok, "unknown source never reports a value")
}

func TestUnrecognizedShapeIsUnknown(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "weird.json", `{"nested": {"deep": true}}`)

	src := Load("weird", path)
	assert.Equal(t, ShapeUnknown, src.Shape)
}

func TestRecordWithoutNameFieldIsUnknown(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "bad.json", `[{"value": 3}]`)

	src := Load("bad", path)
	assert.Equal(t, ShapeUnknown, src.Shape)
}

func TestSetAveragesKnownSources(t *testing.T) {
	dir := t.TempDir()
	priority := writeJSON(t, dir, "priority.json", `["checkout"]`)
	revenue := writeJSON(t, dir, "revenue.json", `[{"name": "checkout", "value": 100}]`)

	set := LoadSet(priority, "", "", revenue)

	value, known, evidence := set.Value("checkout")
	require.True(t, known)
	assert.InDelta(t, 1.0, value, 0.001)
	assert.Len(t, evidence, 2)

	_, known, _ = set.Value("billing")
	assert.False(t, known, "no source covers billing: UNKNOWN, not zero")
}
