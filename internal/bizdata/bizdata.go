// Package bizdata normalizes the optional, loosely-shaped JSON business
// inputs (priority, roadmap, customer requests, revenue impact) into a
// small set of recognized shapes at the boundary. Anything missing or
// unrecognized is UNKNOWN, never defaulted to zero, because a default zero
// would be indistinguishable from "measured and actually zero".
package bizdata

import (
	"encoding/json"
	"log"
	"os"
	"strings"
)

// Shape classifies how a source file was structured.
type Shape string

const (
	// ShapeUnknown means the file was missing or unrecognized.
	ShapeUnknown Shape = "unknown"

	// ShapeNameList is a JSON array of feature names; listed features get
	// full weight, ordered by position.
	ShapeNameList Shape = "name_list"

	// ShapeRecordList is a JSON array of objects with a name and a value.
	ShapeRecordList Shape = "record_list"

	// ShapeKeyedObject maps feature name → numeric value.
	ShapeKeyedObject Shape = "keyed_object"
)

// Record is one entry from a record-list source.
type Record struct {
	Name  string
	Value float64
}

// Source is one normalized business input.
type Source struct {
	Label string
	Shape Shape

	names   []string
	records []Record
	keyed   map[string]float64
}

// Load reads and normalizes one optional JSON file. A missing or
// unparsable file degrades to ShapeUnknown with a warning only.
func Load(label, path string) *Source {
	src := &Source{Label: label, Shape: ShapeUnknown}
	if path == "" {
		return src
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: business input %s unreadable: %v", label, err)
		}
		return src
	}

	if normalizeInto(src, data) {
		return src
	}

	log.Printf("Warning: business input %s has unrecognized shape, treating as unknown", label)
	return src
}

// normalizeInto tries the three recognized shapes in order.
func normalizeInto(src *Source, data []byte) bool {
	var names []string
	if err := json.Unmarshal(data, &names); err == nil && len(names) > 0 {
		src.Shape = ShapeNameList
		src.names = names
		return true
	}

	var rawRecords []map[string]any
	if err := json.Unmarshal(data, &rawRecords); err == nil && len(rawRecords) > 0 {
		records := make([]Record, 0, len(rawRecords))
		for _, raw := range rawRecords {
			name, ok := stringField(raw, "name", "feature", "id")
			if !ok {
				return false
			}
			value, _ := numberField(raw, "value", "priority", "score", "impact", "revenue", "count")
			records = append(records, Record{Name: name, Value: value})
		}
		src.Shape = ShapeRecordList
		src.records = records
		return true
	}

	var keyed map[string]float64
	if err := json.Unmarshal(data, &keyed); err == nil && len(keyed) > 0 {
		src.Shape = ShapeKeyedObject
		src.keyed = keyed
		return true
	}

	return false
}

// Value returns the normalized [0,1] value this source assigns the feature
// and whether the source knows about the feature at all.
func (s *Source) Value(feature string) (float64, bool) {
	switch s.Shape {
	case ShapeNameList:
		for i, name := range s.names {
			if strings.EqualFold(name, feature) {
				// Earlier in the list means higher priority.
				return 1 - float64(i)/float64(len(s.names)), true
			}
		}
		return 0, false

	case ShapeRecordList:
		max := 0.0
		for _, r := range s.records {
			if r.Value > max {
				max = r.Value
			}
		}
		for _, r := range s.records {
			if strings.EqualFold(r.Name, feature) {
				if max == 0 {
					return 1, true
				}
				return r.Value / max, true
			}
		}
		return 0, false

	case ShapeKeyedObject:
		max := 0.0
		for _, v := range s.keyed {
			if v > max {
				max = v
			}
		}
		for name, v := range s.keyed {
			if strings.EqualFold(name, feature) {
				if max == 0 {
					return 1, true
				}
				return v / max, true
			}
		}
		return 0, false

	default:
		return 0, false
	}
}

func stringField(raw map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := raw[k].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func numberField(raw map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := raw[k].(float64); ok {
			return v, true
		}
	}
	return 0, false
}

// Set bundles the four business inputs.
type Set struct {
	Priority *Source
	Roadmap  *Source
	Requests *Source
	Revenue  *Source
}

// LoadSet loads all four optional inputs.
func LoadSet(priorityPath, roadmapPath, requestsPath, revenuePath string) *Set {
	return &Set{
		Priority: Load("priority", priorityPath),
		Roadmap:  Load("roadmap", roadmapPath),
		Requests: Load("requests", requestsPath),
		Revenue:  Load("revenue", revenuePath),
	}
}

// Value averages the sources that know the feature. known=false means no
// source had any data; the business factor is UNKNOWN, not zero.
func (s *Set) Value(feature string) (value float64, known bool, evidence []string) {
	sum, count := 0.0, 0
	for _, src := range []*Source{s.Priority, s.Roadmap, s.Requests, s.Revenue} {
		if src == nil || src.Shape == ShapeUnknown {
			continue
		}
		if v, ok := src.Value(feature); ok {
			sum += v
			count++
			evidence = append(evidence, src.Label+" lists this feature")
		}
	}
	if count == 0 {
		return 0, false, evidence
	}
	return sum / float64(count), true, evidence
}
