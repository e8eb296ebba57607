// internal/survey/mapfile.go
package survey

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// mapFile is the YAML shape of a response map kept next to the survey
// instead of inside it. Columns are positional, like the sheet form:
//
//	columns:
//	  - {target: general, category: timestamp}
//	  - {target: self, category: email}
//	  - {target: self, category: name, header: Name}
//	  - {target: peer1, category: name}
//	  - {target: peer1, category: rating, header: Effort}
//	points:
//	  "5 - Excellent": 5
type mapFile struct {
	Columns []mapColumn        `yaml:"columns"`
	Points  map[string]float64 `yaml:"points"`
}

type mapColumn struct {
	Target   string `yaml:"target"`
	Category string `yaml:"category"`
	Header   string `yaml:"header"`
}

// LoadMapFile reads a YAML response map. When given, it replaces any
// ResponseMap/PointMap sheets the workbook carries.
func LoadMapFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("map file: %w", err)
	}
	var raw mapFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("map file %s: %w", path, err)
	}

	m := &Map{Points: raw.Points}
	if m.Points == nil {
		m.Points = map[string]float64{}
	}
	for _, c := range raw.Columns {
		t := strings.ToLower(strings.TrimSpace(c.Target))
		if t == "" {
			t = TargetGeneral
		}
		m.Entries = append(m.Entries, Entry{
			Target:   t,
			Category: strings.ToLower(strings.TrimSpace(c.Category)),
			Header:   strings.TrimSpace(c.Header),
		})
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("map file %s: %v", path, err)
	}
	return m, nil
}
