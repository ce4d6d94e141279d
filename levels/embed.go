// Package levels holds the side view courses the droplet host runs on.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

var ErrInvalidLevel = errors.New("levels: invalid level")

// Point is a position in the vertical plane of the course: X runs along the
// course and Z points up.
type Point struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

type Segment struct {
	From Point `yaml:"from"`
	To   Point `yaml:"to"`
}

// Zone is a horizontal stretch of the course.
type Zone struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
}

func (z Zone) Contains(x float64) bool {
	return x >= z.MinX && x <= z.MaxX
}

type Prompt struct {
	Name     string  `yaml:"name"`
	At       Point   `yaml:"at"`
	Radius   float64 `yaml:"radius"`
	Dialogue bool    `yaml:"dialogue"`
	Disabled bool    `yaml:"disabled"`
}

type Level struct {
	Name    string    `yaml:"name"`
	Spawn   Point     `yaml:"spawn"`
	Terrain []Segment `yaml:"terrain"`
	Oil     []Zone    `yaml:"oil"`
	Prompts []Prompt  `yaml:"prompts"`
}

// Names lists the embedded levels without extension.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(out)
	return out
}

// LoadLevel loads a level by name. levels/<name>.yaml on disk wins over the
// embedded copy.
func LoadLevel(name string) (*Level, error) {
	clean := filepath.ToSlash(name)
	clean = strings.TrimPrefix(clean, "levels/")
	if filepath.Ext(clean) == "" {
		clean += ".yaml"
	}

	data, err := os.ReadFile(filepath.Join("levels", filepath.FromSlash(clean)))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, clean)
		if err != nil {
			return nil, fmt.Errorf("read level: %w", err)
		}
	}

	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("level %s: %w", clean, err)
	}
	return &lvl, nil
}

func (l *Level) Validate() error {
	if len(l.Terrain) == 0 {
		return fmt.Errorf("no terrain: %w", ErrInvalidLevel)
	}
	for i, seg := range l.Terrain {
		if seg.From == seg.To {
			return fmt.Errorf("terrain %d is a point: %w", i, ErrInvalidLevel)
		}
	}
	for i, z := range l.Oil {
		if z.MaxX < z.MinX {
			return fmt.Errorf("oil zone %d is reversed: %w", i, ErrInvalidLevel)
		}
	}
	for _, p := range l.Prompts {
		if p.Radius <= 0 {
			return fmt.Errorf("prompt %q radius %v: %w", p.Name, p.Radius, ErrInvalidLevel)
		}
	}
	return nil
}

// OilAt reports whether x lies in an oil zone.
func (l *Level) OilAt(x float64) bool {
	if l == nil {
		return false
	}
	for _, z := range l.Oil {
		if z.Contains(x) {
			return true
		}
	}
	return false
}

// Bounds returns the horizontal extent of the terrain.
func (l *Level) Bounds() (minX, maxX float64) {
	if l == nil || len(l.Terrain) == 0 {
		return 0, 0
	}
	minX, maxX = l.Terrain[0].From.X, l.Terrain[0].From.X
	for _, s := range l.Terrain {
		minX = min(minX, s.From.X, s.To.X)
		maxX = max(maxX, s.From.X, s.To.X)
	}
	return minX, maxX
}
