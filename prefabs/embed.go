package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// The droplet specs and their curve scripts ship embedded. A prefabs
// directory under the working directory shadows them, so edits apply
// without a rebuild.

//go:embed *.yaml scripts/*.tengo
var FS embed.FS

const (
	diskRoot    = "prefabs"
	scriptsDir  = "scripts"
	scriptExt   = ".tengo"
	defaultSpec = "droplet.yaml"
)

// Source tells where an asset is read from.
type Source int

const (
	SourceMissing Source = iota
	SourceEmbedded
	SourceDisk
)

func (s Source) String() string {
	switch s {
	case SourceEmbedded:
		return "embedded"
	case SourceDisk:
		return "disk"
	}
	return "missing"
}

// Load reads a spec, e.g. "droplet.yaml" or "prefabs/droplet.yaml".
func Load(name string) ([]byte, error) {
	return read(specPath(name))
}

// LoadScript reads a curve script. The scripts/ prefix and the .tengo
// extension are optional.
func LoadScript(name string) ([]byte, error) {
	return read(scriptPath(name))
}

// Origin reports where the spec name would be read from.
func Origin(name string) Source {
	return origin(specPath(name))
}

func read(rel string) ([]byte, error) {
	if data, err := os.ReadFile(diskPath(rel)); err == nil {
		return data, nil
	}
	data, err := FS.ReadFile(rel)
	if err != nil {
		return nil, fmt.Errorf("prefabs: read %s: %w", rel, err)
	}
	return data, nil
}

func origin(rel string) Source {
	if info, err := os.Stat(diskPath(rel)); err == nil && !info.IsDir() {
		return SourceDisk
	}
	if f, err := FS.Open(rel); err == nil {
		_ = f.Close()
		return SourceEmbedded
	}
	return SourceMissing
}

func specPath(name string) string {
	if name == "" {
		return defaultSpec
	}
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, diskRoot+"/")
	return path.Clean(s)
}

func scriptPath(name string) string {
	s := specPath(name)
	s = strings.TrimPrefix(s, scriptsDir+"/")
	if path.Ext(s) == "" {
		s += scriptExt
	}
	return path.Join(scriptsDir, s)
}

func diskPath(rel string) string {
	return filepath.Join(diskRoot, filepath.FromSlash(rel))
}
