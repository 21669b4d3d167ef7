package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Manifest describes how a dataset file was produced. It is stored next to
// the data as <output>.yaml.
type Manifest struct {
	RunID       string            `yaml:"run_id"`
	Operation   string            `yaml:"operation"`
	CreatedAt   time.Time         `yaml:"created_at"`
	Source      string            `yaml:"source"`
	Output      string            `yaml:"output"`
	InputShape  []int             `yaml:"input_shape"`
	OutputShape []int             `yaml:"output_shape"`
	Params      map[string]string `yaml:"params,omitempty"`
}

// NewManifest creates a manifest with a fresh run id.
func NewManifest(operation, source, output string) *Manifest {
	return &Manifest{
		RunID:     uuid.New().String(),
		Operation: operation,
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Output:    output,
		Params:    map[string]string{},
	}
}

// ManifestPath returns the sidecar path for a dataset file.
func ManifestPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".yaml"
}

// Write stores the manifest at path.
func (m *Manifest) Write(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads a manifest from path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if _, err := uuid.Parse(m.RunID); err != nil {
		return nil, fmt.Errorf("manifest %s has invalid run_id %q: %w", path, m.RunID, err)
	}
	return &m, nil
}
