package store

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/coloradofire/perimeters/pkg/errors"
	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// Export is the YAML document shape for one run's outputs. Geometry is
// omitted; the SQLite store is the durable home for footprints.
type Export struct {
	RunID      string                           `yaml:"run_id"`
	Perimeters []perimeters.ReconciledPerimeter `yaml:"perimeters"`
	Provenance []perimeters.ProvenanceEntry     `yaml:"provenance"`
}

// WriteYAML writes a run export as YAML.
func WriteYAML(w io.Writer, export Export) error {
	data, err := yaml.Marshal(export)
	if err != nil {
		return errors.NewStoreError("write", "yaml", err)
	}
	if _, err := w.Write(data); err != nil {
		return errors.NewStoreError("write", "yaml", err)
	}
	return nil
}
