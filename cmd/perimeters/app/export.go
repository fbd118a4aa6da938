package app

import (
	"os"

	"github.com/coloradofire/perimeters/internal/pipeline"
	"github.com/coloradofire/perimeters/internal/store"
	"github.com/coloradofire/perimeters/pkg/errors"
)

// writeYAML writes the run outputs as YAML to path, or stdout for "-".
func (a *App) writeYAML(path, runID string, result *pipeline.Result) error {
	export := store.Export{
		RunID:      runID,
		Perimeters: result.Perimeters,
		Provenance: result.Provenance,
	}

	if path == "-" {
		return store.WriteYAML(os.Stdout, export)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("write", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := store.WriteYAML(f, export); err != nil {
		return err
	}
	return f.Close()
}
