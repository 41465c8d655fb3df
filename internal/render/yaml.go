package render

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/usecasegen/internal/lifecycle"
	"gopkg.in/yaml.v3"
)

// ScriptYAML writes the full lifecycle script as YAML.
type ScriptYAML struct {
	W io.Writer
}

// Emit implements lifecycle.Emitter.
func (r ScriptYAML) Emit(_ context.Context, s *lifecycle.Script) error {
	enc := yaml.NewEncoder(r.W)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding lifecycle script: %w", err)
	}
	return enc.Close()
}
