// Package yaml_adapter is the YAML front end. Documents are checked against
// an embedded JSON Schema, then decoded through yaml.Node so every directive
// keeps the line it came from.
package yaml_adapter

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/vk/usecasegen/internal/config"
	"github.com/vk/usecasegen/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "https://usecasegen.local/schemas/usecase.schema.json"

var documentSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("use-case schema load failed: %w", err)
	}
	return c.Compile(schemaURL)
})

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new YAML use-case loader.
func NewLoader() *Loader {
	return &Loader{}
}

type fileRoot struct {
	Usecase       string      `yaml:"usecase"`
	SettleDelayMS *int64      `yaml:"settle_delay_ms"`
	Kinds         []yaml.Node `yaml:"kinds"`
	Directives    []yaml.Node `yaml:"directives"`
}

type kindEntry struct {
	Name            string   `yaml:"name"`
	Category        string   `yaml:"category"`
	Input           string   `yaml:"input"`
	Output          string   `yaml:"output"`
	Elements        []string `yaml:"elements"`
	Default         string   `yaml:"default"`
	Ceiling         int      `yaml:"ceiling"`
	Symbol          string   `yaml:"symbol"`
	ElementPrefixed bool     `yaml:"element_prefixed"`
	MultiIn         bool     `yaml:"multi_in"`
	MultiOut        bool     `yaml:"multi_out"`
}

// Load decodes each file and merges the results.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	models := make([]*config.Model, 0, len(paths))
	for _, path := range paths {
		m, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("Decoded YAML file.", "file", path, "kinds", len(m.Kinds), "directives", len(m.Directives))
		models = append(models, m)
	}
	return config.Merge(models...)
}

func loadFile(path string) (*config.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open YAML file %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}
	if doc != nil {
		if err := validate(doc); err != nil {
			return nil, fmt.Errorf("%s: schema validation failed: %w", path, err)
		}
	}

	var root fileRoot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}
	return translate(path, &root)
}

// validate checks a decoded document against the embedded schema. The
// document goes through JSON first so numbers reach the validator as
// json.Number.
func validate(doc any) error {
	schema, err := documentSchema()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return schema.Validate(v)
}

func translate(path string, root *fileRoot) (*config.Model, error) {
	m := &config.Model{Usecase: root.Usecase}
	if root.SettleDelayMS != nil {
		if *root.SettleDelayMS < 0 {
			return nil, fmt.Errorf("%s: settle_delay_ms must not be negative, got %d", path, *root.SettleDelayMS)
		}
		d := time.Duration(*root.SettleDelayMS) * time.Millisecond
		m.SettleDelay = &d
	}

	for i := range root.Kinds {
		node := &root.Kinds[i]
		var k kindEntry
		if err := node.Decode(&k); err != nil {
			return nil, fmt.Errorf("%s: kind: %w", at(path, node), err)
		}
		m.Kinds = append(m.Kinds, config.KindSpec{
			Name:            k.Name,
			Category:        k.Category,
			Input:           k.Input,
			Output:          k.Output,
			Elements:        k.Elements,
			Default:         k.Default,
			Ceiling:         k.Ceiling,
			Symbol:          k.Symbol,
			ElementPrefixed: k.ElementPrefixed,
			MultiIn:         k.MultiIn,
			MultiOut:        k.MultiOut,
			Pos:             at(path, node),
		})
	}

	if len(root.Directives) > 0 && root.Usecase == "" {
		return nil, fmt.Errorf("%s: directives given without a usecase name", path)
	}
	for i := range root.Directives {
		ds, err := translateDirective(path, &root.Directives[i])
		if err != nil {
			return nil, err
		}
		m.Directives = append(m.Directives, ds...)
	}
	return m, nil
}

func translateDirective(path string, node *yaml.Node) ([]config.Directive, error) {
	pos := at(path, node)
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return nil, fmt.Errorf("%s: a directive is a mapping with exactly one key", pos)
	}
	op, body := node.Content[0].Value, node.Content[1]

	switch config.Op(op) {
	case config.OpCreate:
		var v struct {
			Name string `yaml:"name"`
			Kind string `yaml:"kind"`
		}
		if err := body.Decode(&v); err != nil {
			return nil, fmt.Errorf("%s: create: %w", pos, err)
		}
		if v.Name == "" || v.Kind == "" {
			return nil, fmt.Errorf("%s: create needs name and kind", pos)
		}
		d := config.Create(v.Name, v.Kind)
		d.Pos = pos
		return []config.Directive{d}, nil

	case config.OpSetElement:
		var v struct {
			Name    string `yaml:"name"`
			Element string `yaml:"element"`
		}
		if err := body.Decode(&v); err != nil {
			return nil, fmt.Errorf("%s: set_element: %w", pos, err)
		}
		if v.Name == "" {
			return nil, fmt.Errorf("%s: set_element needs name", pos)
		}
		d := config.SetElement(v.Name, v.Element)
		d.Pos = pos
		return []config.Directive{d}, nil

	case config.OpConnect:
		var v struct {
			From string   `yaml:"from"`
			To   string   `yaml:"to"`
			Path []string `yaml:"path"`
		}
		if err := body.Decode(&v); err != nil {
			return nil, fmt.Errorf("%s: connect: %w", pos, err)
		}
		hasPair := v.From != "" || v.To != ""
		switch {
		case len(v.Path) > 0 && hasPair:
			return nil, fmt.Errorf("%s: connect takes either path or from/to, not both", pos)
		case len(v.Path) > 0:
			if len(v.Path) < 2 {
				return nil, fmt.Errorf("%s: connect path needs at least two nodes, got %d", pos, len(v.Path))
			}
			return config.Path(pos, v.Path...), nil
		case v.From != "" && v.To != "":
			d := config.Connect(v.From, v.To)
			d.Pos = pos
			return []config.Directive{d}, nil
		default:
			return nil, fmt.Errorf("%s: connect needs both from and to, or a path", pos)
		}

	default:
		return nil, fmt.Errorf("%s: unknown directive %q", pos, op)
	}
}

func at(path string, node *yaml.Node) string {
	return fmt.Sprintf("%s:%d", path, node.Line)
}
