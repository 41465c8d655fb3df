package hcl_adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/usecasegen/internal/config"
	"github.com/vk/usecasegen/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// translateUsecase emits node directives in file order followed by the
// connect directives.
func translateUsecase(ctx context.Context, u *usecaseBlock, m *config.Model) error {
	logger := ctxlog.FromContext(ctx).With("usecase", u.Name)

	m.Usecase = u.Name
	if isExprDefined(ctx, u.SettleDelayMS, "settle_delay_ms") {
		var ms int64
		if err := evalInto(u.SettleDelayMS, cty.Number, &ms); err != nil {
			return fmt.Errorf("%s: settle_delay_ms: %w", pos(u.SettleDelayMS.Range()), err)
		}
		if ms < 0 {
			return fmt.Errorf("%s: settle_delay_ms must not be negative, got %d", pos(u.SettleDelayMS.Range()), ms)
		}
		d := time.Duration(ms) * time.Millisecond
		m.SettleDelay = &d
	}

	for _, n := range u.Nodes {
		at := pos(n.Body.MissingItemRange())
		d := config.Create(n.Name, n.Kind)
		d.Pos = at
		m.Directives = append(m.Directives, d)
		if n.Element != nil {
			d := config.SetElement(n.Name, *n.Element)
			d.Pos = at
			m.Directives = append(m.Directives, d)
		}
	}

	for _, c := range u.Connects {
		ds, err := translateConnect(ctx, c)
		if err != nil {
			return err
		}
		m.Directives = append(m.Directives, ds...)
	}
	logger.Debug("Translated usecase block.", "nodes", len(u.Nodes), "connects", len(u.Connects), "directives", len(m.Directives))
	return nil
}

func translateConnect(ctx context.Context, c *connectBlock) ([]config.Directive, error) {
	at := pos(c.Body.MissingItemRange())
	hasPath := isExprDefined(ctx, c.Path, "path")
	hasPair := c.From != nil || c.To != nil

	switch {
	case hasPath && hasPair:
		return nil, fmt.Errorf("%s: connect takes either path or from/to, not both", at)
	case hasPath:
		var names []string
		if err := evalInto(c.Path, cty.List(cty.String), &names); err != nil {
			return nil, fmt.Errorf("%s: connect path: %w", at, err)
		}
		if len(names) < 2 {
			return nil, fmt.Errorf("%s: connect path needs at least two nodes, got %d", at, len(names))
		}
		return config.Path(at, names...), nil
	case c.From != nil && c.To != nil:
		d := config.Connect(*c.From, *c.To)
		d.Pos = at
		return []config.Directive{d}, nil
	default:
		return nil, fmt.Errorf("%s: connect needs both from and to, or a path", at)
	}
}

func translateKind(k *kindBlock) config.KindSpec {
	return config.KindSpec{
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
		Pos:             pos(k.Body.MissingItemRange()),
	}
}
