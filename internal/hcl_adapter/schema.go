package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes all top-level blocks of one file.
type fileRoot struct {
	Usecases []*usecaseBlock `hcl:"usecase,block"`
	Kinds    []*kindBlock    `hcl:"kind,block"`
}

// usecaseBlock is a `usecase "name" {}` block.
type usecaseBlock struct {
	Name          string          `hcl:"name,label"`
	SettleDelayMS hcl.Expression  `hcl:"settle_delay_ms,optional"`
	Nodes         []*nodeBlock    `hcl:"node,block"`
	Connects      []*connectBlock `hcl:"connect,block"`
	Body          hcl.Body        `hcl:",body"`
}

// nodeBlock is a `node "Kind" "name" {}` block.
type nodeBlock struct {
	Kind    string   `hcl:"kind,label"`
	Name    string   `hcl:"name,label"`
	Element *string  `hcl:"element,optional"`
	Body    hcl.Body `hcl:",body"`
}

// connectBlock wires either one pair (from/to) or a chain (path).
type connectBlock struct {
	From *string        `hcl:"from,optional"`
	To   *string        `hcl:"to,optional"`
	Path hcl.Expression `hcl:"path,optional"`
	Body hcl.Body       `hcl:",body"`
}

// kindBlock is a `kind "Name" {}` manifest entry.
type kindBlock struct {
	Name            string   `hcl:"name,label"`
	Category        string   `hcl:"category,optional"`
	Input           string   `hcl:"input,optional"`
	Output          string   `hcl:"output,optional"`
	Elements        []string `hcl:"elements,optional"`
	Default         string   `hcl:"default,optional"`
	Ceiling         int      `hcl:"ceiling,optional"`
	Symbol          string   `hcl:"symbol,optional"`
	ElementPrefixed bool     `hcl:"element_prefixed,optional"`
	MultiIn         bool     `hcl:"multi_in,optional"`
	MultiOut        bool     `hcl:"multi_out,optional"`
	Body            hcl.Body `hcl:",body"`
}
