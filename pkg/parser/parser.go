// Package parser turns raw Mach machine-definition documents into the AST
// the linking core operates on. Documents are YAML: a machine title, an
// ordered import list, and ordered (possibly nested) state, task, and
// context definitions.
package parser

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/machlink/machlink/pkg/types"
)

type rawDocument struct {
	Machine  string      `yaml:"machine"`
	Imports  []rawImport `yaml:"imports"`
	States   []rawNode   `yaml:"states"`
	Tasks    []rawNode   `yaml:"tasks"`
	Contexts []rawNode   `yaml:"contexts"`
}

type rawImport struct {
	From    string   `yaml:"from"`
	Symbols []string `yaml:"symbols"`
}

type rawNode struct {
	Name    string            `yaml:"name"`
	Initial bool              `yaml:"initial"`
	On      map[string]string `yaml:"on"`
	States  []rawNode         `yaml:"states"`
	Tasks   []rawNode         `yaml:"tasks"`
}

// Parse builds a Module from raw document content. Parse failures are
// reported as ModuleParse link errors carrying the offending module ID.
func Parse(id types.ModuleID, content []byte) (*types.Module, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, types.NewModuleParse(id, err)
	}

	doc := &types.Document{Title: raw.Machine}

	for _, imp := range raw.Imports {
		stmt := types.ImportStatement{Path: imp.From}
		for _, spec := range imp.Symbols {
			sym, err := parseSymbol(spec)
			if err != nil {
				return nil, types.NewModuleParse(id, err)
			}
			stmt.Symbols = append(stmt.Symbols, sym)
		}
		doc.Imports = append(doc.Imports, stmt)
	}

	doc.Nodes = append(doc.Nodes, buildNodes(raw.States, types.StateNode, nil)...)
	doc.Nodes = append(doc.Nodes, buildNodes(raw.Tasks, types.TaskNode, nil)...)
	doc.Nodes = append(doc.Nodes, buildNodes(raw.Contexts, types.ContextNode, nil)...)

	return &types.Module{
		ID:       id,
		Document: doc,
		Imports:  doc.Imports,
		Raw:      content,
	}, nil
}

// parseSymbol parses one symbol spec: "Name", "Name as Alias", or a dotted
// "Container.Name" form.
func parseSymbol(spec string) (types.ImportedSymbol, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return types.ImportedSymbol{}, fmt.Errorf("empty import symbol")
	}

	parts := strings.Split(spec, " as ")
	switch len(parts) {
	case 1:
		return types.ImportedSymbol{Name: parts[0]}, nil
	case 2:
		name := strings.TrimSpace(parts[0])
		alias := strings.TrimSpace(parts[1])
		if name == "" || alias == "" {
			return types.ImportedSymbol{}, fmt.Errorf("malformed import symbol %q", spec)
		}
		return types.ImportedSymbol{Name: name, Alias: alias}, nil
	default:
		return types.ImportedSymbol{}, fmt.Errorf("malformed import symbol %q", spec)
	}
}

func buildNodes(raws []rawNode, kind types.NodeKind, parent *types.Node) []*types.Node {
	var out []*types.Node
	for _, r := range raws {
		node := &types.Node{
			Name:    r.Name,
			Kind:    kind,
			Initial: r.Initial,
			Parent:  parent,
		}
		// YAML maps iterate in random order; sort events for stable output.
		events := make([]string, 0, len(r.On))
		for ev := range r.On {
			events = append(events, ev)
		}
		sort.Strings(events)
		for _, ev := range events {
			node.Transitions = append(node.Transitions, types.Transition{
				Event:  ev,
				Target: r.On[ev],
			})
		}
		node.Children = append(node.Children, buildNodes(r.States, types.StateNode, node)...)
		node.Children = append(node.Children, buildNodes(r.Tasks, types.TaskNode, node)...)
		out = append(out, node)
	}
	return out
}
