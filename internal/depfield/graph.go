// Package depfield models cascading form dependencies (country → state →
// city, industry → sub-industry) as a DAG of fields with explicit parent
// pointers. A change at any level invalidates every descendant selection in
// one downward traversal.
package depfield

import (
	"fmt"

	"dealer-admin-console/internal/model"
)

type field struct {
	name     string
	parent   *field
	children []*field
	options  []model.DependentOption
	selected any
}

type Graph struct {
	fields map[string]*field
}

func NewGraph() *Graph {
	return &Graph{fields: map[string]*field{}}
}

// AddField registers a field, optionally under a parent. Parents must be
// registered first, which keeps the graph acyclic by construction.
func (g *Graph) AddField(name string, parentName string) error {
	if _, exists := g.fields[name]; exists {
		return fmt.Errorf("field %q already registered", name)
	}

	node := &field{name: name}
	if parentName != "" {
		parent, exists := g.fields[parentName]
		if !exists {
			return fmt.Errorf("parent field %q not registered", parentName)
		}
		node.parent = parent
		parent.children = append(parent.children, node)
	}

	g.fields[name] = node
	return nil
}

// SetOptions installs the immutable option dataset for a field. Datasets are
// fetched once per view; only selections change afterwards.
func (g *Graph) SetOptions(name string, options []model.DependentOption) error {
	node, exists := g.fields[name]
	if !exists {
		return fmt.Errorf("field %q not registered", name)
	}
	node.options = append([]model.DependentOption(nil), options...)
	return nil
}

// Select sets a field's value and cascades invalidation: every descendant
// whose selection is no longer visible under the new ancestry is cleared.
func (g *Graph) Select(name string, value any) error {
	node, exists := g.fields[name]
	if !exists {
		return fmt.Errorf("field %q not registered", name)
	}

	if value != nil && !optionVisible(node.options, value, g.parentValue(node)) {
		return fmt.Errorf("value %v is not selectable for field %q: %w", value, name, model.ErrInvalidInput)
	}

	node.selected = value
	for _, child := range node.children {
		g.revalidate(child)
	}
	return nil
}

func (g *Graph) revalidate(node *field) {
	if node.selected != nil && !optionVisible(node.options, node.selected, g.parentValue(node)) {
		node.selected = nil
	}
	for _, child := range node.children {
		g.revalidate(child)
	}
}

func (g *Graph) parentValue(node *field) any {
	if node.parent == nil {
		return nil
	}
	return node.parent.selected
}

// VisibleOptions returns the options selectable under the field's current
// parent value.
func (g *Graph) VisibleOptions(name string) ([]model.DependentOption, error) {
	node, exists := g.fields[name]
	if !exists {
		return nil, fmt.Errorf("field %q not registered", name)
	}
	return Visible(node.options, g.parentValue(node)), nil
}

// Enabled reports whether a field accepts input: a governed field is disabled
// until its parent holds a value.
func (g *Graph) Enabled(name string) (bool, error) {
	node, exists := g.fields[name]
	if !exists {
		return false, fmt.Errorf("field %q not registered", name)
	}
	return node.parent == nil || node.parent.selected != nil, nil
}

func (g *Graph) Selected(name string) (any, error) {
	node, exists := g.fields[name]
	if !exists {
		return nil, fmt.Errorf("field %q not registered", name)
	}
	return node.selected, nil
}

// Visible filters an option dataset against a parent value. With no parent
// value only undependent options show; with one, only options whose
// dependsOn coerces equal to it. Coercion is required because form values
// arrive as strings while dataset keys are numbers.
func Visible(options []model.DependentOption, parentValue any) []model.DependentOption {
	out := make([]model.DependentOption, 0, len(options))
	for _, option := range options {
		if optionMatches(option, parentValue) {
			out = append(out, option)
		}
	}
	return out
}

func optionMatches(option model.DependentOption, parentValue any) bool {
	if option.DependsOn == nil && parentValue == nil {
		return true
	}
	return option.DependsOn != nil && parentValue != nil && model.LooseEqual(option.DependsOn, parentValue)
}

func optionVisible(options []model.DependentOption, value any, parentValue any) bool {
	for _, option := range Visible(options, parentValue) {
		if model.LooseEqual(option.Key, value) {
			return true
		}
	}
	return false
}
