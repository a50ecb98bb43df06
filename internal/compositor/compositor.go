// Package compositor defines compositor operations and the definitions
// produced by parsing a compositor specification. A compositor combines the
// elements matched by an overlay pattern into a single derived element.
package compositor

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Mode selects when a compositor definition applies.
type Mode string

const (
	// ModeData applies the operation to the underlying data before styling.
	ModeData Mode = "data"
	// ModeDisplay applies the operation only to the displayed output.
	ModeDisplay Mode = "display"
)

// Valid reports whether m is one of the two recognized modes.
func (m Mode) Valid() bool {
	return m == ModeData || m == ModeDisplay
}

// Operation is a named, registered transform that a compositor definition can
// resolve. Operations are declarative here: applying them is the plotting
// backend's concern.
type Operation struct {
	// Name is the identifier used in compositor specification lines.
	Name string
	// Group names the group produced by the operation; it also becomes a
	// recognized path specification in option lines.
	Group string
	// Output names the element type the operation produces.
	Output string
}

// Definition is one parsed compositor rule.
type Definition struct {
	// Pattern is the overlay expression matched against overlay paths,
	// e.g. "A * B".
	Pattern string
	// Operation is the resolved registered operation.
	Operation Operation
	// Value identifies the value dimension or group the result is keyed by.
	Value string
	// Mode is either ModeData or ModeDisplay.
	Mode Mode
	// Settings holds the evaluated keyword settings for the operation, if any.
	Settings map[string]cty.Value
}

// Registry holds the operations available to compositor specifications, in
// registration order. Order matters: the option grammar tries registered
// group names as path specifications using first-match alternation.
type Registry struct {
	ops   []Operation
	index map[string]int
}

// NewRegistry creates an empty operation registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds an operation. Re-registering a name is an error since it
// would silently change which definition existing specs resolve to.
func (r *Registry) Register(op Operation) error {
	if op.Name == "" {
		return fmt.Errorf("compositor: operation name cannot be empty")
	}
	if _, exists := r.index[op.Name]; exists {
		return fmt.Errorf("compositor: operation %q already registered", op.Name)
	}
	r.index[op.Name] = len(r.ops)
	r.ops = append(r.ops, op)
	return nil
}

// Lookup resolves an operation by name.
func (r *Registry) Lookup(name string) (Operation, bool) {
	i, ok := r.index[name]
	if !ok {
		return Operation{}, false
	}
	return r.ops[i], true
}

// Operations returns the registered operations in registration order.
func (r *Registry) Operations() []Operation {
	out := make([]Operation, len(r.ops))
	copy(out, r.ops)
	return out
}

// Groups returns the group names of all registered operations, in
// registration order and with duplicates removed.
func (r *Registry) Groups() []string {
	seen := make(map[string]struct{}, len(r.ops))
	var groups []string
	for _, op := range r.ops {
		if op.Group == "" {
			continue
		}
		if _, dup := seen[op.Group]; dup {
			continue
		}
		seen[op.Group] = struct{}{}
		groups = append(groups, op.Group)
	}
	return groups
}

// Builtin returns a registry pre-populated with the operations the stock
// plotting backends understand.
func Builtin() *Registry {
	r := NewRegistry()
	for _, op := range []Operation{
		{Name: "toRGB", Group: "RGB", Output: "RGB"},
		{Name: "alpha_overlay", Group: "AlphaOverlay", Output: "RGB"},
		{Name: "add", Group: "Add", Output: "Image"},
		{Name: "mul", Group: "Mul", Output: "Image"},
		{Name: "max", Group: "Max", Output: "Image"},
	} {
		if err := r.Register(op); err != nil {
			panic(err)
		}
	}
	return r
}
