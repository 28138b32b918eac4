package selector

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/sysfs"
)

// Axis is a direction of structural search
type Axis string

const (
	Ancestor Axis = "ancestor"
	Child    Axis = "child"
	Sibling  Axis = "sibling"
)

// Axes lists the axes in canonical order
var Axes = []Axis{Ancestor, Child, Sibling}

// Op is a clause operator
type Op string

const (
	Equal    Op = "=="
	NotEqual Op = "!="
)

// Clause constrains one axis
type Clause struct {
	Axis   Axis
	Op     Op
	Target string
}

// String renders the clause as it appears in a selector
func (c Clause) String() string {
	return fmt.Sprintf("[%s%s%s]", c.Axis, c.Op, c.Target)
}

// Selector is a parsed device predicate
type Selector struct {
	Current  string
	Ancestor *Clause
	Child    *Clause
	Sibling  *Clause
}

// Clause returns the clause for axis, or nil
func (s *Selector) Clause(axis Axis) *Clause {
	switch axis {
	case Ancestor:
		return s.Ancestor
	case Child:
		return s.Child
	case Sibling:
		return s.Sibling
	}
	return nil
}

// Clauses returns the present clauses in canonical order
func (s *Selector) Clauses() []Clause {
	var clauses []Clause
	for _, axis := range Axes {
		if c := s.Clause(axis); c != nil {
			clauses = append(clauses, *c)
		}
	}
	return clauses
}

// String renders the canonical form used as the alias table key
func (s *Selector) String() string {
	var b strings.Builder
	b.WriteString(s.Current)
	for _, c := range s.Clauses() {
		b.WriteString(c.String())
	}
	return b.String()
}

var clausePattern = regexp.MustCompile(`^\s*([A-Za-z_]+)\s*(==|!=|[=!<>~]+)?\s*(.*?)\s*$`)

// Parse parses a selector. Malformed node ids, unknown axes, bad
// operators, unbalanced brackets, trailing text and repeated axes are
// PARSE errors.
func Parse(text string) (*Selector, error) {
	input := strings.TrimSpace(text)

	open := strings.IndexAny(input, "[]")
	current := input
	rest := ""
	if open >= 0 {
		current = strings.TrimSpace(input[:open])
		rest = input[open:]
	}
	current = strings.ToLower(current)
	if !sysfs.ValidNodeID(current) {
		return nil, parseError(text, "malformed current term %q", current)
	}

	sel := &Selector{Current: current}
	for rest != "" {
		if rest[0] != '[' {
			return nil, parseError(text, "unexpected text %q", rest)
		}
		end := strings.IndexAny(rest[1:], "[]")
		if end < 0 || rest[1+end] != ']' {
			return nil, parseError(text, "unbalanced brackets")
		}
		clause, err := parseClause(text, rest[1:1+end])
		if err != nil {
			return nil, err
		}
		if sel.Clause(clause.Axis) != nil {
			return nil, parseError(text, "repeated %s clause", clause.Axis)
		}
		sel.set(clause)
		rest = strings.TrimSpace(rest[2+end:])
	}

	return sel, nil
}

// MustParse is Parse that panics, for fixed selectors in code and tests
func MustParse(text string) *Selector {
	sel, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return sel
}

func parseClause(text, body string) (*Clause, error) {
	m := clausePattern.FindStringSubmatch(body)
	if m == nil {
		return nil, parseError(text, "malformed clause %q", body)
	}
	axis := Axis(strings.ToLower(m[1]))
	switch axis {
	case Ancestor, Child, Sibling:
	default:
		return nil, parseError(text, "unknown axis %q", m[1])
	}
	op := Op(m[2])
	if op != Equal && op != NotEqual {
		return nil, parseError(text, "bad operator %q in %s clause", m[2], axis)
	}
	// sysfs and lsusb report hex codes in lower case
	target := strings.ToLower(m[3])
	if !sysfs.ValidNodeID(target) {
		return nil, parseError(text, "malformed node id %q in %s clause", m[3], axis)
	}
	return &Clause{Axis: axis, Op: op, Target: target}, nil
}

func (s *Selector) set(c *Clause) {
	switch c.Axis {
	case Ancestor:
		s.Ancestor = c
	case Child:
		s.Child = c
	case Sibling:
		s.Sibling = c
	}
}

func parseError(text, format string, args ...interface{}) error {
	return errors.Newf(errors.ErrParse, "selector %q: %s", text, fmt.Sprintf(format, args...)).
		WithDetail("selector", text)
}

// Tree answers the structural questions a selector asks
type Tree interface {
	// NodeID returns the node id of a device path
	NodeID(ctx context.Context, path string) (string, error)
	// Parent returns the parent of path; ok is false at the tree root
	Parent(path string) (parent string, ok bool)
	// Children returns the device paths directly below path
	Children(path string) ([]string, error)
}

// Matches reports whether path has the current term's node id and passes
// every clause
func (s *Selector) Matches(ctx context.Context, tree Tree, path string) (bool, error) {
	nodeID, err := tree.NodeID(ctx, path)
	if err != nil {
		return false, err
	}
	if nodeID != s.Current {
		return false, nil
	}
	return s.ClausesPass(ctx, tree, path)
}

// ClausesPass evaluates only the axis clauses
func (s *Selector) ClausesPass(ctx context.Context, tree Tree, path string) (bool, error) {
	for _, c := range s.Clauses() {
		pass, err := c.Pass(ctx, tree, path)
		if err != nil || !pass {
			return false, err
		}
	}
	return true, nil
}

// Pass evaluates one clause against path
func (c Clause) Pass(ctx context.Context, tree Tree, path string) (bool, error) {
	found, err := c.anyRelative(ctx, tree, path)
	if err != nil {
		return false, err
	}
	if c.Op == Equal {
		return found, nil
	}
	return !found, nil
}

// anyRelative reports whether some relative along the axis has the
// target node id
func (c Clause) anyRelative(ctx context.Context, tree Tree, path string) (bool, error) {
	switch c.Axis {
	case Ancestor:
		for cur, ok := tree.Parent(path); ok; cur, ok = tree.Parent(cur) {
			if hit, err := c.is(ctx, tree, cur); err != nil || hit {
				return hit, err
			}
		}
		return false, nil
	case Child:
		children, err := tree.Children(path)
		if err != nil {
			return false, err
		}
		return c.anyOf(ctx, tree, children, "")
	case Sibling:
		parent, ok := tree.Parent(path)
		if !ok {
			return false, nil
		}
		siblings, err := tree.Children(parent)
		if err != nil {
			return false, err
		}
		return c.anyOf(ctx, tree, siblings, path)
	}
	return false, errors.Newf(errors.ErrConfiguration, "unknown axis %q", c.Axis)
}

func (c Clause) anyOf(ctx context.Context, tree Tree, paths []string, skip string) (bool, error) {
	for _, p := range paths {
		if p == skip {
			continue
		}
		if hit, err := c.is(ctx, tree, p); err != nil || hit {
			return hit, err
		}
	}
	return false, nil
}

func (c Clause) is(ctx context.Context, tree Tree, path string) (bool, error) {
	nodeID, err := tree.NodeID(ctx, path)
	if err != nil {
		return false, err
	}
	return nodeID == c.Target, nil
}
