package confscript

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/yndnr/jubilee-go/internal/core/domain"
)

// Position is a 1-based line and column in the script source.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Directive is one setter invocation in a configuration script.
//
// Args holds the decoded values in order. A block is a map[string]any
// argument.
type Directive struct {
	Name string
	Args []any
	Pos  Position
}

// HasBlock reports whether the last argument is a block.
func (d Directive) HasBlock() bool {
	if len(d.Args) == 0 {
		return false
	}
	_, ok := d.Args[len(d.Args)-1].(map[string]any)
	return ok
}

// Parse turns script source into a list of directives. It never evaluates
// anything; callers dispatch the directives against their own setters.
func Parse(src []byte) ([]Directive, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, domain.ErrScript.WithDetails(err.Error()).WithCause(err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}

	switch root.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if root.ShortTag() == "!!null" {
			return nil, nil
		}
		return nil, scriptError(root, "expected a list of directives, got %s", describe(root))
	case yaml.SequenceNode:
		out := make([]Directive, 0, len(root.Content))
		for _, item := range root.Content {
			d, err := parseItem(item)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil
	case yaml.MappingNode:
		out := make([]Directive, 0, len(root.Content)/2)
		for i := 0; i+1 < len(root.Content); i += 2 {
			d, err := parseEntry(root.Content[i], root.Content[i+1])
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil
	default:
		return nil, scriptError(root, "expected a list of directives, got %s", describe(root))
	}
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) ([]Directive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config script: %w", err)
	}
	directives, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return directives, nil
}

// parseItem reads one list entry: a bare name, or a single-key mapping of
// name to arguments.
func parseItem(n *yaml.Node) (Directive, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() != "!!str" {
			return Directive{}, scriptError(n, "expected directive name, got %s", describe(n))
		}
		return Directive{Name: n.Value, Pos: position(n)}, nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return Directive{}, scriptError(n, "expected one directive per entry, got %d", len(n.Content)/2)
		}
		return parseEntry(n.Content[0], n.Content[1])
	default:
		return Directive{}, scriptError(n, "expected directive, got %s", describe(n))
	}
}

// parseEntry decodes name: value. A sequence value is the argument list;
// any other value is the single argument.
func parseEntry(key, value *yaml.Node) (Directive, error) {
	if key.Kind != yaml.ScalarNode || key.ShortTag() != "!!str" {
		return Directive{}, scriptError(key, "expected directive name, got %s", describe(key))
	}
	d := Directive{Name: key.Value, Pos: position(key)}

	args := []*yaml.Node{value}
	if value.Kind == yaml.SequenceNode {
		args = value.Content
	}
	d.Args = make([]any, 0, len(args))
	for _, a := range args {
		var v any
		if err := a.Decode(&v); err != nil {
			return Directive{}, scriptError(a, "%s: %v", d.Name, err)
		}
		d.Args = append(d.Args, v)
	}
	return d, nil
}

func position(n *yaml.Node) Position {
	return Position{Line: n.Line, Col: n.Column}
}

func describe(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "a list"
	case yaml.MappingNode:
		return "a block"
	case yaml.AliasNode:
		return "an alias"
	default:
		return fmt.Sprintf("%s %q", n.ShortTag(), n.Value)
	}
}

func scriptError(n *yaml.Node, format string, args ...any) error {
	return domain.ErrScript.Detailf("%s: %s", position(n), fmt.Sprintf(format, args...))
}
