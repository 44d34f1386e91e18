package routetable

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ParamToken marks a Param position in a table segment.
const ParamToken = ":param"

var (
	ErrInvalidTable = errors.New("routetable: invalid table")
	ErrInjected     = errors.New("routetable: injected hook failure")
)

// Table is the top-level route of a declarative route tree.
//
//	name = "app"
//	catch = true
//
//	[[route]]
//	segment = ["users", ":param"]
//	name = "user"
//
//	[[route]]
//	segment = ["old"]
//	redirect = ["users", "1"]
//	emit_original = true
//
//	[default]
//	name = "not-found"
type Table struct {
	Name      string    `toml:"name"`
	Catch     bool      `toml:"catch"`
	FailEnter bool      `toml:"fail_enter"`
	Default   *Fallback `toml:"default"`
	Routes    []Entry   `toml:"route"`
}

// Entry declares one child route.
type Entry struct {
	Segment      []string  `toml:"segment"`
	Name         string    `toml:"name"`
	Catch        bool      `toml:"catch"`
	FailEnter    bool      `toml:"fail_enter"`
	FailExit     bool      `toml:"fail_exit"`
	Redirect     []string  `toml:"redirect"`
	EmitOriginal bool      `toml:"emit_original"`
	Default      *Fallback `toml:"default"`
	Routes       []Entry   `toml:"route"`
}

// Fallback declares the default route built for unmatched remainders.
type Fallback struct {
	Name      string `toml:"name"`
	FailEnter bool   `toml:"fail_enter"`
	FailExit  bool   `toml:"fail_exit"`
}

// Load reads and validates a table from a TOML file.
func Load(path string) (*Table, error) {
	var t Table
	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		return nil, fmt.Errorf("routetable: decode %s: %w", path, err)
	}
	return finish(&t, md)
}

// Parse decodes and validates a table from TOML text.
func Parse(data string) (*Table, error) {
	var t Table
	md, err := toml.Decode(data, &t)
	if err != nil {
		return nil, fmt.Errorf("routetable: decode: %w", err)
	}
	return finish(&t, md)
}

func finish(t *Table, md toml.MetaData) (*Table, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidTable, strings.Join(keys, ", "))
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if t.Name == "" {
		t.Name = "root"
	}
	return t, nil
}

// Validate reports structural problems the router would only detect while
// traversing, so a broken table fails before the first transition.
func (t *Table) Validate() error {
	var errs []error
	for i, e := range t.Routes {
		errs = append(errs, e.validate(fmt.Sprintf("route[%d]", i)))
	}
	return errors.Join(errs...)
}

func (e Entry) validate(at string) error {
	if e.Name != "" {
		at = e.Name
	}

	var errs []error
	if len(e.Segment) == 0 {
		errs = append(errs, fmt.Errorf("%w: %s has an empty segment", ErrInvalidTable, at))
	}
	if e.Default != nil && len(e.Redirect) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s sets both default and redirect", ErrInvalidTable, at))
	}
	if e.EmitOriginal && len(e.Redirect) == 0 {
		errs = append(errs, fmt.Errorf("%w: %s sets emit_original without redirect", ErrInvalidTable, at))
	}
	for i, child := range e.Routes {
		errs = append(errs, child.validate(fmt.Sprintf("%s.route[%d]", at, i)))
	}
	return errors.Join(errs...)
}

// name returns the entry name, falling back to its joined segment.
func (e Entry) name() string {
	if e.Name != "" {
		return e.Name
	}
	return strings.Join(e.Segment, "/")
}
