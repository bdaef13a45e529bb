package pass

import (
	"fmt"
	"strings"
)

// UnknownPassError reports a pipeline element that matched no registered
// pass identifier.
type UnknownPassError struct {
	Name string
}

func (e *UnknownPassError) Error() string {
	return fmt.Sprintf("unknown pass %q in pipeline", e.Name)
}

// Extend is the registration hook contract between the host and a pass:
// given a pipeline element, a registered pass whose identifier matches
// exactly constructs one instance and appends it to the manager, and
// Extend returns true. On no match it returns false and the manager is
// untouched.
func Extend(r *Registry, name string, fm *FunctionManager, opts Options) bool {
	factory, ok := r.Lookup(name)
	if !ok {
		return false
	}
	fm.Add(factory(opts))
	return true
}

// ParsePipeline parses a comma-separated pipeline description into a
// FunctionManager holding one pass instance per element, in pipeline
// order. Whitespace around elements is trimmed. The same identifier may
// appear more than once; each occurrence gets its own instance.
//
// An empty description, an empty element, or an element matching no
// registered identifier is an error, and no manager is returned.
func (r *Registry) ParsePipeline(text string, opts Options) (*FunctionManager, error) {
	fm := NewFunctionManager()
	for _, elem := range strings.Split(text, ",") {
		name := strings.TrimSpace(elem)
		if name == "" {
			return nil, fmt.Errorf("empty element in pipeline %q", text)
		}
		if !Extend(r, name, fm, opts) {
			return nil, &UnknownPassError{Name: name}
		}
	}
	return fm, nil
}
