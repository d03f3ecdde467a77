package command

import (
	"sort"
	"strings"
)

const separators = " \t"

// Factory creates a new command without arguments.
type Factory func() Command

// Registry resolves command names to factories. It is read-only once created
// and safe for concurrent use.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry from a copy of factories.
func NewRegistry(factories map[string]Factory) *Registry {
	copied := make(map[string]Factory, len(factories))
	for name, factory := range factories {
		copied[name] = factory
	}

	return &Registry{factories: copied}
}

// DefaultRegistry knows gettime and echo. opts configure every gettime command it creates.
func DefaultRegistry(opts ...GetTimeOption) *Registry {
	return NewRegistry(map[string]Factory{
		GetTimeName: func() Command { return NewGetTime(opts...) },
		EchoName:    func() Command { return NewEcho() },
	})
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	factory, ok := r.factories[name]

	return factory, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Parse turns a line into a command. The name ends at the first space or tab;
// what follows the whitespace run after it is the argument text. Empty lines and
// unknown names give a Bad command.
func (r *Registry) Parse(line string) Command {
	if line == "" {
		return NewBad(EmptyLine)
	}

	name, rest := line, ""
	if idx := strings.IndexAny(line, separators); idx >= 0 {
		name, rest = line[:idx], line[idx:]
	}

	factory, ok := r.Lookup(name)
	if !ok {
		return NewBad(line)
	}

	cmd := factory()

	if args := strings.TrimLeft(rest, separators); args != "" {
		cmd.SetArguments(args)
	}

	return cmd
}
