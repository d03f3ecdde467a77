// Package command holds the commands understood by cmdflow and the registry resolving their names.
//
// Commands never fail: malformed input is reported through the string returned by Execute.
package command

// Kind tags the variant of a Command.
type Kind int

const (
	// KindBad is an empty line or an unknown command name.
	KindBad Kind = iota
	// KindTime queries the current time.
	KindTime
	// KindEcho returns its arguments.
	KindEcho
)

func (k Kind) String() string {
	switch k {
	case KindBad:
		return "bad"
	case KindTime:
		return "gettime"
	case KindEcho:
		return "echo"
	default:
		return "unknown"
	}
}

// Command is a parsed input line ready to be executed.
type Command interface {
	Kind() Kind
	// Execute returns the result line of the command.
	Execute() string
	// Arguments returns the argument text and whether it was set.
	Arguments() (string, bool)
	SetArguments(args string)
}

type arguments struct {
	value string
	set   bool
}

func (a *arguments) Arguments() (string, bool) {
	return a.value, a.set
}

func (a *arguments) SetArguments(args string) {
	a.value = args
	a.set = true
}
