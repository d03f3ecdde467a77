package command

const (
	// EmptyLine stands for an empty input line in the bad command message.
	EmptyLine = "<EMPTY>"

	badPrefix = "Bad command: "
)

// Bad reports a line that could not be resolved to a command.
type Bad struct {
	arguments
}

// NewBad creates a bad command carrying the offending text.
func NewBad(text string) *Bad {
	bad := &Bad{}
	bad.SetArguments(text)

	return bad
}

func (*Bad) Kind() Kind {
	return KindBad
}

func (b *Bad) Execute() string {
	return badPrefix + b.value
}

var _ Command = (*Bad)(nil)
