package command

const (
	// EchoName is the name of the echo command.
	EchoName = "echo"

	echoUsage = "Bad argument. Usage: echo <text>"
)

// Echo returns its arguments verbatim.
type Echo struct {
	arguments
}

func NewEcho() *Echo {
	return &Echo{}
}

func (*Echo) Kind() Kind {
	return KindEcho
}

func (e *Echo) Execute() string {
	if e.value == "" {
		return echoUsage
	}

	return e.value
}

var _ Command = (*Echo)(nil)
