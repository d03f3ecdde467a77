package command

import "time"

const (
	// GetTimeName is the name of the time query command.
	GetTimeName = "gettime"
	// ReferenceKeyword asks gettime for the time in the reference zone.
	ReferenceKeyword = "utc"

	getTimeUsage = "Bad argument. Usage: gettime [utc]"
	timeLayout   = time.ANSIC
)

// GetTime returns the current time, either local or in a reference zone.
type GetTime struct {
	arguments
	now       func() time.Time
	local     *time.Location
	reference *time.Location
}

// GetTimeOption configures a GetTime command.
type GetTimeOption func(cmd *GetTime)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) GetTimeOption {
	return func(cmd *GetTime) {
		cmd.now = now
	}
}

// WithLocalZone sets the zone used when no argument is given.
func WithLocalZone(loc *time.Location) GetTimeOption {
	return func(cmd *GetTime) {
		cmd.local = loc
	}
}

// WithReferenceZone sets the zone selected by ReferenceKeyword.
func WithReferenceZone(loc *time.Location) GetTimeOption {
	return func(cmd *GetTime) {
		cmd.reference = loc
	}
}

// NewGetTime creates a time query command. Without options it reads the wall clock,
// reports local time and uses UTC as the reference zone.
func NewGetTime(opts ...GetTimeOption) *GetTime {
	cmd := &GetTime{
		now:       time.Now,
		local:     time.Local,
		reference: time.UTC,
	}

	for _, opt := range opts {
		opt(cmd)
	}

	return cmd
}

func (*GetTime) Kind() Kind {
	return KindTime
}

func (g *GetTime) Execute() string {
	switch g.value {
	case "":
		return g.now().In(g.local).Format(timeLayout)
	case ReferenceKeyword:
		return g.now().In(g.reference).Format(timeLayout)
	default:
		return getTimeUsage
	}
}

var _ Command = (*GetTime)(nil)
