package logging

import (
	"fmt"
	"strings"
)

type LogFormat int

const (
	ColorizedOutput LogFormat = iota
	PlaintextOutput
	JSONOutput
)

// ConsoleOutput is the default format.
const ConsoleOutput = ColorizedOutput

func (f LogFormat) String() string {
	switch f {
	case PlaintextOutput:
		return "plain"
	case JSONOutput:
		return "json"
	default:
		return "console"
	}
}

func ParseFormat(text string) (LogFormat, error) {
	switch strings.ToLower(text) {
	case "", "console", "color":
		return ColorizedOutput, nil
	case "plain", "text":
		return PlaintextOutput, nil
	case "json":
		return JSONOutput, nil
	}
	return 0, fmt.Errorf("unknown log format %q", text)
}
