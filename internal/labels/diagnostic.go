// SPDX-License-Identifier: Apache-2.0

package labels

import "fmt"

type Level string

const (
	LevelInfo Level = "info"
	LevelWarn Level = "warn"
)

// Diagnostic records a tolerated degradation: an input that was missing,
// skipped or substituted. Diagnostics never stop a run.
type Diagnostic struct {
	Level   Level  `json:"level"`
	Source  string `json:"source"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Level, d.Source, d.Message)
}

func Infof(source, format string, args ...any) Diagnostic {
	return Diagnostic{Level: LevelInfo, Source: source, Message: fmt.Sprintf(format, args...)}
}

func Warnf(source, format string, args ...any) Diagnostic {
	return Diagnostic{Level: LevelWarn, Source: source, Message: fmt.Sprintf(format, args...)}
}
