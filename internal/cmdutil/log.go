// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"
)

// Warnf prints one warning line to dst unless quiet is set.
func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}

// WarnFunc binds Warnf to a destination and quiet setting, for handing
// to packages that take a plain warn callback.
func WarnFunc(dst io.Writer, quiet bool) func(string, ...any) {
	return func(format string, a ...any) { Warnf(dst, quiet, format, a...) }
}
