package process

import (
	"fmt"
	"strings"
)

// Arguments is the ordered token list passed to an external program.
type Arguments []string

// Add appends a token unconditionally.
func (a *Arguments) Add(token string) {
	*a = append(*a, token)
}

// AddOptional appends format when cond is true. A format containing a verb
// is rendered with values, e.g. AddOptional("--file=%s", ok, path).
func (a *Arguments) AddOptional(format string, cond bool, values ...any) {
	if !cond {
		return
	}
	if len(values) == 0 {
		a.Add(format)
		return
	}
	a.Add(fmt.Sprintf(format, values...))
}

// String renders the tokens for display only; it does not quote.
func (a Arguments) String() string {
	return strings.Join(a, " ")
}
