// Package flags provides reusable flag types for CLI commands.
package flags

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/getmockd/crudsync/pkg/cli/internal/parse"
)

// Params collects repeatable key=value flags as query parameters.
// It implements pflag.Value.
type Params []string

// String returns the string representation of the flag value.
func (p *Params) String() string {
	return strings.Join(*p, ",")
}

// Set validates and appends one key=value pair.
func (p *Params) Set(value string) error {
	key, _, ok := parse.KeyValue(value, '=')
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("invalid parameter %q: expected key=value", value)
	}
	*p = append(*p, value)
	return nil
}

// Type specifies the type label for Cobra flags.
func (p *Params) Type() string {
	return "key=value"
}

// Values returns the collected pairs. Repeated keys keep every value.
func (p Params) Values() url.Values {
	if len(p) == 0 {
		return nil
	}
	out := make(url.Values, len(p))
	for _, pair := range p {
		key, value, _ := parse.KeyValue(pair, '=')
		out.Add(strings.TrimSpace(key), value)
	}
	return out
}

// Reset clears the collected pairs. Cobra keeps flag values between executions.
func (p *Params) Reset() {
	*p = nil
}
