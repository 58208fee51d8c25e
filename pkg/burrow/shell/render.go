package shell

import (
	"bytes"
	"strings"

	"github.com/jamesainslie/burrow/pkg/burrow/output"
)

// Render formats the body of r: the listing through f, or else the text.
// Errors and confirmation questions are left to the caller.
func (r Response) Render(f output.Formatter) (string, error) {
	if r.Listing == nil {
		return r.Text, nil
	}

	var buf bytes.Buffer
	if err := f.Format(&buf, r.Listing); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
