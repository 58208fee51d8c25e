package output

import (
	"bytes"

	"github.com/jamesainslie/burrow/pkg/burrow/types"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter renders the same document as JSONFormatter in YAML.
type YAMLFormatter struct{}

// Format writes the YAML document to w.
func (f *YAMLFormatter) Format(w *bytes.Buffer, l *types.Listing) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(l)); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

var _ Formatter = (*YAMLFormatter)(nil)
