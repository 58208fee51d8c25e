package output

import (
	"bytes"
	"encoding/json"

	"github.com/jamesainslie/burrow/pkg/burrow/types"
)

// document is the structured form shared by the json and yaml formatters.
type document struct {
	Path    string  `json:"path" yaml:"path"`
	Scanned bool    `json:"scanned" yaml:"scanned"`
	Entries []Row   `json:"entries" yaml:"entries"`
	Totals  summary `json:"totals" yaml:"totals"`
}

type summary struct {
	Objects   int    `json:"objects" yaml:"objects"`
	Size      int64  `json:"size" yaml:"size"`
	SizeHuman string `json:"size_human" yaml:"size_human"`
	Degraded  int    `json:"degraded" yaml:"degraded"`
}

func newDocument(l *types.Listing) document {
	return document{
		Path:    l.Path,
		Scanned: l.Scanned,
		Entries: Rows(l),
		Totals: summary{
			Objects:   l.TotalObjects,
			Size:      l.TotalSize,
			SizeHuman: types.FormatSize(l.TotalSize),
			Degraded:  l.Degraded(),
		},
	}
}

// JSONFormatter renders the listing as one indented JSON object.
type JSONFormatter struct{}

// Format writes the JSON document to w.
func (f *JSONFormatter) Format(w *bytes.Buffer, l *types.Listing) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(l))
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

var _ Formatter = (*JSONFormatter)(nil)
