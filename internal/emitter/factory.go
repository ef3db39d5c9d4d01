package emitter

import (
	"fmt"
	"io"
)

// New returns an emitter for format.
func New(format Format, w io.Writer, sources Sources, opts TextOptions) (Emitter, error) {
	switch format {
	case FormatText, "":
		return NewText(w, sources, opts), nil
	case FormatJSON:
		return NewJSON(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want text or json)", format)
}
