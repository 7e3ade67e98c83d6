package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// Printer writes command results in the selected format.
type Printer struct {
	Format string
	Writer io.Writer
}

// Print writes v as JSON or YAML, or calls text for the human-readable form.
func (p *Printer) Print(v any, text func(w io.Writer)) error {
	switch p.Format {
	case "json":
		enc := json.NewEncoder(p.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(p.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(p.Writer)
		return nil
	}
}

// Message prints a one-line status message, wrapped as {"message": ...}
// for the structured formats.
func (p *Printer) Message(msg string) error {
	return p.Print(messageView{Message: msg}, func(w io.Writer) {
		fmt.Fprintln(w, msg)
	})
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
