package output

import (
	"encoding/json"
	"io"

	"github.com/validify-dev/validify/internal/model"
)

// JSONFormatter renders a ValidationResult as indented JSON, matching
// the struct tags declared on model.ValidationResult.
type JSONFormatter struct {
	w io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{w: w}
}

func (f *JSONFormatter) Format(result *model.ValidationResult) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
