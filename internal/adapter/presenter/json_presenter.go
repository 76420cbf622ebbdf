package presenter

import (
	"encoding/json"
	"io"

	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/failure"
)

// JSONPresenter implements output.Presenter for JSON output
// Formats all output as JSON for programmatic consumption
type JSONPresenter struct {
	output io.Writer
}

// NewJSONPresenter creates a new JSON presenter
func NewJSONPresenter(output io.Writer) output.Presenter {
	return &JSONPresenter{output: output}
}

// PresentSuccess presents a successful result as JSON
func (p *JSONPresenter) PresentSuccess(message string, data interface{}) error {
	result := map[string]interface{}{
		"success": true,
		"message": message,
		"data":    data,
	}
	enc := json.NewEncoder(p.output)
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}

// PresentError presents an error as JSON and returns it
func (p *JSONPresenter) PresentError(err error) error {
	result := map[string]interface{}{
		"success": false,
		"error":   failure.Message(err),
	}
	if kind := failure.KindOf(err); kind != "" {
		result["kind"] = kind
	}
	enc := json.NewEncoder(p.output)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(result)
	return err
}
