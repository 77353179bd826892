// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"encoding/json"
	"io"

	"github.com/invopop/jsonschema"

	"github.com/fedigrab-cli/fedigrab/extract"
)

// Record is the per-URL output: the extraction result, or the error that
// made this URL fail while the batch kept going.
type Record struct {
	// URL is the input reference as given.
	URL string `json:"url"`
	// Result is present for successful extractions.
	Result *extract.Result `json:"result,omitempty"`
	// Error is the failure message when Result is absent.
	Error string `json:"error,omitempty"`
}

type Output struct {
	Records []*Record `json:"records"`
}

func writeJson(out io.Writer, records []*Record) error {
	if records == nil {
		records = []*Record{}
	}
	return json.NewEncoder(out).Encode(&Output{Records: records})
}

// writeSchema emits the JSON Schema of the Output document, for consumers
// wiring this tool into a pipeline.
func writeSchema(out io.Writer) error {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true

	return json.NewEncoder(out).Encode(reflector.Reflect(&Output{}))
}
