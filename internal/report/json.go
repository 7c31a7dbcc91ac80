package report

import (
	"encoding/json"
	"fmt"
	"io"

	"typedrift/internal/verification"
)

// WriteJSON writes one result as an object, or several as an array. The
// output only depends on the results, so identical runs produce identical
// bytes.
func WriteJSON(w io.Writer, results []*verification.VerificationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if len(results) == 1 {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}

// ReadJSON decodes output written by WriteJSON.
func ReadJSON(r io.Reader) ([]*verification.VerificationResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var many []*verification.VerificationResult
	if err := json.Unmarshal(data, &many); err == nil {
		return many, nil
	}

	var one verification.VerificationResult
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return []*verification.VerificationResult{&one}, nil
}
