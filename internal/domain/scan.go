package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DecodePayload extracts the user id from the raw text of a scanned
// DataMatrix code. The payload is JSON of the form
// {"originId":"2","firstName":"Jules","lastName":"Rabus"}; only originId is
// required. The bib printer emits originId either as a number or a numeric
// string, so both are accepted.
func DecodePayload(raw string) (uint, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	v, ok := fields["originId"]
	if !ok {
		return 0, fmt.Errorf("%w: originId manquant", ErrMalformedPayload)
	}

	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = t
	default:
		return 0, fmt.Errorf("%w: originId invalide", ErrMalformedPayload)
	}

	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: originId invalide (%q)", ErrMalformedPayload, s)
	}
	return uint(id), nil
}
