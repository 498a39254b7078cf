package api

import (
	"bytes"
	"encoding/json"
)

// Envelope is the {code, msg, data} wrapper every backend response is
// expected to use. code == 0 means success; any other code is a domain
// failure whose msg should be surfaced to the user.
type Envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg,omitempty"`
	Data json.RawMessage `json:"data"`
}

// Unwrap decodes a raw response body. Payloads that are valid JSON but lack
// the code/data shape are returned whole (compatibility mode): some backend
// builds respond with the bare resource instead of the envelope.
func Unwrap(body []byte) (json.RawMessage, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, malformed(nil)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		// Not a JSON object. Arrays and scalars are still valid JSON and
		// pass through as-is; anything unparsable is malformed.
		if json.Valid(body) {
			return json.RawMessage(body), nil
		}
		return nil, malformed(err)
	}

	_, hasCode := probe["code"]
	_, hasData := probe["data"]
	if !hasCode || !hasData {
		return json.RawMessage(body), nil
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, malformed(err)
	}
	if env.Code != 0 {
		return nil, rejected(env.Code, env.Msg)
	}
	return env.Data, nil
}
