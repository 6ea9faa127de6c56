// Package chainapi holds the ChainDB wire formats shared by the client, the
// in-memory backend and the sandbox server.
package chainapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned when a body is not a recognisable ChainDB document.
var ErrMalformed = errors.New("chainapi: malformed response")

// Envelope is the uniform {success, error_msg, data} wrapper.
type Envelope struct {
	Success  bool            `json:"success"`
	ErrorMsg string          `json:"error_msg"`
	Data     json.RawMessage `json:"data"`
}

// DecodeEnvelope parses body as an Envelope. Bodies without a "success"
// field are rejected.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformed)
	}
	var probe struct {
		Success  *bool           `json:"success"`
		ErrorMsg string          `json:"error_msg"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if probe.Success == nil {
		return nil, fmt.Errorf("%w: missing success flag", ErrMalformed)
	}
	return &Envelope{Success: *probe.Success, ErrorMsg: probe.ErrorMsg, Data: probe.Data}, nil
}

// HasData reports whether the envelope carries a non-null payload.
func (e *Envelope) HasData() bool {
	trimmed := bytes.TrimSpace(e.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// DecodeData unmarshals the payload into out. A null payload leaves out untouched.
func (e *Envelope) DecodeData(out any) error {
	if !e.HasData() {
		return nil
	}
	return json.Unmarshal(e.Data, out)
}

// OK encodes a successful envelope around data.
func OK(data any) ([]byte, error) {
	raw, err := marshal(data)
	if err != nil {
		return nil, err
	}
	return marshal(Envelope{Success: true, Data: raw})
}

// Fail encodes a failed envelope carrying msg.
func Fail(msg string) ([]byte, error) {
	return marshal(Envelope{Success: false, ErrorMsg: msg, Data: json.RawMessage("null")})
}

// UnwrapPayload returns the JSON document held in raw. When raw is a JSON
// string that itself contains JSON (the encoding used by contract writes),
// the inner document is returned; otherwise raw is returned as is. At most
// one layer of string encoding is removed.
func UnwrapPayload(raw json.RawMessage) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil && json.Valid([]byte(s)) {
		return bytes.TrimSpace([]byte(s))
	}
	return append([]byte(nil), trimmed...)
}

func marshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
