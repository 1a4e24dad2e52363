package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// Envelope is the JSON wrapper around every successful response body.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorEnvelope is the JSON wrapper around every error response body.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps response bodies in the success or error envelope.
// Register it with huma.Config.Transformers.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case Envelope, *Envelope, ErrorEnvelope, *ErrorEnvelope:
		return v, nil
	case *APIError:
		return ErrorEnvelope{
			Success: false,
			Error:   body.Message,
			Code:    body.Code,
			Details: body.Details,
		}, nil
	case huma.StatusError:
		return ErrorEnvelope{
			Success: false,
			Error:   body.Error(),
			Code:    statusToCode(body.GetStatus()),
		}, nil
	default:
		return Envelope{Success: true, Data: v}, nil
	}
}
