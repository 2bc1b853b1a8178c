package docgen

import (
	"github.com/tidwall/gjson"

	"docsite/internal/domain"
)

// Response is the body of a successful POST /generate-docs.
type Response struct {
	Success bool   `json:"success"`
	DocID   string `json:"docId,omitempty"`
	Topic   string `json:"topic"`
	Generation
}

// ErrorBody is the body of a failed POST /generate-docs or /docs-chat.
type ErrorBody struct {
	Error string `json:"error"`
}

// DecodeResponse validates a generate-docs response body at the client boundary.
func DecodeResponse(body []byte) (*Response, error) {
	if !gjson.ValidBytes(body) {
		return nil, &domain.MalformedGenerationError{Reason: "response is not valid JSON"}
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, &domain.MalformedGenerationError{Reason: "response is not a JSON object"}
	}

	gen, err := decodeObject(root)
	if err != nil {
		return nil, err
	}

	return &Response{
		Success:    root.Get("success").Bool(),
		DocID:      root.Get("docId").String(),
		Topic:      root.Get("topic").String(),
		Generation: *gen,
	}, nil
}

// ErrorMessage extracts the "error" member of a failure body, if any.
func ErrorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return gjson.GetBytes(body, "error").String()
}
