// Copyright (C) 2017 ScyllaDB

package node

// Result is the output of a single item. An item that failed in
// continue-on-fail mode has a single "error" key in JSON.
type Result struct {
	JSON   map[string]interface{} `json:"json"`
	Binary map[string]*BinaryData `json:"binary,omitempty"`
}

// Error returns the error message of a failed item or empty string.
func (r *Result) Error() string {
	if s, ok := r.JSON["error"].(string); ok {
		return s
	}
	return ""
}

// Failed returns true if the result is an error record.
func (r *Result) Failed() bool {
	_, ok := r.JSON["error"]
	return ok
}

func errorResult(err error) *Result {
	return &Result{
		JSON: map[string]interface{}{
			"error": err.Error(),
		},
	}
}
