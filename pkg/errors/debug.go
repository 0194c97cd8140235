package errors

import (
	"errors"
	"fmt"
)

// BackendError is implemented by errors carrying the upstream platform
// API response that produced them.
type BackendError interface {
	error
	HTTPStatus() int
	BackendCode() string
}

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	UpstreamStatus int    `json:"upstream_status,omitempty"`
	UpstreamCode   string `json:"upstream_code,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var backendErr BackendError
	if errors.As(err, &backendErr) {
		d.UpstreamStatus = backendErr.HTTPStatus()
		d.UpstreamCode = backendErr.BackendCode()
	}

	return d
}
