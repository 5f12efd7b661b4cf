package catalog

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"product-catalog/internal/apierr"
	"product-catalog/internal/auth"
	"product-catalog/internal/http/response"
	"product-catalog/internal/validation"
)

// Request is the state shared by the stages of one pipeline run.
type Request struct {
	HTTP  *http.Request
	Vars  map[string]string
	Input validation.Input
}

// Response is the terminal result of a pipeline run.
type Response struct {
	Status int
	Body   any
}

// Stage is one step of request handling. Returning (nil, nil) passes control
// to the next stage; a non-nil Response ends the run; a non-nil error skips
// every remaining stage and goes straight to normalization.
type Stage func(req *Request) (*Response, error)

// Pipeline runs its stages in order.
type Pipeline []Stage

func (p Pipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := &Request{HTTP: r, Vars: mux.Vars(r)}
	for _, stage := range p {
		resp, err := stage(req)
		if err != nil {
			response.Error(w, r, err)
			return
		}
		if resp != nil {
			response.JSON(w, resp.Status, resp.Body)
			return
		}
	}
	response.Error(w, r, apierr.Internal(errors.New("pipeline finished without a response")))
}

// Authorize rejects the request before anything else runs.
func Authorize(a auth.Authorizer) Stage {
	return func(req *Request) (*Response, error) {
		return nil, a.Authorize(req.HTTP)
	}
}

// DecodeBody materializes the JSON body into req.Input. Bodies over maxBytes
// are rejected when maxBytes > 0.
func DecodeBody(maxBytes int64) Stage {
	return func(req *Request) (*Response, error) {
		body := req.HTTP.Body
		if body == nil {
			return nil, nil
		}
		if maxBytes > 0 {
			body = http.MaxBytesReader(nil, body, maxBytes)
		}
		in, err := validation.DecodeObject(body)
		if err != nil {
			return nil, apierr.Malformed(err)
		}
		req.Input = in
		return nil, nil
	}
}

// Validate checks req.Input against rules and raises a validation failure
// carrying every violation.
func Validate(rules validation.RuleSet, mode validation.Mode) Stage {
	return func(req *Request) (*Response, error) {
		if violations := validation.Validate(rules, req.Input, mode); len(violations) > 0 {
			return nil, apierr.Validation(violations)
		}
		return nil, nil
	}
}

// OK builds a 200 response.
func OK(body any) *Response {
	return &Response{Status: http.StatusOK, Body: body}
}
