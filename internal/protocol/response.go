package protocol

import (
	"fmt"
	"io"
	"strings"
)

// Status is the closed set of response statuses the server can produce.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
)

// Code returns the numeric status code.
func (s Status) Code() int {
	switch s {
	case StatusNotFound:
		return 404
	default:
		return 200
	}
}

// Reason returns the reason phrase sent after the code.
func (s Status) Reason() string {
	switch s {
	case StatusNotFound:
		return "Not Found"
	default:
		return "OK"
	}
}

// String returns "<code> <reason>", e.g. "404 Not Found".
func (s Status) String() string {
	return fmt.Sprintf("%d %s", s.Code(), s.Reason())
}

// HeaderField is one response header line.
type HeaderField struct {
	Name  string
	Value string
}

// ResponseBuilder is an in-progress response. The zero value is usable;
// Build fills in the defaults:
//
//   - Proto: "" becomes HTTP11
//   - Status: the zero value is StatusOK
//   - Headers: nil means no header lines
//   - Body: "" means an empty body
//
// The With* methods return a modified copy and never write into the
// receiver's header slice, so a builder can be handed down a middleware
// chain by value.
type ResponseBuilder struct {
	Proto   HTTPVersion
	Status  Status
	Headers []HeaderField
	Body    string
}

// NewResponseBuilder returns the builder every request starts from.
func NewResponseBuilder() ResponseBuilder {
	return ResponseBuilder{Proto: HTTP11, Status: StatusOK}
}

func (b ResponseBuilder) WithStatus(s Status) ResponseBuilder {
	b.Status = s
	return b
}

// WithHeader appends a header line. Duplicate names are kept.
func (b ResponseBuilder) WithHeader(name, value string) ResponseBuilder {
	headers := make([]HeaderField, len(b.Headers), len(b.Headers)+1)
	copy(headers, b.Headers)
	b.Headers = append(headers, HeaderField{Name: name, Value: value})
	return b
}

// SetHeader replaces the value of every header named name, or appends one
// if there is none.
func (b ResponseBuilder) SetHeader(name, value string) ResponseBuilder {
	found := false
	headers := make([]HeaderField, len(b.Headers))
	for i, h := range b.Headers {
		if h.Name == name {
			h.Value = value
			found = true
		}
		headers[i] = h
	}
	b.Headers = headers
	if !found {
		return b.WithHeader(name, value)
	}
	return b
}

// WithHTML sets the body.
func (b ResponseBuilder) WithHTML(body string) ResponseBuilder {
	b.Body = body
	return b
}

// HeaderValue returns the first value registered for name.
func (b ResponseBuilder) HeaderValue(name string) (string, bool) {
	for _, h := range b.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}

// Build finalizes the builder into a Response.
func (b ResponseBuilder) Build() *Response {
	proto := b.Proto
	if proto == "" {
		proto = HTTP11
	}
	headers := make([]HeaderField, len(b.Headers))
	copy(headers, b.Headers)
	return &Response{
		StatusLine: fmt.Sprintf("%s %s", proto, b.Status),
		Headers:    headers,
		Body:       b.Body,
	}
}

// Response is a finished response, ready to be written once.
type Response struct {
	StatusLine string
	Headers    []HeaderField
	Body       string
}

// String returns the exact wire form: status line, headers in
// registration order, a blank line and the body with nothing appended.
func (r *Response) String() string {
	var sb strings.Builder
	sb.WriteString(r.StatusLine)
	sb.WriteString("\r\n")
	for _, h := range r.Headers {
		sb.WriteString(h.Name)
		sb.WriteString(": ")
		sb.WriteString(h.Value)
		sb.WriteString("\r\n")
	}
	sb.WriteString("\r\n")
	sb.WriteString(r.Body)
	return sb.String()
}

// WriteTo writes the whole response with a single Write call.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}
