package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Request is a parsed HTTP/1.1 request. It is not modified once it has been
// handed to the middleware chain.
type Request struct {
	Method  Method
	Path    string
	Version HTTPVersion
	// Headers holds one value per name. Names are kept exactly as sent and
	// a repeated name overwrites the earlier value.
	Headers map[string]string
	// Body is only meaningful when HasBody is set, which happens iff a
	// well-formed Content-Length header was present and fully read.
	Body    string
	HasBody bool

	RemoteAddr net.Addr
	Logger     zerolog.Logger
}

// NewRequest returns a bodiless HTTP/1.1 request for path.
func NewRequest(method Method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Version: HTTP11,
		Headers: make(map[string]string),
		Logger:  zerolog.Nop(),
	}
}

// Header returns the value of the header with exactly this name.
func (r *Request) Header(name string) (string, bool) {
	v, ok := r.Headers[name]
	return v, ok
}

// String renders the request in wire form with headers sorted by name.
func (r *Request) String() string {
	names := make([]string, 0, len(r.Headers))
	for name := range r.Headers {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s\r\n", r.Method, r.Path, r.Version)
	for _, name := range names {
		fmt.Fprintf(&sb, "%s: %s\r\n", name, r.Headers[name])
	}
	sb.WriteString("\r\n")
	sb.WriteString(r.Body)
	return sb.String()
}

// Parser reads requests off a connection.
type Parser struct {
	// MaxBodyBytes rejects requests whose Content-Length exceeds it.
	// Zero means no limit.
	MaxBodyBytes int
}

// ParseRequest parses a single request from r without a body limit.
func ParseRequest(r io.Reader) (*Request, error) {
	return (&Parser{}).Parse(r)
}

// Parse reads the request line, the header block and, when Content-Length
// is present, exactly that many body bytes. Any failure aborts the parse.
func (p *Parser) Parse(r io.Reader) (*Request, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRequestLine, err)
	}
	tokens := strings.Split(strings.TrimSpace(line), " ")
	if len(tokens) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequestLine, strings.TrimSpace(line))
	}
	method, ok := ParseMethod(tokens[0])
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, tokens[0])
	}

	req := &Request{
		Method:  method,
		Path:    tokens[1],
		Version: HTTPVersion(tokens[2]),
		Logger:  zerolog.Nop(),
	}

	req.Headers, err = readHeaders(br)
	if err != nil {
		return nil, err
	}

	cl, ok := req.Headers["Content-Length"]
	if !ok {
		return req, nil
	}
	n, err := strconv.Atoi(cl)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadContentLength, cl)
	}
	if p.MaxBodyBytes > 0 && n > p.MaxBodyBytes {
		return nil, fmt.Errorf("%w: %d > %d", ErrBodyTooLarge, n, p.MaxBodyBytes)
	}
	// The buffer grows with the bytes actually received, not with the
	// declared length.
	var body bytes.Buffer
	if _, err := io.CopyN(&body, br, int64(n)); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: %w", ErrShortBody, err)
	}
	req.Body = strings.ToValidUTF8(body.String(), "\uFFFD")
	req.HasBody = true
	return req, nil
}

// readHeaders consumes lines up to the blank terminator or end of stream.
// Lines without a ": " separator are skipped.
func readHeaders(br *bufio.Reader) (map[string]string, error) {
	headers := make(map[string]string)
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrHeaderRead, err)
		}
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if line == "" {
			return headers, nil
		}
		if name, value, ok := strings.Cut(line, ": "); ok {
			headers[name] = value
		}
		if err != nil {
			return headers, nil
		}
	}
}
