package protocol

// HTTPVersion is the protocol token of a request or status line.
// Requests keep whatever token the client sent; responses default to HTTP11.
type HTTPVersion string

const (
	HTTP11 HTTPVersion = "HTTP/1.1"
)

// Method is one of the request methods the server understands.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// ParseMethod resolves a request-line token. Matching is case-sensitive,
// so "get" is rejected.
func ParseMethod(token string) (Method, bool) {
	switch m := Method(token); m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return m, true
	default:
		return "", false
	}
}

func (m Method) String() string {
	return string(m)
}
