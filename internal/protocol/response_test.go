package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, "200 OK", StatusOK.String())
	assert.Equal(t, "404 Not Found", StatusNotFound.String())
	assert.Equal(t, 404, StatusNotFound.Code())
}

func TestResponse_Serialization(t *testing.T) {
	res := NewResponseBuilder().
		WithStatus(StatusOK).
		WithHeader("Content-Length", "5").
		WithHTML("hello").
		Build()

	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello", res.String())

	var buf bytes.Buffer
	n, err := res.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, res.String(), buf.String())
}

func TestResponse_HeaderOrderAndDuplicates(t *testing.T) {
	res := NewResponseBuilder().
		WithStatus(StatusNotFound).
		WithHeader("X-B", "2").
		WithHeader("X-A", "1").
		WithHeader("X-B", "3").
		Build()

	assert.Equal(t, "HTTP/1.1 404 Not Found\r\nX-B: 2\r\nX-A: 1\r\nX-B: 3\r\n\r\n", res.String())
}

func TestResponseBuilder_Defaults(t *testing.T) {
	var b ResponseBuilder
	res := b.Build()

	assert.Equal(t, "HTTP/1.1 200 OK", res.StatusLine)
	assert.Empty(t, res.Headers)
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\n", res.String(), "no automatic headers")
}

func TestResponseBuilder_CustomProto(t *testing.T) {
	b := ResponseBuilder{Proto: "HTTP/1.0", Status: StatusNotFound}
	assert.Equal(t, "HTTP/1.0 404 Not Found", b.Build().StatusLine)
}

func TestResponseBuilder_CopiesDoNotAlias(t *testing.T) {
	base := NewResponseBuilder().WithHeader("X-Base", "1")
	base.Headers = append(make([]HeaderField, 0, 4), base.Headers...)

	a := base.WithHeader("X-A", "a")
	b := base.WithHeader("X-B", "b")

	assert.Equal(t, []HeaderField{{"X-Base", "1"}, {"X-A", "a"}}, a.Headers)
	assert.Equal(t, []HeaderField{{"X-Base", "1"}, {"X-B", "b"}}, b.Headers)
	assert.Len(t, base.Headers, 1)
}

func TestResponseBuilder_SetHeader(t *testing.T) {
	b := NewResponseBuilder().
		WithHeader("Content-Length", "5").
		WithHeader("X-Other", "x")

	replaced := b.SetHeader("Content-Length", "9")
	assert.Equal(t, []HeaderField{{"Content-Length", "9"}, {"X-Other", "x"}}, replaced.Headers)

	v, ok := b.HeaderValue("Content-Length")
	assert.True(t, ok)
	assert.Equal(t, "5", v, "SetHeader must not modify the original")

	appended := b.SetHeader("Content-Encoding", "gzip")
	assert.Len(t, appended.Headers, 3)
	assert.Equal(t, HeaderField{"Content-Encoding", "gzip"}, appended.Headers[2])
}

func TestResponse_BuildIsSnapshot(t *testing.T) {
	b := NewResponseBuilder().WithHeader("X-A", "1")
	res := b.Build()
	b.Headers[0].Value = "changed"

	assert.Equal(t, "1", res.Headers[0].Value)
}
