package handler

import (
	"bytes"
	"compress/gzip"
	"strconv"
	"strings"

	"github.com/BuxoGabriel/http-server/internal/protocol"
	"github.com/BuxoGabriel/http-server/internal/router"
)

// minSizeForCompression is the minimum size to bother compressing
const minSizeForCompression = 1024 // 1KB

// shouldCompress reports whether a Content-Type is text-like. Responses
// without a Content-Type are the static pages and count as text.
func shouldCompress(contentType string) bool {
	if contentType == "" {
		return true
	}
	compressibleTypes := []string{
		"text/html",
		"text/css",
		"text/javascript",
		"text/plain",
		"text/xml",
		"application/json",
		"application/javascript",
		"application/xml",
		"image/svg+xml",
	}

	// Normalize content type (remove charset and whitespace)
	ct := strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
	for _, compressible := range compressibleTypes {
		if ct == compressible {
			return true
		}
	}
	return false
}

// acceptsGzip parses an Accept-Encoding value such as "gzip, deflate, br".
func acceptsGzip(acceptEncoding string) bool {
	for _, encoding := range strings.Split(strings.ToLower(acceptEncoding), ",") {
		encoding = strings.TrimSpace(encoding)
		if encoding == "gzip" || strings.HasPrefix(encoding, "gzip;") {
			return true
		}
	}
	return false
}

func compressContent(content []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(content); err != nil {
		gz.Close()
		return nil, err
	}
	// Close to flush remaining data
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Compress wraps next and gzips its 200 responses when the client sent
// Accept-Encoding: gzip and the body is at least 1KB. Content-Length, if
// next set one, is rewritten to the compressed size.
func Compress(next router.Middleware) router.Middleware {
	return router.MiddlewareFunc(func(req *protocol.Request, b protocol.ResponseBuilder) protocol.ResponseBuilder {
		b = next.Apply(req, b)

		if b.Status != protocol.StatusOK || b.Body == "" {
			return b
		}
		// Skip if already compressed
		if _, ok := b.HeaderValue("Content-Encoding"); ok {
			return b
		}
		contentType, _ := b.HeaderValue("Content-Type")
		if !shouldCompress(contentType) {
			return b
		}
		b = b.WithHeader("Vary", "Accept-Encoding")
		if !acceptsGzip(req.Headers["Accept-Encoding"]) || len(b.Body) < minSizeForCompression {
			return b
		}

		compressed, err := compressContent([]byte(b.Body))
		if err != nil || len(compressed) >= len(b.Body) {
			if err != nil {
				req.Logger.Warn().Err(err).Msg("gzip failed, sending identity body")
			}
			return b
		}

		if _, ok := b.HeaderValue("Content-Length"); ok {
			b = b.SetHeader("Content-Length", strconv.Itoa(len(compressed)))
		}
		return b.WithHeader("Content-Encoding", "gzip").WithHTML(string(compressed))
	})
}
