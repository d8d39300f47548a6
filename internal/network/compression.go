// File: internal/network/compression.go
package network

import (
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
)

// acceptEncoding is sent on body-bearing requests. The transport's automatic
// gzip handling is disabled so this layer owns negotiation and decoding.
const acceptEncoding = "gzip, deflate, br"

// decodeBody wraps the raw response body in the decompressor matching its
// Content-Encoding. Identity and unknown encodings pass through untouched;
// a server that lies about its encoding surfaces as a read error upstream.
func decodeBody(body io.Reader, contentEncoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "", "identity":
		return body, nil
	case "gzip":
		zr, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("gzip response: %w", err)
		}
		return zr, nil
	case "deflate":
		return flate.NewReader(body), nil
	case "br":
		return brotli.NewReader(body), nil
	default:
		return body, nil
	}
}
