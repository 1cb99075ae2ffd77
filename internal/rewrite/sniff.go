package rewrite

import "bytes"

// methodTokens are the request-line prefixes that identify plaintext HTTP.
// Each includes the trailing space so "GETX" doesn't match.
var methodTokens = [][]byte{
	[]byte("GET "),
	[]byte("POST "),
	[]byte("PUT "),
	[]byte("PATCH "),
	[]byte("HEAD "),
	[]byte("DELETE "),
	[]byte("TRACE "),
	[]byte("OPTIONS "),
	[]byte("CONNECT "),
}

// IsHTTPRequest reports whether buf starts with an HTTP method token
// followed by a space. It never consumes or mutates buf and is safe for
// any input length, including empty.
func IsHTTPRequest(buf []byte) bool {
	for _, m := range methodTokens {
		if bytes.HasPrefix(buf, m) {
			return true
		}
	}
	return false
}

// EndOfHeaders reports whether buf already contains the blank line that
// terminates an HTTP request header block.
func EndOfHeaders(buf []byte) bool {
	return bytes.Contains(buf, crlfcrlf)
}

var crlfcrlf = []byte("\r\n\r\n")
