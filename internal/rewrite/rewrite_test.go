package rewrite

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestRewriter(ua string) *Rewriter {
	return New(ua, zerolog.Nop())
}

func TestIsHTTPRequest(t *testing.T) {
	tests := []struct {
		name string
		buf  string
		want bool
	}{
		{name: "get", buf: "GET / HTTP/1.1\r\n", want: true},
		{name: "post", buf: "POST /submit HTTP/1.1\r\n", want: true},
		{name: "put", buf: "PUT /x", want: true},
		{name: "patch", buf: "PATCH /x", want: true},
		{name: "head", buf: "HEAD /x", want: true},
		{name: "delete", buf: "DELETE /x", want: true},
		{name: "trace", buf: "TRACE /x", want: true},
		{name: "options", buf: "OPTIONS *", want: true},
		{name: "connect", buf: "CONNECT host:443", want: true},
		{name: "token_without_space", buf: "GETX/", want: false},
		{name: "lowercase", buf: "get / HTTP/1.1", want: false},
		{name: "tls_client_hello", buf: "\x16\x03\x01\x02\x00", want: false},
		{name: "empty", buf: "", want: false},
		{name: "one_byte", buf: "G", want: false},
		{name: "two_bytes", buf: "GE", want: false},
		{name: "exact_prefix_only", buf: "GET ", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHTTPRequest([]byte(tt.buf)); got != tt.want {
				t.Errorf("IsHTTPRequest(%q) = %v, want %v", tt.buf, got, tt.want)
			}
		})
	}
}

func TestApplyRewritesValue(t *testing.T) {
	r := newTestRewriter("NewUA")

	in := []byte("GET / HTTP/1.1\r\nUser-Agent: OldAgent/1.0\r\nHost: x\r\n\r\n")
	out := r.Apply(in)

	want := "GET / HTTP/1.1\r\nUser-Agent: NewUA\r\nHost: x\r\n\r\n"
	if string(out) != want {
		t.Errorf("Apply = %q, want %q", out, want)
	}
	// Input must be left intact; the rewrite allocates.
	if !bytes.Contains(in, []byte("OldAgent/1.0")) {
		t.Error("input buffer was mutated")
	}
}

func TestApplyLongerAndShorterReplacement(t *testing.T) {
	tests := []struct {
		name string
		ua   string
	}{
		{name: "longer", ua: "A-Considerably-Longer-Agent-String/99.0"},
		{name: "shorter", ua: "x"},
		{name: "same_length", ua: "Agent/2.0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRewriter(tt.ua)
			in := []byte("GET /p HTTP/1.1\r\nUser-Agent: Agent/1.0000\r\nHost: h\r\nAccept: */*\r\n\r\n")
			out := r.Apply(in)

			if !bytes.Contains(out, []byte("User-Agent: "+tt.ua+"\r\n")) {
				t.Errorf("rewritten header missing: %q", out)
			}
			if !bytes.HasPrefix(out, []byte("GET /p HTTP/1.1\r\n")) {
				t.Errorf("bytes before header altered: %q", out)
			}
			if !bytes.HasSuffix(out, []byte("Host: h\r\nAccept: */*\r\n\r\n")) {
				t.Errorf("bytes after header altered: %q", out)
			}
		})
	}
}

func TestApplyWhitelistPassthrough(t *testing.T) {
	r := newTestRewriter("ShouldNotAppear")

	tests := []string{
		"MicroMessenger Client",
		"ByteDancePcdn",
		"Go-http-client/1.1",
		"Bilibili Freedoooooom/MarkII",
		"go-http-client/1.1",    // case-insensitive
		"MICROMESSENGER CLIENT", // case-insensitive
	}

	for _, ua := range tests {
		t.Run(ua, func(t *testing.T) {
			in := []byte("GET / HTTP/1.1\r\nUser-Agent: " + ua + "\r\n\r\n")
			out := r.Apply(in)
			if !bytes.Equal(out, in) {
				t.Errorf("whitelisted value rewritten: %q", out)
			}
		})
	}
}

func TestApplyWhitelistIsWholeValueMatch(t *testing.T) {
	r := newTestRewriter("NewUA")

	// A whitelisted string embedded in a larger value must still rewrite.
	in := []byte("GET / HTTP/1.1\r\nUser-Agent: Go-http-client/1.1 (custom)\r\n\r\n")
	out := r.Apply(in)
	if bytes.Equal(out, in) {
		t.Error("substring match treated as whitelisted")
	}
	if !bytes.Contains(out, []byte("User-Agent: NewUA\r\n")) {
		t.Errorf("expected rewrite, got %q", out)
	}
}

func TestApplyOversizedValueUnchanged(t *testing.T) {
	r := newTestRewriter("NewUA")

	in := []byte("GET / HTTP/1.1\r\nUser-Agent: " + strings.Repeat("a", 1025) + "\r\n\r\n")
	out := r.Apply(in)
	if !bytes.Equal(out, in) {
		t.Error("oversized value was rewritten")
	}
}

func TestApplyMissingHeaderUnchanged(t *testing.T) {
	r := newTestRewriter("NewUA")

	tests := []struct {
		name string
		buf  string
	}{
		{name: "no_header", buf: "GET / HTTP/1.1\r\nHost: x\r\n\r\n"},
		{name: "empty", buf: ""},
		{name: "lowercase_header_name", buf: "GET / HTTP/1.1\r\nuser-agent: x\r\n\r\n"},
		{name: "partial_prefix", buf: "GET / HTTP/1.1\r\nUser-Agent:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []byte(tt.buf)
			out := r.Apply(in)
			if !bytes.Equal(out, in) {
				t.Errorf("buffer changed: %q", out)
			}
		})
	}
}

func TestApplyUnterminatedValueUnchanged(t *testing.T) {
	r := newTestRewriter("NewUA")

	// Truncated read: no '\r' ever arrived after the value. Splicing here
	// would leave the unseen tail of the value to follow the replacement
	// through the relay, so the buffer must pass through untouched.
	in := []byte("GET / HTTP/1.1\r\nUser-Agent: Trunc")
	out := r.Apply(in)
	if !bytes.Equal(out, in) {
		t.Errorf("Apply = %q, want input unchanged", out)
	}
}

func TestHasCompleteValue(t *testing.T) {
	tests := []struct {
		name string
		buf  string
		want bool
	}{
		{name: "complete", buf: "GET /\r\nUser-Agent: x\r\nHost: h\r\n", want: true},
		{name: "no_terminator", buf: "GET /\r\nUser-Agent: partial", want: false},
		{name: "absent", buf: "GET /\r\nHost: h\r\n", want: false},
		{name: "empty", buf: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCompleteValue([]byte(tt.buf)); got != tt.want {
				t.Errorf("HasCompleteValue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEndOfHeaders(t *testing.T) {
	if !EndOfHeaders([]byte("GET /\r\nHost: h\r\n\r\n")) {
		t.Error("terminated header block not detected")
	}
	if EndOfHeaders([]byte("GET /\r\nHost: h\r\n")) {
		t.Error("unterminated header block detected")
	}
}
