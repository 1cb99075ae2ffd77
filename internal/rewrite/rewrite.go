package rewrite

import (
	"bytes"

	"github.com/rs/zerolog"
)

// headerPrefix is matched case-sensitively; real clients emit the header
// name canonically.
var headerPrefix = []byte("User-Agent: ")

// maxValueLen bounds the header value we are willing to splice. Anything
// longer is left alone, which also bounds buffer growth on degenerate input.
const maxValueLen = 1024

// Rewriter splices a configured replacement over the User-Agent value of a
// buffered HTTP request. It is immutable after construction and safe for
// concurrent use.
type Rewriter struct {
	replacement []byte
	whitelist   [][]byte
	log         zerolog.Logger
}

func New(userAgent string, logger zerolog.Logger) *Rewriter {
	return &Rewriter{
		replacement: []byte(userAgent),
		whitelist:   defaultWhitelist,
		log:         logger,
	}
}

// HasCompleteValue reports whether buf contains a User-Agent header whose
// value terminator has arrived. Used to decide when assembly reads can stop.
func HasCompleteValue(buf []byte) bool {
	i := bytes.Index(buf, headerPrefix)
	if i < 0 {
		return false
	}
	return bytes.IndexByte(buf[i+len(headerPrefix):], '\r') >= 0
}

// Apply returns buf with the User-Agent value replaced, or buf itself when
// no rewrite happens. The value ends at the first '\r' after the header
// name; when no terminator has arrived (truncated read) the rewrite is
// skipped rather than treating end-of-buffer as the value end, since the
// unseen remainder of the value would still reach the target after a
// splice. The returned slice is freshly allocated on rewrite, so buf is
// never mutated in place.
func (r *Rewriter) Apply(buf []byte) []byte {
	start := bytes.Index(buf, headerPrefix)
	if start < 0 {
		// Expected when the header hasn't arrived in the sniffed bytes.
		return buf
	}
	start += len(headerPrefix)

	i := bytes.IndexByte(buf[start:], '\r')
	if i < 0 {
		r.log.Debug().Msg("user-agent value unterminated, skipping rewrite")
		return buf
	}
	end := start + i
	value := buf[start:end]

	if len(value) > maxValueLen {
		r.log.Warn().Int("len", len(value)).Msg("user-agent value oversized, skipping rewrite")
		return buf
	}
	if r.whitelisted(value) {
		r.log.Debug().Bytes("user_agent", value).Msg("user-agent whitelisted, skipping rewrite")
		return buf
	}

	r.log.Debug().Bytes("from", value).Bytes("to", r.replacement).Msg("rewriting user-agent")

	out := make([]byte, 0, len(buf)-len(value)+len(r.replacement))
	out = append(out, buf[:start]...)
	out = append(out, r.replacement...)
	out = append(out, buf[end:]...)
	return out
}

func (r *Rewriter) whitelisted(value []byte) bool {
	for _, w := range r.whitelist {
		if len(w) == len(value) && bytes.EqualFold(w, value) {
			return true
		}
	}
	return false
}
