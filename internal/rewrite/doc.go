// Package rewrite implements HTTP request sniffing and User-Agent
// normalization on raw byte buffers.
//
// It deliberately avoids a full HTTP parser: classification is an exact
// method-token prefix match, and header location is a byte scan for the
// canonical "User-Agent: " sequence. Any condition that prevents a rewrite
// (header missing, value oversized, whitelisted client) results in the
// original buffer being forwarded unchanged.
package rewrite
