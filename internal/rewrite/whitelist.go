package rewrite

// defaultWhitelist holds client identifiers that are never rewritten.
// These clients gate functionality on their own User-Agent and would break
// if normalized.
var defaultWhitelist = [][]byte{
	[]byte("MicroMessenger Client"),
	[]byte("ByteDancePcdn"),
	[]byte("Go-http-client/1.1"),
	[]byte("Bilibili Freedoooooom/MarkII"),
}
