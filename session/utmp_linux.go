//go:build linux

package session

// Where distributions install libutempter's helper.
var utempterPaths = []string{
	"/usr/lib/x86_64-linux-gnu/utempter/utempter",
	"/usr/lib/aarch64-linux-gnu/utempter/utempter",
	"/usr/libexec/utempter/utempter",
	"/usr/lib/utempter/utempter",
}
