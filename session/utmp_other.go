//go:build !linux

package session

// Login sessions are only recorded on linux.
var utempterPaths []string
