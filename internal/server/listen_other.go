//go:build !unix

package server

import (
	"fmt"
	"net"
	"os"
)

// Listen binds a stream socket at path. The backlog is left to the platform.
func Listen(path string, mode os.FileMode, backlog int) (net.Listener, error) {
	if err := removeStale(path); err != nil {
		return nil, err
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}
	if l, ok := ln.(*net.UnixListener); ok {
		l.SetUnlinkOnClose(false)
	}
	if err := os.Chmod(path, mode); err != nil {
		ln.Close()
		return nil, fmt.Errorf("chmod %s: %w", path, err)
	}
	return &socketListener{Listener: ln, path: path}, nil
}
