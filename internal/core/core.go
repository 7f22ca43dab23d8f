// Package core holds small helpers shared across packages.
package core

import (
	"errors"
	"net"
	"os"
	"strconv"
)

// Address joins host and port into a listen address, quoting IPv6 hosts.
func Address(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// FileExists reports whether path names an existing file.
func FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
