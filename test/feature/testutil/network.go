package testutil

import (
	"errors"
	"fmt"
	"net"
)

// GetFreePort returns a local tcp port nothing listens on at the moment of
// the call.
func GetFreePort() (string, error) {
	const tries = 3
	var errs []error

	for range tries {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			errs = append(errs, fmt.Errorf("bind free port: %w", err))
			continue
		}
		_, port, err := net.SplitHostPort(listener.Addr().String())
		if cerr := listener.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("close listener: %w", cerr))
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", listener.Addr(), err))
			continue
		}
		return port, nil
	}
	return "", fmt.Errorf("no free port after %d tries: %w", tries, errors.Join(errs...))
}

// UnreachableHost returns a host:port that refuses connections.
func UnreachableHost() (string, error) {
	port, err := GetFreePort()
	if err != nil {
		return "", err
	}
	return net.JoinHostPort("127.0.0.1", port), nil
}
