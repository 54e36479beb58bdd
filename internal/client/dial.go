package client

import (
	"fmt"
	"net"
)

func dialUnix(sockPath string) (net.Conn, error) {
	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		return nil, fmt.Errorf("connect to wtmux server: %w", err)
	}
	return conn, nil
}
