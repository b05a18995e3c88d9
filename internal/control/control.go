// Package control exposes a unix-socket command channel for a running
// keystroke display.
package control

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/barkeep/internal/logging"
)

const dialTimeout = time.Second

// Command is one JSON line sent over the control socket.
type Command struct {
	// Password controls keystroke hiding: "on", "off" or "toggle".
	Password string `json:"password,omitempty"`
}

// Server accepts commands on a unix socket.
type Server struct {
	path string
	ln   net.Listener
	log  *logging.Logger
}

// Listen binds the control socket, replacing a stale socket file left by a
// dead process. It refuses to bind when another live instance holds the
// socket.
func Listen(path string, log *logging.Logger) (*Server, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err == nil {
		conn, derr := net.DialTimeout("unix", path, dialTimeout)
		if derr == nil {
			if cerr := conn.Close(); cerr != nil {
				_ = cerr
			}
			return nil, fmt.Errorf("control socket %s already in use", path)
		}
		if rerr := os.Remove(path); rerr != nil {
			return nil, rerr
		}
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	return &Server{path: path, ln: ln, log: log}, nil
}

// Serve accepts connections and invokes handler for every decoded command.
// It returns when the listener is closed. Malformed lines are logged and
// skipped.
func (s *Server) Serve(handler func(Command)) {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn, handler)
	}
}

func (s *Server) handleConn(conn net.Conn, handler func(Command)) {
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			_ = cerr
		}
	}()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd Command
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			s.log.Warn("malformed control command", logging.F("error", err))
			continue
		}
		handler(cmd)
	}
}

// Close shuts the listener down and removes the socket file.
func (s *Server) Close() error {
	err := s.ln.Close()
	if rerr := os.Remove(s.path); rerr != nil && !os.IsNotExist(rerr) && err == nil {
		err = rerr
	}
	return err
}

// Send delivers one command to the instance listening on path.
func Send(path string, cmd Command) error {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return fmt.Errorf("no running instance on %s: %w", path, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			_ = cerr
		}
	}()
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = conn.Write(data)
	return err
}
