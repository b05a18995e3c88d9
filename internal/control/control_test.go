package control

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/barkeep/internal/logging"
)

func TestSendRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "keys.sock")
	srv, err := Listen(path, logging.Nop())
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			t.Errorf("failed to close server: %v", err)
		}
	}()

	got := make(chan Command, 1)
	go srv.Serve(func(cmd Command) { got <- cmd })

	if err := Send(path, Command{Password: "toggle"}); err != nil {
		t.Fatalf("failed to send: %v", err)
	}

	select {
	case cmd := <-got:
		if cmd.Password != "toggle" {
			t.Fatalf("unexpected command: %+v", cmd)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for command")
	}
}

func TestMalformedLineIsSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.sock")
	srv, err := Listen(path, logging.Nop())
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			t.Errorf("failed to close server: %v", err)
		}
	}()

	got := make(chan Command, 2)
	go srv.Serve(func(cmd Command) { got <- cmd })

	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	if _, err := conn.Write([]byte("not json\n{\"password\":\"on\"}\n")); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("failed to close conn: %v", err)
	}

	select {
	case cmd := <-got:
		if cmd.Password != "on" {
			t.Fatalf("unexpected command: %+v", cmd)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for command")
	}
}

func TestListenReplacesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.sock")

	// A socket file with no listener behind it is stale and gets replaced.
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("failed to pre-bind: %v", err)
	}
	if err := ln.Close(); err != nil {
		t.Fatalf("failed to close pre-bind: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		// Closing removed the file; recreate a plain stale file.
		f, cerr := os.Create(path)
		if cerr != nil {
			t.Fatalf("failed to create stale file: %v", cerr)
		}
		if cerr := f.Close(); cerr != nil {
			t.Fatalf("failed to close stale file: %v", cerr)
		}
	}

	srv, err := Listen(path, logging.Nop())
	if err != nil {
		t.Fatalf("expected stale socket to be replaced: %v", err)
	}
	if err := srv.Close(); err != nil {
		t.Fatalf("failed to close server: %v", err)
	}
}

func TestListenRefusesLiveSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.sock")
	srv, err := Listen(path, logging.Nop())
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			t.Errorf("failed to close server: %v", err)
		}
	}()

	if _, err := Listen(path, logging.Nop()); err == nil {
		t.Fatalf("expected second listener to be refused")
	}
}

func TestCloseRemovesSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.sock")
	srv, err := Listen(path, logging.Nop())
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	if err := srv.Close(); err != nil {
		t.Fatalf("failed to close server: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected socket file removed, got %v", err)
	}
}

func TestSendWithoutListener(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.sock")
	if err := Send(path, Command{Password: "on"}); err == nil {
		t.Fatalf("expected error without a listener")
	}
}
