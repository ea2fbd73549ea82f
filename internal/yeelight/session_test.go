package yeelight

import (
	"context"
	"io"
	"net"
	"testing"
	"time"
)

func TestSessionSend(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		b, _ := io.ReadAll(conn)
		received <- b
	}()

	addr := ln.Addr().(*net.TCPAddr)
	s := NewSession(addr.IP.String(), addr.Port, 0, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload := []byte(`{"id":0,"method":"bg_set_bright","params":[100,"smooth",500]}` + "\r\n")
	n, err := s.Send(ctx, payload)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(payload) {
		t.Errorf("expected %d bytes written, got %d", len(payload), n)
	}

	select {
	case got := <-received:
		if string(got) != string(payload) {
			t.Errorf("fixture received %q, want %q", got, payload)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("fixture never received the payload")
	}
}

func TestSessionSendConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	s := NewSession(addr.IP.String(), addr.Port, time.Second, time.Second)

	n, err := s.Send(context.Background(), []byte("unreachable\r\n"))
	if err == nil {
		t.Fatal("expected connection error, got nil")
	}
	if n != 0 {
		t.Errorf("expected 0 bytes written, got %d", n)
	}
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession("192.0.2.1", 0, 0, 0)
	if want := "192.0.2.1:55443"; s.Addr() != want {
		t.Errorf("expected addr %s, got %s", want, s.Addr())
	}
	if s.dialTimeout != DefaultDialTimeout {
		t.Errorf("expected default dial timeout, got %s", s.dialTimeout)
	}
	if s.writeTimeout != DefaultWriteTimeout {
		t.Errorf("expected default write timeout, got %s", s.writeTimeout)
	}
}
