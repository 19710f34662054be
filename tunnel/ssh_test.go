package tunnel

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/ssh"

	ncerr "stickman/internal/errors"
	"stickman/util"
)

// startGateway runs a minimal SSH server on loopback that accepts the
// password "secret" and forwards direct-tcpip channels.
func startGateway(t *testing.T) (host string, port int) {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatal(err)
	}
	cfg := &ssh.ServerConfig{
		PasswordCallback: func(_ ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if string(pass) == "secret" {
				return nil, nil
			}
			return nil, errors.New("denied")
		},
	}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go serveGateway(c, cfg)
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", addr.Port
}

func serveGateway(c net.Conn, cfg *ssh.ServerConfig) {
	_, chans, reqs, err := ssh.NewServerConn(c, cfg)
	if err != nil {
		c.Close()
		return
	}
	go ssh.DiscardRequests(reqs)

	for nc := range chans {
		if nc.ChannelType() != "direct-tcpip" {
			nc.Reject(ssh.UnknownChannelType, "unsupported")
			continue
		}
		var req struct {
			Host     string
			Port     uint32
			OrigHost string
			OrigPort uint32
		}
		if err := ssh.Unmarshal(nc.ExtraData(), &req); err != nil {
			nc.Reject(ssh.Prohibited, "bad payload")
			continue
		}
		target, err := net.Dial("tcp", net.JoinHostPort(req.Host, strconv.Itoa(int(req.Port))))
		if err != nil {
			nc.Reject(ssh.ConnectionFailed, err.Error())
			continue
		}
		ch, chReqs, err := nc.Accept()
		if err != nil {
			target.Close()
			continue
		}
		go ssh.DiscardRequests(chReqs)
		go pipe(ch, target.(*net.TCPConn))
	}
}

func pipe(ch ssh.Channel, target *net.TCPConn) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		io.Copy(target, ch)
		target.CloseWrite()
	}()
	go func() {
		defer wg.Done()
		io.Copy(ch, target)
		ch.CloseWrite()
	}()
	wg.Wait()
	ch.Close()
	target.Close()
}

func connectTunnel(t *testing.T) *SSHTunnel {
	t.Helper()
	host, port := startGateway(t)

	tun := NewSSHTunnel(&SSHConfig{
		User:        "match",
		Host:        host,
		Port:        port,
		PromptPass:  true,
		ConnTimeout: 5 * time.Second,
		Prompt:      func(string) ([]byte, error) { return []byte("secret"), nil },
	}, util.NewLogger(0))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tun.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { tun.Close() })
	return tun
}

func TestSSHTunnel_DialForwardsMessage(t *testing.T) {
	tun := connectTunnel(t)

	// Peer that answers every message with its own name.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		io.ReadAll(c)
		c.Write([]byte("bob"))
	}()

	conn, err := tun.Dial(context.Background(), "tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	conn.Write([]byte("alice"))
	if err := util.CloseWrite(conn); err != nil {
		t.Fatalf("CloseWrite: %v", err)
	}
	reply, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if string(reply) != "bob" {
		t.Errorf("reply = %q, want %q", reply, "bob")
	}
}

func TestSSHTunnel_DialRefusedIsClassified(t *testing.T) {
	tun := connectTunnel(t)

	port, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	_, err = tun.Dial(context.Background(), "tcp", util.FormatAddr("127.0.0.1", port))
	if !errors.Is(err, ncerr.ErrConnectionRefused) {
		t.Fatalf("err = %v, want ErrConnectionRefused", err)
	}
	if !ncerr.IsRetryable(err) {
		t.Error("refused tunnel dial should be retryable")
	}
}

func TestSSHTunnel_WrongPassword(t *testing.T) {
	host, port := startGateway(t)
	tun := NewSSHTunnel(&SSHConfig{
		User:       "match",
		Host:       host,
		Port:       port,
		PromptPass: true,
		Prompt:     func(string) ([]byte, error) { return []byte("guess"), nil },
	}, util.NewLogger(0))

	err := tun.Connect(context.Background())
	var sshErr *ncerr.SSHError
	if !errors.As(err, &sshErr) {
		t.Fatalf("err = %v, want SSHError", err)
	}
	if sshErr.Op != "handshake" {
		t.Errorf("op = %q, want handshake", sshErr.Op)
	}
	if tun.IsAlive() {
		t.Error("tunnel should not be alive after failed auth")
	}
}

func TestSSHTunnel_DialBeforeConnect(t *testing.T) {
	tun := NewSSHTunnel(&SSHConfig{Host: "127.0.0.1"}, util.NewLogger(0))
	if tun.config.Port != 22 {
		t.Errorf("default port = %d, want 22", tun.config.Port)
	}
	_, err := tun.Dial(context.Background(), "tcp", "127.0.0.1:7777")
	if !errors.Is(err, ncerr.ErrNotConnected) {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}
}

func TestSSHTunnel_CloseMarksDead(t *testing.T) {
	tun := connectTunnel(t)
	if !tun.IsAlive() {
		t.Fatal("tunnel should be alive after Connect")
	}
	if err := tun.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if tun.IsAlive() {
		t.Error("tunnel should be dead after Close")
	}
}
