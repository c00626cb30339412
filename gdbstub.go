// gdbstub.go - GDB remote serial protocol framing and accept loop.
//
// Models only the framing boundary described in the original gdb-server.c:
// a TCP listener on a host:port bind string, the $...#cc packet wrapper
// with its mod-256 checksum, and the +/- acknowledgement byte. The
// command/response body carried inside a packet (register reads,
// breakpoint sets, and so on) is an external collaborator's concern,
// reached through PacketHandler.

package main

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// PacketHandler answers one GDB remote command. ok false sends an
// empty "unsupported" reply rather than the handler's reply string.
type PacketHandler func(body string) (reply string, ok bool)

// GDBStub accepts a single GDB client at a time and frames its
// packets, matching the original single-target debug stub.
type GDBStub struct {
	ln      *net.TCPListener
	conn    *net.TCPConn
	reader  *bufio.Reader
	handler PacketHandler
	trace   bool
}

func (g *GDBStub) Trace(on bool) { g.trace = on }

// NewGDBStub binds bind, where a bare "port" or a "0:port" prefix maps
// to INADDR_ANY, matching the original's handling of its -p argument.
func NewGDBStub(bind string, handler PacketHandler) (*GDBStub, error) {
	addr, err := resolveGDBBind(bind)
	if err != nil {
		return nil, fmt.Errorf("gdb stub: %w", err)
	}
	ln, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("gdb stub: %w", err)
	}
	return &GDBStub{ln: ln, handler: handler}, nil
}

func resolveGDBBind(bind string) (*net.TCPAddr, error) {
	host, port, err := net.SplitHostPort(bind)
	if err != nil {
		// A bare port ("1234") carries no colon at all; treat the
		// whole string as the port and bind every interface.
		if _, perr := strconv.Atoi(bind); perr == nil {
			host, port = "", bind
		} else {
			return nil, fmt.Errorf("invalid bind address %q: %w", bind, err)
		}
	}
	if host == "0" {
		host = ""
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", port, err)
	}
	addr := &net.TCPAddr{Port: p}
	if host != "" {
		addr.IP = net.ParseIP(host)
		if addr.IP == nil {
			return nil, fmt.Errorf("invalid host %q", host)
		}
	}
	return addr, nil
}

// Addr reports the listener's bound address, letting callers that
// passed port 0 discover the port the kernel actually chose.
func (g *GDBStub) Addr() net.Addr { return g.ln.Addr() }

func (g *GDBStub) Close() error {
	if g.conn != nil {
		g.conn.Close()
	}
	return g.ln.Close()
}

// PollOnce waits up to timeout for activity on whichever socket is
// live right now - the listener if no client is attached, the client
// connection once one is - and services at most one event.
func (g *GDBStub) PollOnce(timeout time.Duration) error {
	if g.conn == nil {
		return g.pollAccept(timeout)
	}
	return g.pollPacket(timeout)
}

func (g *GDBStub) pollAccept(timeout time.Duration) error {
	raw, err := g.ln.SyscallConn()
	if err != nil {
		return fmt.Errorf("gdb stub: %w", err)
	}
	var ready bool
	var waitErr error
	if err := raw.Control(func(fd uintptr) { ready, waitErr = waitReadable(int(fd), timeout) }); err != nil {
		return fmt.Errorf("gdb stub: %w", err)
	}
	if waitErr != nil || !ready {
		return waitErr
	}

	conn, err := g.ln.Accept()
	if err != nil {
		return fmt.Errorf("gdb stub accept: %w", err)
	}
	g.conn = conn.(*net.TCPConn)
	g.reader = bufio.NewReader(g.conn)
	if g.trace {
		fmt.Fprintf(os.Stderr, "gdbstub: client connected from %s\n", g.conn.RemoteAddr())
	}
	return nil
}

func (g *GDBStub) pollPacket(timeout time.Duration) error {
	raw, err := g.conn.SyscallConn()
	if err != nil {
		return fmt.Errorf("gdb stub: %w", err)
	}
	var ready bool
	var waitErr error
	if err := raw.Control(func(fd uintptr) { ready, waitErr = waitReadable(int(fd), timeout) }); err != nil {
		return fmt.Errorf("gdb stub: %w", err)
	}
	if waitErr != nil || !ready {
		return waitErr
	}

	body, err := g.readPacket()
	if err != nil {
		g.conn.Close()
		g.conn = nil
		g.reader = nil
		return nil // client dropped; the stub stays alive for the next one
	}

	g.conn.Write([]byte{'+'})
	reply, ok := g.handler(body)
	if !ok {
		reply = ""
	}
	_, err = g.conn.Write(encodeGDBPacket(reply))
	return err
}

// waitReadable blocks up to timeout for fd to become readable, the
// select(2)-style poll the original gdb-server.c performs on its
// listening socket before each accept/read.
func waitReadable(fd int, timeout time.Duration) (bool, error) {
	pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(pfd, int(timeout/time.Millisecond))
	if err != nil {
		return false, fmt.Errorf("poll: %w", err)
	}
	return n > 0 && pfd[0].Revents&unix.POLLIN != 0, nil
}

// encodeGDBPacket wraps body in the $...#cc framing with its mod-256
// checksum.
func encodeGDBPacket(body string) []byte {
	return []byte(fmt.Sprintf("$%s#%02x", body, gdbChecksum(body)))
}

func gdbChecksum(body string) byte {
	var sum byte
	for i := 0; i < len(body); i++ {
		sum += body[i]
	}
	return sum
}

// readPacket reads one $...#cc frame, skipping any stray +/- ack bytes
// ahead of the next '$', and verifies its checksum.
func (g *GDBStub) readPacket() (string, error) {
	for {
		b, err := g.reader.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '$' {
			break
		}
	}
	var body strings.Builder
	for {
		b, err := g.reader.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '#' {
			break
		}
		body.WriteByte(b)
	}
	csum := make([]byte, 2)
	if _, err := io.ReadFull(g.reader, csum); err != nil {
		return "", err
	}
	want, err := strconv.ParseUint(string(csum), 16, 8)
	if err != nil {
		return "", fmt.Errorf("gdb stub: bad checksum %q: %w", csum, err)
	}
	if byte(want) != gdbChecksum(body.String()) {
		return "", fmt.Errorf("gdb stub: checksum mismatch for %q", body.String())
	}
	return body.String(), nil
}
