// Package server accepts TCP connections and drives the
// decode -> parse -> execute -> encode cycle against a shared store, one
// goroutine per connection: a small struct wrapping shared dependencies,
// one HandleConn method that owns the whole lifetime of a single
// connection.
package server

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"respkv/internal/command"
	"respkv/internal/frame"
	"respkv/internal/store"
)

// readBufferSize is the chunk size requested from the connection on every
// underfilled read.
const readBufferSize = 4096

// Server dispatches RESP commands against a shared Store over TCP.
type Server struct {
	Store *store.Store

	// AcceptLimiter, when non-nil, gates how fast new connections are
	// accepted so a connection storm cannot starve already-accepted
	// connections of CPU before their first byte is even read.
	AcceptLimiter *rate.Limiter
}

// New builds a Server backed by a new Store with the given number of
// shards.
func New(shards int) *Server {
	return &Server{Store: store.New(shards)}
}

// Serve accepts connections on ln until ctx is done or Accept fails for a
// reason other than the listener being closed by shutdown: accept timeouts
// are skipped silently, any other accept error is logged and returned, and
// each accepted connection gets its own goroutine.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	for {
		if s.AcceptLimiter != nil {
			if err := s.AcceptLimiter.Wait(ctx); err != nil {
				return nil
			}
		}

		c, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			log.Printf("accept: %v", err)
			return err
		}

		go s.HandleConn(ctx, c)
	}
}

// HandleConn owns one connection end to end: it reads and decodes frames,
// parses and executes commands, and writes the responses back, until the
// peer disconnects or a codec error makes the stream untrustworthy.
// Command-level errors (wrong arity, wrong argument shape) are written
// back as SimpleError frames and do not end the connection; only a codec
// error does. An unknown command name is not an error: it is answered
// with +OK.
func (s *Server) HandleConn(ctx context.Context, c net.Conn) {
	defer c.Close()

	id := uuid.NewString()
	log.Printf("conn %s: accepted from %s", id, c.RemoteAddr())

	w := bufio.NewWriter(c)
	buf := make([]byte, 0, readBufferSize)
	chunk := make([]byte, readBufferSize)

	for {
		select {
		case <-ctx.Done():
			log.Printf("conn %s: shutting down", id)
			return
		default:
		}

		f, n, err := frame.Decode(buf)
		if err == nil {
			buf = buf[n:]
			s.dispatch(w, f)
			if err := w.Flush(); err != nil {
				log.Printf("conn %s: write: %v", id, err)
				return
			}
			continue
		}
		if !errors.Is(err, frame.ErrIncomplete) {
			log.Printf("conn %s: codec error: %v", id, err)
			return
		}

		_ = c.SetReadDeadline(time.Now().Add(5 * time.Minute))
		nr, err := c.Read(chunk)
		if nr > 0 {
			buf = append(buf, chunk[:nr]...)
		}
		if err != nil {
			if nr == 0 {
				if !errors.Is(err, net.ErrClosed) {
					log.Printf("conn %s: closed: %v", id, err)
				}
			}
			return
		}
	}
}

func (s *Server) dispatch(w *bufio.Writer, f frame.Frame) {
	cmd, err := command.Parse(f)
	if err != nil {
		w.Write(frame.Encode(frame.SimpleError(err.Error())))
		return
	}
	resp := command.Execute(cmd, s.Store)
	w.Write(frame.Encode(resp))
}
