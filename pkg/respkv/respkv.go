// Package respkv provides a small public surface for reusing this
// repository as a library. The implementation lives in internal/ and may
// change without notice.
package respkv

import (
	"context"
	"net"

	"respkv/internal/command"
	"respkv/internal/config"
	"respkv/internal/frame"
	"respkv/internal/server"
	"respkv/internal/server/debug"
	"respkv/internal/store"
)

// --- Config ---

type Config = config.Config

// LoadConfig loads the YAML configuration file at path, or returns the
// default configuration when path is empty.
func LoadConfig(path string) (*Config, error) { return config.Load(path) }

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() *Config { return config.Default() }

// --- Wire codec ---

type Frame = frame.Frame

// Decode decodes one frame from the head of buf. See frame.Decode.
func Decode(buf []byte) (Frame, int, error) { return frame.Decode(buf) }

// Encode renders f to its wire bytes. See frame.Encode.
func Encode(f Frame) []byte { return frame.Encode(f) }

// --- Command layer ---

type Command = command.Command

// ParseCommand validates f's shape and builds a Command.
func ParseCommand(f Frame) (Command, error) { return command.Parse(f) }

// --- Store ---

type Store = store.Store

// NewStore builds a sharded concurrent backing store with n shards.
func NewStore(n int) *Store { return store.New(n) }

// ExecuteCommand runs cmd against s and returns the response frame.
func ExecuteCommand(cmd Command, s *Store) Frame { return command.Execute(cmd, s) }

// --- TCP server ---

type Server = server.Server

// NewServer builds a Server backed by a store with n shards.
func NewServer(n int) *Server { return server.New(n) }

// Serve accepts connections on ln until ctx is done.
func Serve(ctx context.Context, srv *Server, ln net.Listener) error {
	return srv.Serve(ctx, ln)
}

// --- Debug HTTP endpoint ---

type DebugServer = debug.Server

// NewDebugServer builds a debug HTTP server reporting st's size.
func NewDebugServer(st *Store) *DebugServer { return debug.NewServer(st) }
