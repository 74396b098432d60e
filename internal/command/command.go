// Package command turns decoded frames into typed commands, validates their
// shape, and executes them against a store. Parse never touches the store;
// Execute never touches the wire. A command that fails to parse or that
// hits a backend error both resolve to a SimpleError response frame: the
// caller just writes whatever Execute (or a parse failure's own error
// frame) produces and keeps serving the connection.
package command

import (
	"fmt"
	"strings"

	"respkv/internal/frame"
	"respkv/internal/store"
)

// Kind tags the Command sum.
type Kind int

const (
	KindGet Kind = iota
	KindSet
	KindHGet
	KindHSet
	KindHGetAll
	KindPing
	KindEcho
	KindDel
	KindExists
	KindUnrecognized
)

// Command is a parsed, validated request ready to run against a store. As
// with frame.Frame, only the fields relevant to Kind are populated.
type Command struct {
	Kind Kind

	Key    string
	Field  string
	Value  frame.Frame
	Keys   []string // Del, Exists
	Arg    string    // Ping, Echo: optional/required message argument
	HasArg bool
	Sort   bool // HGetAll: whether to sort fields in the reply
}

// Parse validates f's shape against the command it names and builds a
// Command. f must be an Array whose command name, keys, fields and message
// arguments are BulkString tokens (the value argument of SET and HSET may
// be any frame); anything else is a parse error.
func Parse(f frame.Frame) (Command, error) {
	if f.Kind != frame.KindArray {
		return Command{}, fmt.Errorf("ERR Protocol error: expected array, got %s", f.Kind)
	}
	if len(f.Array) == 0 {
		return Command{}, fmt.Errorf("ERR Protocol error: empty command")
	}

	name, ok := tokenString(f.Array[0])
	if !ok {
		return Command{}, fmt.Errorf("ERR Protocol error: invalid command token kind %s", f.Array[0].Kind)
	}
	args := f.Array[1:]

	switch strings.ToUpper(name) {
	case "GET":
		if len(args) != 1 {
			return Command{}, wrongArity("get")
		}
		key, ok := tokenString(args[0])
		if !ok {
			return Command{}, fmt.Errorf("ERR Protocol error: invalid command token kind %s", args[0].Kind)
		}
		return Command{Kind: KindGet, Key: key}, nil

	case "SET":
		if len(args) != 2 {
			return Command{}, wrongArity("set")
		}
		key, ok := tokenString(args[0])
		if !ok {
			return Command{}, fmt.Errorf("ERR Protocol error: invalid command token kind %s", args[0].Kind)
		}
		return Command{Kind: KindSet, Key: key, Value: args[1]}, nil

	case "HGET":
		if len(args) != 2 {
			return Command{}, wrongArity("hget")
		}
		key, ok := tokenString(args[0])
		if !ok {
			return Command{}, fmt.Errorf("ERR Protocol error: invalid command token kind %s", args[0].Kind)
		}
		field, ok := tokenString(args[1])
		if !ok {
			return Command{}, fmt.Errorf("ERR Protocol error: invalid command token kind %s", args[1].Kind)
		}
		return Command{Kind: KindHGet, Key: key, Field: field}, nil

	case "HSET":
		if len(args) != 3 {
			return Command{}, wrongArity("hset")
		}
		key, ok := tokenString(args[0])
		if !ok {
			return Command{}, fmt.Errorf("ERR Protocol error: invalid command token kind %s", args[0].Kind)
		}
		field, ok := tokenString(args[1])
		if !ok {
			return Command{}, fmt.Errorf("ERR Protocol error: invalid command token kind %s", args[1].Kind)
		}
		return Command{Kind: KindHSet, Key: key, Field: field, Value: args[2]}, nil

	case "HGETALL":
		if len(args) != 1 {
			return Command{}, wrongArity("hgetall")
		}
		key, ok := tokenString(args[0])
		if !ok {
			return Command{}, fmt.Errorf("ERR Protocol error: invalid command token kind %s", args[0].Kind)
		}
		return Command{Kind: KindHGetAll, Key: key, Sort: true}, nil

	case "PING":
		if len(args) == 0 {
			return Command{Kind: KindPing}, nil
		}
		if len(args) == 1 {
			arg, ok := tokenString(args[0])
			if !ok {
				return Command{}, fmt.Errorf("ERR Protocol error: invalid command token kind %s", args[0].Kind)
			}
			return Command{Kind: KindPing, Arg: arg, HasArg: true}, nil
		}
		return Command{}, wrongArity("ping")

	case "ECHO":
		if len(args) != 1 {
			return Command{}, wrongArity("echo")
		}
		arg, ok := tokenString(args[0])
		if !ok {
			return Command{}, fmt.Errorf("ERR Protocol error: invalid command token kind %s", args[0].Kind)
		}
		return Command{Kind: KindEcho, Arg: arg}, nil

	case "DEL":
		if len(args) < 1 {
			return Command{}, wrongArity("del")
		}
		keys, err := tokenStrings(args)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindDel, Keys: keys}, nil

	case "EXISTS":
		if len(args) < 1 {
			return Command{}, wrongArity("exists")
		}
		keys, err := tokenStrings(args)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindExists, Keys: keys}, nil

	default:
		return Command{Kind: KindUnrecognized, Arg: name}, nil
	}
}

func tokenString(f frame.Frame) (string, bool) {
	switch f.Kind {
	case frame.KindBulkString:
		return string(f.Bulk), true
	default:
		return "", false
	}
}

func tokenStrings(fs []frame.Frame) ([]string, error) {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		s, ok := tokenString(f)
		if !ok {
			return nil, fmt.Errorf("ERR Protocol error: invalid command token kind %s", f.Kind)
		}
		out = append(out, s)
	}
	return out, nil
}

func wrongArity(name string) error {
	return fmt.Errorf("ERR wrong number of arguments for '%s' command", name)
}

// Execute runs cmd against s and returns the response frame. Execute never
// returns an error: any condition that would be an error is itself encoded
// as a SimpleError frame.
func Execute(cmd Command, s *store.Store) frame.Frame {
	switch cmd.Kind {
	case KindGet:
		v, ok := s.Get(cmd.Key)
		if !ok {
			return frame.Null()
		}
		return v

	case KindSet:
		s.Set(cmd.Key, cmd.Value)
		return frame.OK

	case KindHGet:
		v, ok := s.HGet(cmd.Key, cmd.Field)
		if !ok {
			return frame.Null()
		}
		return v

	case KindHSet:
		s.HSet(cmd.Key, cmd.Field, cmd.Value)
		return frame.OK

	case KindHGetAll:
		entries, ok := s.HGetAll(cmd.Key, cmd.Sort)
		if !ok {
			return frame.Null()
		}
		items := make([]frame.Frame, 0, len(entries)*2)
		for _, e := range entries {
			items = append(items, frame.BulkString([]byte(e.Field)), e.Value)
		}
		return frame.Array(items)

	case KindPing:
		if cmd.HasArg {
			return frame.BulkString([]byte(cmd.Arg))
		}
		return frame.SimpleString("PONG")

	case KindEcho:
		return frame.BulkString([]byte(cmd.Arg))

	case KindDel:
		var n int64
		for _, k := range cmd.Keys {
			if s.Del(k) {
				n++
			}
		}
		return frame.Integer(n)

	case KindExists:
		var n int64
		for _, k := range cmd.Keys {
			if s.Exists(k) {
				n++
			}
		}
		return frame.Integer(n)

	case KindUnrecognized:
		return frame.OK

	default:
		return frame.SimpleError("ERR internal error: unhandled command kind")
	}
}
