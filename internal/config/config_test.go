package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingPathReturnsDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Listen.Addr != DefaultListenAddr {
		t.Fatalf("Listen.Addr = %q, want %q", c.Listen.Addr, DefaultListenAddr)
	}
	if c.Store.Shards != DefaultShards {
		t.Fatalf("Store.Shards = %d, want %d", c.Store.Shards, DefaultShards)
	}
}

func TestLoadAppliesDefaultsOverPartialYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("listen:\n  addr: 127.0.0.1:9999\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Listen.Addr != "127.0.0.1:9999" {
		t.Fatalf("Listen.Addr = %q", c.Listen.Addr)
	}
	if c.Store.Shards != DefaultShards {
		t.Fatalf("Store.Shards = %d, want default %d", c.Store.Shards, DefaultShards)
	}
}

func TestValidateCombinesErrors(t *testing.T) {
	c := &Config{}
	c.Store.Shards = -1
	c.Accept.RatePerSecond = -1
	err := c.Validate()
	if err == nil {
		t.Fatalf("Validate returned nil, want combined error")
	}
	msg := err.Error()
	if !contains(msg, "listen.addr") || !contains(msg, "store.shards") || !contains(msg, "rate_per_second") {
		t.Fatalf("combined error missing expected messages: %s", msg)
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
