package mcpsource

import (
	"context"
	"testing"

	"github.com/taskforge/orchestrator/internal/mcp"
)

func TestDiscover_UnknownTransportFails(t *testing.T) {
	src := New(mcp.ServerConfig{Name: "bogus", Transport: "carrier-pigeon"})
	_, err := src.Discover(context.Background())
	if err == nil {
		t.Error("expected error discovering from an unreachable server config")
	}
}

func TestClose_WhenNeverConnected(t *testing.T) {
	src := New(mcp.ServerConfig{Name: "x", Transport: "stdio"})
	if err := src.Close(); err != nil {
		t.Errorf("unexpected error closing unconnected source: %v", err)
	}
}
