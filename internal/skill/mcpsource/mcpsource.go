// Package mcpsource discovers skill manifests from a live MCP server
// instead of the filesystem, so a "hybrid" skill can delegate execution to
// an MCP tool rather than a sandboxed script. It is an optional, secondary
// source for the Skill Registry — the filesystem loader (skill.ScanDir)
// remains the primary one.
package mcpsource

import (
	"context"
	"fmt"
	"log"

	"github.com/taskforge/orchestrator/internal/mcp"
	"github.com/taskforge/orchestrator/internal/skill"
)

// Source connects to a single MCP server and translates its tool listing
// into skill.Manifest values, tagged "mcp" and typed "hybrid" so callers
// can distinguish them from filesystem-discovered skills.
type Source struct {
	name   string
	client *mcp.Client
}

// New creates an unconnected Source for the named server config.
func New(cfg mcp.ServerConfig) *Source {
	return &Source{name: cfg.Name, client: mcp.NewClient(cfg)}
}

// Discover connects to the server, lists its tools, and returns one
// manifest per tool. A tool with no description gets the same templated
// placeholder the filesystem loader uses. Discover leaves the connection
// open; callers that also want to invoke tools can reuse the same Source,
// otherwise call Close.
func (s *Source) Discover(ctx context.Context) ([]*skill.Manifest, error) {
	if err := s.client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("mcpsource: connect %q: %w", s.name, err)
	}

	tools, err := s.client.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("mcpsource: list tools %q: %w", s.name, err)
	}

	manifests := make([]*skill.Manifest, 0, len(tools))
	for _, t := range tools {
		desc := t.Description
		if desc == "" {
			desc = fmt.Sprintf("%s skill (no description provided)", t.Name)
			log.Printf("[Skill] mcp server %q tool %q has no description", s.name, t.Name)
		}
		manifests = append(manifests, &skill.Manifest{
			Name:        t.Name,
			Description: desc,
			Tags:        []string{"mcp", s.name},
			Type:        "hybrid",
			Dir:         "mcp://" + s.name,
		})
	}
	return manifests, nil
}

// Close releases the underlying MCP connection, if any.
func (s *Source) Close() error {
	return s.client.Close()
}
