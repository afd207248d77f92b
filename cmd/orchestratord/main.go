// Command orchestratord wires the orchestrator core from environment
// variables and blocks until SIGINT/SIGTERM, then drains every live
// session before exiting.
package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskforge/orchestrator/internal/agent"
	"github.com/taskforge/orchestrator/internal/config"
	"github.com/taskforge/orchestrator/internal/llm"
	"github.com/taskforge/orchestrator/internal/llm/openai"
	"github.com/taskforge/orchestrator/internal/mcp"
	"github.com/taskforge/orchestrator/internal/pipeline"
	"github.com/taskforge/orchestrator/internal/pipeline/historystore"
	"github.com/taskforge/orchestrator/internal/sandbox"
	"github.com/taskforge/orchestrator/internal/session"
	"github.com/taskforge/orchestrator/internal/skill"
	"github.com/taskforge/orchestrator/internal/skill/mcpsource"
)

func main() {
	config.LoadEnv()
	cfg := config.FromEnv()

	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║      Orchestrator Core · Go           ║")
	fmt.Println("╚══════════════════════════════════════╝")

	chat, err := newLLMClient(cfg)
	if err != nil {
		log.Fatalf("[LLM] failed to initialize client: %v", err)
	}
	fmt.Printf("🤖 LLM: %s\n", chat.Name())

	registry, err := skill.NewRegistry(cfg.SkillsRoot)
	if err != nil {
		log.Fatalf("[Skill] failed to load registry from %q: %v", cfg.SkillsRoot, err)
	}
	fmt.Printf("🧩 Skills: %d loaded from %s\n", registry.Count(), cfg.SkillsRoot)

	if cfg.MCPConfigPath != "" {
		mergeMCPSkills(registry, cfg.MCPConfigPath)
	}

	sandbox.SetMaxSessions(cfg.MaxSessions)

	factory := agent.NewFactory(chat, registry, cfg.SkillsRoot, cfg.PythonPath, cfg.SandboxWorkspace, cfg.TaskTimeout, 0)
	sessions := session.NewManager(cfg.MaxSessions, cfg.SessionTimeout, factory)
	defer sessions.Shutdown()
	fmt.Printf("💬 Sessions: max=%d timeout=%v\n", cfg.MaxSessions, cfg.SessionTimeout)

	audit := pipeline.NewAuditSink(historystore.NewMemory())
	pl := pipeline.New(sessions, audit)
	pl.Subscribe(pipeline.TopicTaskFailed, pipeline.LogHandler("orchestratord"))
	fmt.Printf("🔧 Task timeout: %v\n", cfg.TaskTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("orchestratord ready, waiting for shutdown signal")
	<-ctx.Done()

	log.Println("shutdown signal received, draining sessions")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	drain(shutdownCtx, sessions)
	log.Println("orchestratord stopped")
}

// mergeMCPSkills loads the MCP server config at path and merges every
// connected server's tools into registry as additional skill manifests.
// A server that fails to connect is logged and skipped — a bad MCP server
// must not prevent the filesystem-discovered skills from loading.
func mergeMCPSkills(registry *skill.Registry, path string) {
	servers, err := mcp.LoadConfig(path)
	if err != nil {
		log.Printf("[Skill] MCP_CONFIG_PATH set but could not be loaded: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for name, cfg := range servers {
		src := mcpsource.New(cfg)
		manifests, err := src.Discover(ctx)
		if err != nil {
			log.Printf("[Skill] MCP server %q: %v", name, err)
			continue
		}
		registry.Merge(manifests)
		fmt.Printf("🔌 MCP: %d skills merged from %q\n", len(manifests), name)
	}
}

// newLLMClient selects the provider variant named by cfg.LLMProvider.
func newLLMClient(cfg *config.Config) (llm.ChatCompleter, error) {
	switch cfg.LLMProvider {
	case "anthropic-like":
		return openai.NewAnthropicLike(cfg.AnthropicAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	case "openai-compatible":
		return openai.NewOpenAICompatible(cfg.OpenAIAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	default:
		return nil, fmt.Errorf("unknown DEFAULT_LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

// drain releases every active session so deferred sandbox cleanup runs
// before the process exits, bounded by ctx.
func drain(ctx context.Context, sessions *session.Manager) {
	for _, id := range sessions.ActiveSessions() {
		select {
		case <-ctx.Done():
			log.Printf("[Session] drain timed out with sessions still active")
			return
		default:
			sessions.Release(id)
		}
	}
}
