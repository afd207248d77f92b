package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config is the immutable, process-wide configuration for the orchestrator
// core, parsed once from environment variables at startup (spec.md §6).
type Config struct {
	SessionTimeout time.Duration // SESSION_TIMEOUT (ms), default 1_800_000
	MaxSessions    int           // MAX_SESSIONS, default 1000
	TaskTimeout    time.Duration // TASK_TIMEOUT (ms), default 60_000
	MaxIterations  int           // MAX_ITERATIONS, reserved/informational

	LLMProvider string // DEFAULT_LLM_PROVIDER: "anthropic-like" | "openai-compatible"
	LLMModel    string // DEFAULT_LLM_MODEL
	LLMBaseURL  string // LLM_BASE_URL override

	AnthropicAPIKey string // ANTHROPIC_API_KEY
	OpenAIAPIKey    string // OPENAI_API_KEY

	PythonPath       string // PYTHON_PATH, default "python3"
	SandboxWorkspace string // SANDBOX_WORKSPACE, default os.TempDir()/orchestrator-sandbox
	SkillsRoot       string // SKILLS_ROOT, default "./skills"
	DevelopmentMode  bool   // DEV_MODE — gates stack trace inclusion in error text (spec.md §7)

	// MCPConfigPath, if set, points at an mcp.json describing MCP servers
	// whose tools are merged into the Skill Registry as an additional,
	// secondary manifest source (SPEC_FULL.md §3's domain-stack wiring for
	// mcp-go). Empty means filesystem discovery only.
	MCPConfigPath string // MCP_CONFIG_PATH
}

// FromEnv parses Config from the process environment. Invalid numeric values
// fall back to their default with a logged warning rather than failing
// startup — matching internal/agent/state.go's loadMaxSteps convention in
// the teacher repo.
func FromEnv() *Config {
	workspace := os.Getenv("SANDBOX_WORKSPACE")
	if workspace == "" {
		workspace = os.TempDir() + "/orchestrator-sandbox"
	}

	return &Config{
		SessionTimeout: envDurationMS("SESSION_TIMEOUT", 1_800_000),
		MaxSessions:    envInt("MAX_SESSIONS", 1000),
		TaskTimeout:    envDurationMS("TASK_TIMEOUT", 60_000),
		MaxIterations:  envInt("MAX_ITERATIONS", 0),

		LLMProvider: envString("DEFAULT_LLM_PROVIDER", "openai-compatible"),
		LLMModel:    envString("DEFAULT_LLM_MODEL", "gpt-4o"),
		LLMBaseURL:  os.Getenv("LLM_BASE_URL"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),

		PythonPath:       envString("PYTHON_PATH", "python3"),
		SandboxWorkspace: workspace,
		SkillsRoot:       envString("SKILLS_ROOT", "./skills"),
		DevelopmentMode:  os.Getenv("DEV_MODE") == "true",
		MCPConfigPath:    os.Getenv("MCP_CONFIG_PATH"),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[Config] WARNING: invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func envDurationMS(key string, defMS int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(defMS) * time.Millisecond
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("[Config] WARNING: invalid %s=%q, using default %dms", key, v, defMS)
		return time.Duration(defMS) * time.Millisecond
	}
	return time.Duration(n) * time.Millisecond
}
