package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		os.Unsetenv(k)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t, "SESSION_TIMEOUT", "MAX_SESSIONS", "TASK_TIMEOUT", "MAX_ITERATIONS",
		"DEFAULT_LLM_PROVIDER", "DEFAULT_LLM_MODEL", "PYTHON_PATH", "SKILLS_ROOT",
		"MCP_CONFIG_PATH", "DEV_MODE")

	cfg := FromEnv()
	if cfg.SessionTimeout != 1_800_000*time.Millisecond {
		t.Errorf("SessionTimeout = %v, want 1_800_000ms", cfg.SessionTimeout)
	}
	if cfg.MaxSessions != 1000 {
		t.Errorf("MaxSessions = %d, want 1000", cfg.MaxSessions)
	}
	if cfg.TaskTimeout != 60_000*time.Millisecond {
		t.Errorf("TaskTimeout = %v, want 60_000ms", cfg.TaskTimeout)
	}
	if cfg.LLMProvider != "openai-compatible" {
		t.Errorf("LLMProvider = %q, want openai-compatible default", cfg.LLMProvider)
	}
	if cfg.PythonPath != "python3" {
		t.Errorf("PythonPath = %q, want python3 default", cfg.PythonPath)
	}
	if cfg.MCPConfigPath != "" {
		t.Errorf("MCPConfigPath = %q, want empty by default", cfg.MCPConfigPath)
	}
	if cfg.DevelopmentMode {
		t.Error("DevelopmentMode should default to false")
	}
}

func TestFromEnv_CustomValues(t *testing.T) {
	os.Setenv("MAX_SESSIONS", "25")
	os.Setenv("TASK_TIMEOUT", "5000")
	os.Setenv("DEV_MODE", "true")
	os.Setenv("MCP_CONFIG_PATH", "/etc/mcp.json")
	defer clearEnv(t, "MAX_SESSIONS", "TASK_TIMEOUT", "DEV_MODE", "MCP_CONFIG_PATH")

	cfg := FromEnv()
	if cfg.MaxSessions != 25 {
		t.Errorf("MaxSessions = %d, want 25", cfg.MaxSessions)
	}
	if cfg.TaskTimeout != 5000*time.Millisecond {
		t.Errorf("TaskTimeout = %v, want 5000ms", cfg.TaskTimeout)
	}
	if !cfg.DevelopmentMode {
		t.Error("expected DevelopmentMode=true")
	}
	if cfg.MCPConfigPath != "/etc/mcp.json" {
		t.Errorf("MCPConfigPath = %q", cfg.MCPConfigPath)
	}
}

func TestFromEnv_InvalidNumericFallsBackWithDefault(t *testing.T) {
	os.Setenv("MAX_SESSIONS", "not-a-number")
	defer clearEnv(t, "MAX_SESSIONS")

	cfg := FromEnv()
	if cfg.MaxSessions != 1000 {
		t.Errorf("MaxSessions = %d, want fallback to default 1000", cfg.MaxSessions)
	}
}

func TestFromEnv_NegativeDurationFallsBackWithDefault(t *testing.T) {
	os.Setenv("TASK_TIMEOUT", "-5")
	defer clearEnv(t, "TASK_TIMEOUT")

	cfg := FromEnv()
	if cfg.TaskTimeout != 60_000*time.Millisecond {
		t.Errorf("TaskTimeout = %v, want fallback to default 60s", cfg.TaskTimeout)
	}
}
