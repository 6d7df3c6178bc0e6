package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearKeys(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"SCHOLARPREP_LLM_PROVIDER", "SCHOLARPREP_LLM_GEMINI_API_KEY", "SCHOLARPREP_STUDY_QUESTION_COUNT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scholarprep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	clearKeys(t)
	t.Chdir(t.TempDir())

	cfg, err := NewLoader("").Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Study.RoadmapWeeks)
	assert.Equal(t, 5, cfg.Study.QuestionCount)
	assert.Equal(t, 6, cfg.Study.QuestionDifficulty)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-flash", cfg.LLM.Gemini.Model)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.LLM.Retry.InitialWait)
	assert.Empty(t, cfg.LLM.Gemini.APIKey)
}

func TestFileAndEnvironment(t *testing.T) {
	clearKeys(t)
	path := writeConfig(t, `
log:
  level: debug
study:
  question_count: 3
llm:
  provider: openai
  openai:
    api_key: from-file
  retry:
    initial_wait: 250ms
`)
	t.Setenv("SCHOLARPREP_STUDY_QUESTION_COUNT", "7")

	l := NewLoader(path)
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, path, l.File())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 7, cfg.Study.QuestionCount, "environment wins over file")
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "from-file", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, 250*time.Millisecond, cfg.LLM.Retry.InitialWait)
}

func TestEnvironmentAPIKey(t *testing.T) {
	clearKeys(t)
	t.Chdir(t.TempDir())
	t.Setenv("SCHOLARPREP_LLM_GEMINI_API_KEY", "g-key")

	cfg, err := NewLoader("").Load()
	require.NoError(t, err)
	assert.Equal(t, "g-key", cfg.LLM.Gemini.APIKey)
	assert.NoError(t, cfg.LLM.Validate())
}

func TestVendorKeyDiscovery(t *testing.T) {
	clearKeys(t)
	t.Chdir(t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := NewLoader("").Load()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.Anthropic.APIKey)
}

func TestSetOverridesFile(t *testing.T) {
	clearKeys(t)
	path := writeConfig(t, "log:\n  level: warn\n")

	l := NewLoader(path)
	l.Set("log.level", "error")
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestInvalidStudySettings(t *testing.T) {
	clearKeys(t)
	path := writeConfig(t, "study:\n  question_difficulty: 11\n")

	_, err := NewLoader(path).Load()
	assert.ErrorContains(t, err, "question_difficulty")
}

func TestMissingExplicitFile(t *testing.T) {
	clearKeys(t)
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	assert.Error(t, err)
}
