package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Harshitk-cp/homesense/internal/service"
	"github.com/Harshitk-cp/homesense/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setBaseEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PROFILE_STORE", "file")
	t.Setenv("PROFILE_DIR", dir)
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("LLM_PROVIDER", "mock")
	t.Setenv("RULES_PATH", "")
	t.Setenv("TIMEZONE", "UTC")
	return dir
}

func TestBuild_FileAndMemory(t *testing.T) {
	setBaseEnv(t)

	c, err := Build(context.Background(), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &store.FileProfileStore{}, c.Profiles)
	assert.NotNil(t, c.Metrics)

	result, err := c.Sessions.RecommendOnce(context.Background(), "想看剧", c.Sessions.LoadProfile(context.Background(), "x").Profile)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Devices)
}

func TestBuild_MissingLLMCredentials(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LLM_PROVIDER", "spark")
	t.Setenv("SPARK_APP_ID", "")

	c, err := Build(context.Background(), zap.NewNop())
	require.NoError(t, err, "keyword rules still serve without an LLM")
	defer c.Close()

	ctx := context.Background()
	p := c.Sessions.LoadProfile(ctx, "x").Profile

	_, err = c.Sessions.RecommendOnce(ctx, "好热", p)
	assert.NoError(t, err)
	_, err = c.Sessions.RecommendOnce(ctx, "有点无聊", p)
	assert.ErrorIs(t, err, service.ErrFallbackUnavailable)
}

func TestBuild_RulesFile(t *testing.T) {
	dir := setBaseEnv(t)
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
keywords:
  - keyword: 无聊
    devices: [投影仪]
`), 0o600))
	t.Setenv("RULES_PATH", path)

	c, err := Build(context.Background(), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	result, err := c.Sessions.RecommendOnce(context.Background(), "有点无聊", c.Sessions.LoadProfile(context.Background(), "x").Profile)
	require.NoError(t, err)
	assert.Equal(t, []string{"投影仪"}, result.Devices)
}

func TestBuild_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown profile store", map[string]string{"PROFILE_STORE": "s3"}},
		{"postgres without url", map[string]string{"PROFILE_STORE": "postgres", "DATABASE_URL": ""}},
		{"unknown session store", map[string]string{"SESSION_STORE": "memcached"}},
		{"redis without url", map[string]string{"SESSION_STORE": "redis", "REDIS_URL": ""}},
		{"missing rules file", map[string]string{"RULES_PATH": "/nonexistent/rules.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			c, err := Build(context.Background(), zap.NewNop())
			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}
}
