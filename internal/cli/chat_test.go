package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/Harshitk-cp/homesense/internal/llm"
	"github.com/Harshitk-cp/homesense/internal/rules"
	"github.com/Harshitk-cp/homesense/internal/service"
	"github.com/Harshitk-cp/homesense/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newChatManager(t *testing.T, client domain.LLMClient) (*service.SessionManager, *store.FileProfileStore, *store.MemorySessionStore) {
	t.Helper()
	at := time.Date(2025, 7, 15, 14, 0, 0, 0, time.UTC)
	rec := service.NewRecommender(rules.Default(), client, zap.NewNop(),
		service.WithClock(func() time.Time { return at }),
		service.WithLocation(time.UTC))
	profiles := store.NewFileProfileStore(t.TempDir())
	sessions := store.NewMemorySessionStore(time.Hour)
	return service.NewSessionManager(sessions, profiles, rec, 3, nil, zap.NewNop()), profiles, sessions
}

func TestRunChat(t *testing.T) {
	mgr, profiles, sessions := newChatManager(t, llm.NewMockClient())

	in := strings.NewReader("好热\n\n晚安\n结束场景\n退出\n好热\n")
	var out bytes.Buffer
	require.NoError(t, runChat(context.Background(), mgr, "alice", in, &out))

	text := out.String()
	assert.Contains(t, text, "使用默认用户档案")
	assert.Contains(t, text, "推荐设备: [空调]")
	assert.Contains(t, text, "推荐设备: 未知设备")
	assert.Contains(t, text, "当前场景: 睡觉 (剩余 3 轮)")
	assert.Contains(t, text, "场景已结束")
	assert.True(t, strings.HasSuffix(text, "再见\n"))
	assert.Equal(t, 1, strings.Count(text, "推荐设备: [空调]"), "input after 退出 is not read")

	load := profiles.Load(context.Background(), "alice")
	require.Equal(t, domain.ProfileLoaded, load.Status)
	assert.Equal(t, 1, load.Profile.Usage("空调"))
	assert.Equal(t, 0, sessions.Len(), "session removed on exit")
}

func TestRunChat_ErrorsDoNotStopTheLoop(t *testing.T) {
	client := llm.NewMockClient()
	client.ChatError = assert.AnError
	mgr, _, _ := newChatManager(t, client)

	var out bytes.Buffer
	err := runChat(context.Background(), mgr, "bob", strings.NewReader("有点无聊\n好冷\n"), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "出错了:")
	assert.Contains(t, out.String(), "推荐设备: [")
	assert.Contains(t, out.String(), "再见")
}
