package benchmark

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTopics(t *testing.T) {
	topics := DefaultTopics()

	assert.NotEmpty(t, topics)
	assert.Equal(t, "support voice search", topics.Phrase("3.11"))
	assert.Equal(t, "", topics.Phrase("99.99"))
}

func TestDefaultTopics_IDsAreDottedNumeric(t *testing.T) {
	for _, id := range DefaultTopics().IDs() {
		assert.Regexp(t, `^\d+\.\d+$`, id)
	}
}

func TestLoadTopics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "topics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("topics:\n  \"1.1\": \"do something\"\n"), 0644))

	topics, err := LoadTopics(path)
	require.NoError(t, err)
	assert.Equal(t, "do something", topics.Phrase("1.1"))

	_, err = LoadTopics(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("topics: {}"), 0644))
	_, err = LoadTopics(path)
	assert.Error(t, err, "empty topic map is rejected")
}

func TestWatchTopics_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "topics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("topics:\n  \"1.1\": \"first\"\n"), 0644))

	var mu sync.Mutex
	var latest TopicMap
	tw, err := WatchTopics(path, func(tm TopicMap) {
		mu.Lock()
		latest = tm
		mu.Unlock()
	})
	require.NoError(t, err)
	defer tw.Close()

	require.NoError(t, os.WriteFile(path, []byte("topics:\n  \"1.1\": \"second\"\n"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return latest != nil && latest.Phrase("1.1") == "second"
	}, 3*time.Second, 20*time.Millisecond)
}
