package benchmark

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"marie/internal/logging"
)

// TopicWatcher hot-reloads a topic map override file. The chat session
// keeps one running so editing .marie/topics.yaml takes effect without a
// restart.
type TopicWatcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchTopics watches path and invokes onChange with the re-parsed topic
// map every time the file is written. Parse failures keep the previous map
// and are logged, not propagated.
func WatchTopics(path string, onChange func(TopicMap)) (*TopicWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create topic watcher: %w", err)
	}

	// Watch the directory: editors replace files on save, which drops a
	// watch registered on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	tw := &TopicWatcher{watcher: watcher, done: make(chan struct{})}
	target := filepath.Clean(path)

	go func() {
		defer close(tw.done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				topics, err := LoadTopics(target)
				if err != nil {
					logging.DatasetError("topic map reload failed: %v", err)
					continue
				}
				logging.Dataset("topic map reloaded from %s (%d entries)", target, len(topics))
				onChange(topics)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.DatasetError("topic watcher error: %v", err)
			}
		}
	}()

	return tw, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (t *TopicWatcher) Close() error {
	err := t.watcher.Close()
	<-t.done
	return err
}
