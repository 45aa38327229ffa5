package benchmark

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var embeddedTopics []byte

// TopicMap maps heuristic ids to the short phrases used for
// natural-language lookup and insight wording.
type TopicMap map[string]string

type topicsFile struct {
	Topics map[string]string `yaml:"topics"`
}

// DefaultTopics returns the topic map shipped with the binary.
func DefaultTopics() TopicMap {
	topics, err := parseTopics(embeddedTopics)
	if err != nil {
		// The embedded file is validated by tests; a parse failure here
		// means a broken build, not a runtime condition.
		panic(fmt.Sprintf("embedded topics.yaml invalid: %v", err))
	}
	return topics
}

// LoadTopics reads a topic map override from disk.
func LoadTopics(path string) (TopicMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topic map: %w", err)
	}
	topics, err := parseTopics(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse topic map %s: %w", path, err)
	}
	return topics, nil
}

func parseTopics(data []byte) (TopicMap, error) {
	var tf topicsFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, err
	}
	if len(tf.Topics) == 0 {
		return nil, fmt.Errorf("no topics defined")
	}
	return TopicMap(tf.Topics), nil
}

// Phrase returns the phrase for a heuristic id, or "".
func (t TopicMap) Phrase(heuristicID string) string {
	return t[heuristicID]
}

// IDs returns all mapped heuristic ids in sorted order.
func (t TopicMap) IDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
