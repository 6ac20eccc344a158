package game

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTopics is the built-in topic pool.
var DefaultTopics = []string{
	"Bollywood & Indian Cinema",
	"Cricket & Indian Sports",
	"Indian History & Freedom Struggle",
	"Indian Politics & Current Affairs 2024-25",
	"Alcohol & Cocktails",
	"Indian Street Food",
	"Tech & Startups in India",
	"Indian Geography & Travel",
	"Indian Mythology & Religion",
	"IPL & Sports Leagues",
	"Indian Music & Indie Artists",
	"Memes & Internet Culture",
	"Indian Web Series & OTT",
	"Desi Party Games",
	"Indian Festivals & Traditions",
	"Chai, Coffee & Beverages",
	"Indian Economy & Business",
	"Viral News & Trending Topics 2024",
	"Indian Literature & Authors",
	"Desi Slang & Regional Languages",
}

// TopicPack is a custom topic list loaded from YAML.
//
//	name: Office Party
//	topics:
//	  - Company History
//	  - Famous Memos
type TopicPack struct {
	// Name is a display name for the pack (optional)
	Name string `yaml:"name,omitempty"`
	// Topics are the question categories, in display order
	Topics []string `yaml:"topics"`
}

// LoadTopicPack reads and validates a topic pack file. Blank entries are
// dropped and duplicates (ignoring case) collapse to their first occurrence.
func LoadTopicPack(path string) (TopicPack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TopicPack{}, fmt.Errorf("read topic pack: %w", err)
	}
	return ParseTopicPack(data)
}

// ParseTopicPack decodes and validates topic pack YAML.
func ParseTopicPack(data []byte) (TopicPack, error) {
	var pack TopicPack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return TopicPack{}, fmt.Errorf("parse topic pack: %w", err)
	}

	seen := make(map[string]bool, len(pack.Topics))
	cleaned := make([]string, 0, len(pack.Topics))
	for _, topic := range pack.Topics {
		topic = strings.TrimSpace(topic)
		key := strings.ToLower(topic)
		if topic == "" || seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, topic)
	}
	if len(cleaned) == 0 {
		return TopicPack{}, errors.New("topic pack has no topics")
	}
	pack.Topics = cleaned
	return pack, nil
}
