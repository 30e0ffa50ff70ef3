package slidefx

import (
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	strip "github.com/grokify/html-strip-tags-go"
	"gopkg.in/yaml.v3"
)

// ErrEmptyTopic is returned when a viewer is created for a topic with no
// slides.
var ErrEmptyTopic = errors.New("slidefx: topic has no slides")

// Deck is an ordered list of topics.
type Deck struct {
	Topics []Topic `yaml:"topics"`
}

// Topic is a titled sequence of slides.
type Topic struct {
	ID          string  `yaml:"id"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Slides      []Slide `yaml:"slides"`
}

// Slide pairs HTML content with an optional animation.
type Slide struct {
	ID      string           `yaml:"id"`
	Title   string           `yaml:"title"`
	Content string           `yaml:"content"`
	Media   string           `yaml:"media,omitempty"`
	Config  *AnimationConfig `yaml:"config,omitempty"`
}

// AnimationConfig selects and tunes the scene of a slide. Speed is a pointer
// so that an explicit 0 (frozen) can be told apart from unset.
type AnimationConfig struct {
	AnimationType string   `yaml:"animationType"`
	Color         string   `yaml:"color,omitempty"`
	Speed         *float64 `yaml:"speed,omitempty"`
}

// SceneConfig resolves the animation config with defaults applied. A nil
// config yields DefaultSceneConfig.
func (c *AnimationConfig) SceneConfig() SceneConfig {
	cfg := DefaultSceneConfig()
	if c == nil {
		return cfg
	}
	if c.AnimationType != "" {
		cfg.AnimationType = c.AnimationType
	}
	if c.Color != "" {
		cfg.Color = c.Color
	}
	if c.Speed != nil {
		cfg.Speed = *c.Speed
		cfg.Frozen = *c.Speed <= 0
	}
	return cfg
}

// PlainText returns the slide content with markup removed, entities decoded
// and whitespace collapsed.
func (s *Slide) PlainText() string {
	text := html.UnescapeString(strip.StripTags(s.Content))
	return strings.Join(strings.Fields(text), " ")
}

// DecodeDeck reads a YAML deck from r.
func DecodeDeck(r io.Reader) (*Deck, error) {
	var d Deck
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("slidefx: decode deck: %w", err)
	}
	return &d, nil
}

// LoadDeck reads a YAML deck from a file.
func LoadDeck(path string) (*Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("slidefx: load deck: %w", err)
	}
	defer f.Close()
	return DecodeDeck(f)
}

// Topic returns the topic with the given id.
func (d *Deck) Topic(id string) (*Topic, bool) {
	for i := range d.Topics {
		if d.Topics[i].ID == id {
			return &d.Topics[i], true
		}
	}
	return nil, false
}

// Viewer tracks the current slide of a topic.
type Viewer struct {
	topic *Topic
	index int
}

// NewViewer returns a viewer on the first slide of t.
func NewViewer(t *Topic) (*Viewer, error) {
	if t == nil || len(t.Slides) == 0 {
		return nil, ErrEmptyTopic
	}
	return &Viewer{topic: t}, nil
}

// Topic returns the topic being viewed.
func (v *Viewer) Topic() *Topic { return v.topic }

// Index returns the zero-based position of the current slide.
func (v *Viewer) Index() int { return v.index }

// Len returns the number of slides.
func (v *Viewer) Len() int { return len(v.topic.Slides) }

// Current returns the current slide.
func (v *Viewer) Current() *Slide { return &v.topic.Slides[v.index] }

// Next advances one slide and reports whether it moved. It stops at the last
// slide.
func (v *Viewer) Next() bool {
	if v.index >= len(v.topic.Slides)-1 {
		return false
	}
	v.index++
	return true
}

// Prev goes back one slide and reports whether it moved. It stops at the
// first slide.
func (v *Viewer) Prev() bool {
	if v.index <= 0 {
		return false
	}
	v.index--
	return true
}

// Progress returns the percentage of the topic seen so far, counting the
// current slide.
func (v *Viewer) Progress() float64 {
	return float64(v.index+1) / float64(len(v.topic.Slides)) * 100
}

// SceneConfig returns the scene configuration of the current slide.
func (v *Viewer) SceneConfig() SceneConfig {
	return v.Current().Config.SceneConfig()
}
