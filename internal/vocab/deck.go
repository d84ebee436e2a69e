package vocab

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for deck files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported deck format")

// Format identifies a deck file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Deck is a named collection of vocabulary entries as stored on disk.
type Deck struct {
	Name    string  `yaml:"name,omitempty" json:"name,omitempty"`
	Entries []Entry `yaml:"entries" json:"entries"`
}

// FormatFromPath picks the deck format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Parse decodes a deck. Both a {name, entries} document and a bare list of
// entries are accepted. JSON input is decoded by the YAML parser.
func Parse(data []byte) (*Deck, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse deck: %w", err)
	}
	if len(root.Content) == 0 {
		return &Deck{}, nil
	}

	doc := root.Content[0]
	var deck Deck
	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&deck.Entries); err != nil {
			return nil, fmt.Errorf("decode entries: %w", err)
		}
	case yaml.MappingNode:
		if err := doc.Decode(&deck); err != nil {
			return nil, fmt.Errorf("decode deck: %w", err)
		}
	default:
		return nil, fmt.Errorf("parse deck: expected a mapping or a list")
	}

	deck.Entries = AssignIDs(deck.Entries)
	if err := Validate(deck.Entries); err != nil {
		return nil, err
	}
	return &deck, nil
}

// LoadFile reads and validates a deck file.
func LoadFile(path string) (*Deck, error) {
	if _, err := FormatFromPath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	deck, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if deck.Name == "" {
		deck.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return deck, nil
}

// SaveFile writes a deck in the format implied by the file extension,
// creating parent directories as needed.
func SaveFile(path string, deck *Deck) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(deck, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(deck)
	}
	if err != nil {
		return fmt.Errorf("encode deck: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create deck directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write deck: %w", err)
	}
	return nil
}
