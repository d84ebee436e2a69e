package vocab

import (
	_ "embed"
	"fmt"
)

//go:embed starter.yaml
var starterYAML []byte

// Starter returns the built-in deck used when no deck file is configured.
func Starter() (*Deck, error) {
	deck, err := Parse(starterYAML)
	if err != nil {
		return nil, fmt.Errorf("starter deck: %w", err)
	}
	return deck, nil
}
