package trie

import (
	"errors"
	"fmt"
)

// ErrInvalidCharacter is matched by every InvalidCharacterError.
var ErrInvalidCharacter = errors.New("invalid character")

// InvalidCharacterError reports the first byte of Input outside 'a'..'z'.
type InvalidCharacterError struct {
	Input string
	Pos   int
	Char  byte
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character %q at position %d in %q", e.Char, e.Pos, e.Input)
}

func (e *InvalidCharacterError) Unwrap() error {
	return ErrInvalidCharacter
}

// validate returns an *InvalidCharacterError for the first byte of s that has
// no child slot.
func validate(s string) error {
	for i := 0; i < len(s); i++ {
		if _, ok := index(s[i]); !ok {
			return &InvalidCharacterError{Input: s, Pos: i, Char: s[i]}
		}
	}
	return nil
}
