package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTextLen is the longest title the service accepts.
const MaxTextLen = 200

// DefaultOwnerID is used when no owner is configured.
const DefaultOwnerID = 1

var (
	ErrEmptyText   = errors.New("title cannot be empty")
	ErrTextTooLong = fmt.Errorf("title cannot be more than %d characters", MaxTextLen)
	ErrBadOwner    = errors.New("owner id must be positive")
)

// NormalizeText trims s and checks its length.
func NormalizeText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyText
	}
	if utf8.RuneCountInString(s) > MaxTextLen {
		return "", ErrTextTooLong
	}
	return s, nil
}

// NewCreateRequest validates input and fills defaults.
func NewCreateRequest(text string, ownerID int) (CreateRequest, error) {
	t, err := NormalizeText(text)
	if err != nil {
		return CreateRequest{}, err
	}
	if ownerID == 0 {
		ownerID = DefaultOwnerID
	}
	if ownerID < 0 {
		return CreateRequest{}, ErrBadOwner
	}
	return CreateRequest{Text: t, OwnerID: ownerID}, nil
}

// Validate checks a partial update.
func (r UpdateRequest) Validate() error {
	if r.Text == nil {
		return nil
	}
	_, err := NormalizeText(*r.Text)
	return err
}
