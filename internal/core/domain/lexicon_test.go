package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLexicon_Valid(t *testing.T) {
	require.NoError(t, DefaultLexicon().Validate())
}

func TestDefaultLexicon_FreshCopy(t *testing.T) {
	a := DefaultLexicon()
	b := DefaultLexicon()
	a.Countries[0] = "changed"
	assert.NotEqual(t, a.Countries[0], b.Countries[0])
}

func TestDefaultLexicon_ContainsOverlappingNames(t *testing.T) {
	lex := DefaultLexicon()
	assert.Contains(t, lex.Countries, "印度")
	assert.Contains(t, lex.Countries, "印度尼西亚")
	assert.Contains(t, lex.Countries, "Germany")
}

func TestLexicon_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Lexicon)
	}{
		{"empty countries", func(l *Lexicon) { l.Countries = nil }},
		{"blank city", func(l *Lexicon) { l.DomesticCities = append(l.DomesticCities, " ") }},
		{"type without keywords", func(l *Lexicon) {
			l.TransactionTypes = append(l.TransactionTypes, TransactionType{Name: "空"})
		}},
		{"category without name", func(l *Lexicon) {
			l.ApprovalCategories = append(l.ApprovalCategories, ApprovalCategory{Keywords: []string{"x"}})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := DefaultLexicon()
			tt.mutate(lex)
			err := lex.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}
