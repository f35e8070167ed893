package file

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

// Ensure LexiconStore implements the interface.
var _ driven.LexiconStore = (*LexiconStore)(nil)

// lexiconFile mirrors the lexicon TOML layout. Nil slices mean the list
// was not given and keeps its default.
type lexiconFile struct {
	Countries                  []string    `toml:"countries"`
	ClearForeignCountries      []string    `toml:"clear_foreign_countries"`
	DomesticCities             []string    `toml:"domestic_cities"`
	DomesticProvinces          []string    `toml:"domestic_provinces"`
	OverseasMarkers            []string    `toml:"overseas_markers"`
	FilenameOverseasMarkers    []string    `toml:"filename_overseas_markers"`
	CountryStripMarkers        []string    `toml:"country_strip_markers"`
	ExclusionKeywords          []string    `toml:"exclusion_keywords"`
	FilenameInvestmentKeywords []string    `toml:"filename_investment_keywords"`
	EquityKeywords             []string    `toml:"equity_keywords"`
	TransactionTypes           []namedList `toml:"transaction_types"`
	ApprovalCategories         []namedList `toml:"approval_categories"`
}

type namedList struct {
	Name     string   `toml:"name"`
	Keywords []string `toml:"keywords"`
}

// LexiconStore loads keyword lists from an optional TOML file.
type LexiconStore struct {
	path string
}

// NewLexiconStore creates a lexicon store. An empty path yields the
// built-in lexicon.
func NewLexiconStore(path string) *LexiconStore {
	return &LexiconStore{path: path}
}

// Load returns the built-in lexicon with any lists from the file replacing
// their defaults.
func (s *LexiconStore) Load() (*domain.Lexicon, error) {
	lex := domain.DefaultLexicon()
	if s.path == "" {
		return lex, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}

	var f lexiconFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", s.path, err)
	}

	overlay(&lex.Countries, f.Countries)
	overlay(&lex.ClearForeignCountries, f.ClearForeignCountries)
	overlay(&lex.DomesticCities, f.DomesticCities)
	overlay(&lex.DomesticProvinces, f.DomesticProvinces)
	overlay(&lex.OverseasMarkers, f.OverseasMarkers)
	overlay(&lex.FilenameOverseasMarkers, f.FilenameOverseasMarkers)
	overlay(&lex.CountryStripMarkers, f.CountryStripMarkers)
	overlay(&lex.ExclusionKeywords, f.ExclusionKeywords)
	overlay(&lex.FilenameInvestmentKeywords, f.FilenameInvestmentKeywords)
	overlay(&lex.EquityKeywords, f.EquityKeywords)

	if f.TransactionTypes != nil {
		lex.TransactionTypes = make([]domain.TransactionType, 0, len(f.TransactionTypes))
		for _, t := range f.TransactionTypes {
			lex.TransactionTypes = append(lex.TransactionTypes, domain.TransactionType(t))
		}
	}
	if f.ApprovalCategories != nil {
		lex.ApprovalCategories = make([]domain.ApprovalCategory, 0, len(f.ApprovalCategories))
		for _, c := range f.ApprovalCategories {
			lex.ApprovalCategories = append(lex.ApprovalCategories, domain.ApprovalCategory(c))
		}
	}

	if err := lex.Validate(); err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", s.path, err)
	}
	return lex, nil
}

func overlay(dst *[]string, src []string) {
	if src != nil {
		*dst = src
	}
}
