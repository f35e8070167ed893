package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/odiscan/internal/core/domain"
)

func writeLexicon(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexicon.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLexiconStore_NoFile(t *testing.T) {
	lex, err := NewLexiconStore("").Load()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultLexicon(), lex)
}

func TestLexiconStore_OverridesLists(t *testing.T) {
	path := writeLexicon(t, `
countries = ["德国", "新加坡"]
equity_keywords = ["股权"]

[[transaction_types]]
name = "收购股权"
keywords = ["收购", "购买股权"]

[[transaction_types]]
name = "设立子公司"
keywords = ["设立"]
`)

	lex, err := NewLexiconStore(path).Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"德国", "新加坡"}, lex.Countries)
	assert.Equal(t, []string{"股权"}, lex.EquityKeywords)
	require.Len(t, lex.TransactionTypes, 2)
	assert.Equal(t, "收购股权", lex.TransactionTypes[0].Name)
	assert.Equal(t, []string{"收购", "购买股权"}, lex.TransactionTypes[0].Keywords)

	defaults := domain.DefaultLexicon()
	assert.Equal(t, defaults.DomesticCities, lex.DomesticCities)
	assert.Equal(t, defaults.ApprovalCategories, lex.ApprovalCategories)
}

func TestLexiconStore_BlankEntry(t *testing.T) {
	path := writeLexicon(t, "domestic_cities = [\"上海\", \" \"]\n")

	_, err := NewLexiconStore(path).Load()

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLexiconStore_MissingFile(t *testing.T) {
	_, err := NewLexiconStore(filepath.Join(t.TempDir(), "missing.toml")).Load()

	assert.Error(t, err)
}

func TestLexiconStore_Malformed(t *testing.T) {
	path := writeLexicon(t, "countries = [\n")

	_, err := NewLexiconStore(path).Load()

	assert.Error(t, err)
}
