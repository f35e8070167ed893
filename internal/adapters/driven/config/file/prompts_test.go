package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
	"github.com/custodia-labs/odiscan/internal/core/services"
)

func newTestPromptStore(t *testing.T) *PromptStore {
	t.Helper()
	store, err := NewPromptStore(filepath.Join(t.TempDir(), "prompts"))
	require.NoError(t, err)
	return store
}

// writePrompt writes an override and moves its mtime forward so a cached
// read is invalidated even on coarse-grained filesystems.
func writePrompt(t *testing.T, store *PromptStore, name, text string, age time.Duration) {
	t.Helper()
	require.NoError(t, os.MkdirAll(store.Dir(), 0700))
	p := store.Path(name)
	require.NoError(t, os.WriteFile(p, []byte(text), 0600))
	mtime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(p, mtime, mtime))
}

func TestNewPromptStore_RequiresDir(t *testing.T) {
	_, err := NewPromptStore("")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPromptNames(t *testing.T) {
	assert.Equal(t, []string{driven.PromptExtractionSystem}, PromptNames())
}

func TestDefaultPrompt(t *testing.T) {
	text, err := DefaultPrompt(driven.PromptExtractionSystem)
	require.NoError(t, err)
	assert.Contains(t, text, "境外直接投资")
	assert.Contains(t, text, "JSON")

	_, err = DefaultPrompt("classification_system")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPromptStore_Load_BuiltinWithoutIO(t *testing.T) {
	store := newTestPromptStore(t)

	text, err := store.Load(driven.PromptExtractionSystem)

	require.NoError(t, err)
	builtin, _ := DefaultPrompt(driven.PromptExtractionSystem)
	assert.Equal(t, builtin, text)
	assert.NoDirExists(t, store.Dir(), "loading must not create the override directory")
}

func TestPromptStore_Load_UnknownName(t *testing.T) {
	store := newTestPromptStore(t)
	writePrompt(t, store, "stray", "not a known prompt", 0)

	_, err := store.Load("stray")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPromptStore_Load_Override(t *testing.T) {
	store := newTestPromptStore(t)
	writePrompt(t, store, driven.PromptExtractionSystem, "\n  你是并购律师。\n", 0)

	text, err := store.Load(driven.PromptExtractionSystem)

	require.NoError(t, err)
	assert.Equal(t, "你是并购律师。", text)
}

func TestPromptStore_Load_BlankOverrideUsesBuiltin(t *testing.T) {
	store := newTestPromptStore(t)
	writePrompt(t, store, driven.PromptExtractionSystem, " \n\t\n", 0)

	text, err := store.Load(driven.PromptExtractionSystem)

	require.NoError(t, err)
	assert.Contains(t, text, "境外直接投资")
}

func TestPromptStore_Load_PicksUpEdits(t *testing.T) {
	store := newTestPromptStore(t)
	writePrompt(t, store, driven.PromptExtractionSystem, "第一版", time.Hour)

	first, err := store.Load(driven.PromptExtractionSystem)
	require.NoError(t, err)
	assert.Equal(t, "第一版", first)

	writePrompt(t, store, driven.PromptExtractionSystem, "第二版提示词", 0)

	second, err := store.Load(driven.PromptExtractionSystem)
	require.NoError(t, err)
	assert.Equal(t, "第二版提示词", second)
}

func TestPromptStore_Load_RemovedOverrideRestoresBuiltin(t *testing.T) {
	store := newTestPromptStore(t)
	writePrompt(t, store, driven.PromptExtractionSystem, "临时提示词", 0)
	_, err := store.Load(driven.PromptExtractionSystem)
	require.NoError(t, err)

	require.NoError(t, os.Remove(store.Path(driven.PromptExtractionSystem)))

	text, err := store.Load(driven.PromptExtractionSystem)
	require.NoError(t, err)
	assert.Contains(t, text, "境外直接投资")
}

func TestPromptStore_Load_UnreadableOverride(t *testing.T) {
	store := newTestPromptStore(t)
	require.NoError(t, os.MkdirAll(store.Path(driven.PromptExtractionSystem), 0700))

	_, err := store.Load(driven.PromptExtractionSystem)

	assert.Error(t, err)
}

func TestPromptStore_WriteDefaults(t *testing.T) {
	store := newTestPromptStore(t)

	written, err := store.WriteDefaults(false)
	require.NoError(t, err)
	assert.Equal(t, []string{store.Path(driven.PromptExtractionSystem)}, written)

	data, err := os.ReadFile(store.Path(driven.PromptExtractionSystem))
	require.NoError(t, err)
	assert.Contains(t, string(data), "境外直接投资")

	writePrompt(t, store, driven.PromptExtractionSystem, "用户修改", 0)
	written, err = store.WriteDefaults(false)
	require.NoError(t, err)
	assert.Empty(t, written)
	text, err := store.Load(driven.PromptExtractionSystem)
	require.NoError(t, err)
	assert.Equal(t, "用户修改", text)

	written, err = store.WriteDefaults(true)
	require.NoError(t, err)
	assert.Len(t, written, 1)
	text, err = store.Load(driven.PromptExtractionSystem)
	require.NoError(t, err)
	assert.Contains(t, text, "境外直接投资")
}

func TestPromptBuilder_SystemPromptFromStore(t *testing.T) {
	store := newTestPromptStore(t)
	builder := services.NewPromptBuilder(store, 0)

	system, err := builder.SystemPrompt()
	require.NoError(t, err)
	assert.Contains(t, system, "境外直接投资")

	writePrompt(t, store, driven.PromptExtractionSystem, "只输出JSON。", 0)
	system, err = builder.SystemPrompt()
	require.NoError(t, err)
	assert.Equal(t, "只输出JSON。", system)
}

func TestPromptBuilder_SystemPromptUnreadable(t *testing.T) {
	store := newTestPromptStore(t)
	require.NoError(t, os.MkdirAll(store.Path(driven.PromptExtractionSystem), 0700))

	system, err := services.NewPromptBuilder(store, 0).SystemPrompt()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load system prompt")
	assert.Empty(t, system)
}
