package augment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/privalog/kb"
)

func augmentedRegistry(t *testing.T) *kb.Registry {
	t.Helper()
	reg := kb.NewRegistry()
	require.NoError(t, reg.Register("collects", 2))
	require.NoError(t, Register(reg))
	return reg
}

func TestRegisterDeclaresAugmentationPredicates(t *testing.T) {
	reg := augmentedRegistry(t)
	assert.True(t, reg.Known(PredSynonym, 2))
	assert.True(t, reg.Known(PredIsA, 2))
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb_aug.pl")
	content := `% kb_aug.pl (auto-generated WordNet augmentation)
% Provides: synonym/2, is_a/2
synonym(information, data).
synonym(information, info).
is_a(information, cognition).
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	src := &FileSource{Path: path}
	facts, err := src.Facts()
	require.NoError(t, err)
	require.Len(t, facts, 3)
	assert.Equal(t, "synonym(information, data)", facts[0].String())
	assert.Equal(t, "is_a(information, cognition)", facts[2].String())
}

func TestFileSourceMissingFile(t *testing.T) {
	src := &FileSource{Path: filepath.Join(t.TempDir(), "nope.pl")}
	_, err := src.Facts()
	require.Error(t, err)
}

func TestMergeAppendsAfterBaseFacts(t *testing.T) {
	reg := augmentedRegistry(t)
	store := kb.NewStore(reg)
	require.NoError(t, store.Add(kb.NewFact("collects", "google", "information")))

	src := &StaticSource{Label: "wordnet", List: []kb.Fact{
		kb.NewFact(PredSynonym, "information", "data"),
		kb.NewFact(PredIsA, "information", "cognition"),
	}}

	offered, err := Merge(store, src)
	require.NoError(t, err)
	assert.Equal(t, 2, offered)

	// Base facts stay first in the global order.
	all := store.All()
	require.Len(t, all, 3)
	assert.Equal(t, "collects", all[0].Predicate)
	assert.Equal(t, PredSynonym, all[1].Predicate)
	assert.Equal(t, PredIsA, all[2].Predicate)
}

func TestMergeHaltsOnSchemaViolation(t *testing.T) {
	reg := augmentedRegistry(t)
	store := kb.NewStore(reg)

	src := &StaticSource{Label: "bad", List: []kb.Fact{
		kb.NewFact(PredSynonym, "too", "many", "args"),
	}}

	_, err := Merge(store, src)
	require.Error(t, err)
	assert.ErrorIs(t, err, kb.ErrSchemaViolation)
	assert.Equal(t, 0, store.Len())
}

func TestMergeDuplicatesAbsorbed(t *testing.T) {
	reg := augmentedRegistry(t)
	store := kb.NewStore(reg)

	fact := kb.NewFact(PredSynonym, "information", "data")
	src := &StaticSource{Label: "dup", List: []kb.Fact{fact, fact}}

	offered, err := Merge(store, src)
	require.NoError(t, err)
	assert.Equal(t, 2, offered)
	assert.Equal(t, 1, store.Len())
}
