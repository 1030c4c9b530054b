package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain/models"
)

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func TestBufferMergeLastWriteWins(t *testing.T) {
	buf := NewBuffer()

	buf.Merge(&models.NotePatch{Title: strptr("draft")})
	buf.Merge(&models.NotePatch{PlainText: strptr("hello"), WordCount: intptr(1)})
	buf.Merge(&models.NotePatch{Title: strptr("final")})

	patch := buf.TakeAndClear()
	require.NotNil(t, patch)
	assert.Equal(t, "final", *patch.Title)
	assert.Equal(t, "hello", *patch.PlainText)
	assert.Equal(t, 1, *patch.WordCount)
}

func TestBufferMergeIgnoresEmptyPatch(t *testing.T) {
	buf := NewBuffer()

	buf.Merge(&models.NotePatch{})
	assert.False(t, buf.HasPending())

	buf.Merge(&models.NotePatch{Title: strptr("a")})
	buf.Merge(&models.NotePatch{})
	patch := buf.TakeAndClear()
	require.NotNil(t, patch)
	assert.Equal(t, "a", *patch.Title)
}

func TestBufferTakeAndClearExactlyOnce(t *testing.T) {
	buf := NewBuffer()
	buf.Merge(&models.NotePatch{Title: strptr("once")})

	first := buf.TakeAndClear()
	second := buf.TakeAndClear()

	require.NotNil(t, first)
	assert.Nil(t, second)
	assert.False(t, buf.HasPending())
}

func TestBufferMergeAfterTakeStartsFresh(t *testing.T) {
	buf := NewBuffer()
	buf.Merge(&models.NotePatch{Title: strptr("old"), WordCount: intptr(5)})
	buf.TakeAndClear()

	buf.Merge(&models.NotePatch{Title: strptr("new")})
	patch := buf.TakeAndClear()

	require.NotNil(t, patch)
	assert.Equal(t, "new", *patch.Title)
	assert.Nil(t, patch.WordCount, "fields from the taken patch must not leak into the next one")
}
