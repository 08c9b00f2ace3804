package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeatText(n int) string {
	const alphabet = "abcdefghij"
	var b strings.Builder
	for b.Len() < n {
		b.WriteString(alphabet)
	}
	return b.String()[:n]
}

func TestSplitPages_ChunkCountPerPage(t *testing.T) {
	cases := []struct {
		name      string
		length    int
		chunkSize int
		want      int
	}{
		{"exact multiple", 1000, 100, 10},
		{"remainder window", 1234, 100, 13},
		{"single short page", 42, 100, 1},
		{"window equals length", 100, 100, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pages := []PageText{{Number: 1, Text: repeatText(tc.length)}}
			chunks := SplitPages(pages, tc.chunkSize)
			assert.Len(t, chunks, tc.want)
		})
	}
}

func TestSplitPages_OrderReconstruction(t *testing.T) {
	// No whitespace in the source, so trimming is a no-op and
	// concatenating the chunks must reproduce each page exactly.
	page1 := repeatText(750)
	page2 := repeatText(301)
	pages := []PageText{
		{Number: 1, Text: page1},
		{Number: 2, Text: page2},
	}

	chunks := SplitPages(pages, 100)
	require.Len(t, chunks, 8+4)

	var rebuilt1, rebuilt2 strings.Builder
	lastPage := 0
	for _, c := range chunks {
		require.GreaterOrEqual(t, c.PageNumber, lastPage, "chunks must keep page order")
		lastPage = c.PageNumber
		switch c.PageNumber {
		case 1:
			rebuilt1.WriteString(c.Content)
		case 2:
			rebuilt2.WriteString(c.Content)
		}
	}
	assert.Equal(t, page1, rebuilt1.String())
	assert.Equal(t, page2, rebuilt2.String())
}

func TestSplitPages_EmptyPagesContributeNothing(t *testing.T) {
	pages := []PageText{
		{Number: 1, Text: ""},
		{Number: 2, Text: "   \n\t  "},
		{Number: 3, Text: "actual content"},
	}

	chunks := SplitPages(pages, 50)
	require.Len(t, chunks, 1)
	assert.Equal(t, 3, chunks[0].PageNumber)
	assert.Equal(t, "actual content", chunks[0].Content)
}

func TestSplitPages_DiscardsWhitespaceOnlyWindows(t *testing.T) {
	// First window is all spaces and must be dropped, not emitted empty.
	pages := []PageText{{Number: 1, Text: strings.Repeat(" ", 10) + "abc"}}

	chunks := SplitPages(pages, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, "abc", chunks[0].Content)
}

func TestSplitPages_WindowsAreRuneBased(t *testing.T) {
	pages := []PageText{{Number: 1, Text: strings.Repeat("é", 10)}}

	chunks := SplitPages(pages, 4)
	require.Len(t, chunks, 3)
	assert.Equal(t, "éééé", chunks[0].Content)
	assert.Equal(t, "éé", chunks[2].Content)
}

func TestSplitPages_DefaultChunkSize(t *testing.T) {
	pages := []PageText{{Number: 1, Text: repeatText(1200)}}

	chunks := SplitPages(pages, 0)
	assert.Len(t, chunks, 3) // ceil(1200/500)
}

func TestSplitDocument_MissingFile(t *testing.T) {
	chunks, err := SplitDocument("testdata/does-not-exist.pdf", 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentRead)
	assert.Empty(t, chunks)
}
