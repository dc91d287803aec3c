package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMentionExtract(t *testing.T) {
	p := NewMentionParser("")

	fragments := p.Extract("hi @Dana, check this out")
	require.Equal(t, []string{"dana"}, fragments)
}

func TestMentionExtractStopsAtPunctuation(t *testing.T) {
	p := NewMentionParser("")

	fragments := p.Extract("thanks @bob! and @alice, see you")
	require.Equal(t, []string{"bob", "alice"}, fragments)
}

func TestMentionExtractAllowsInnerSpace(t *testing.T) {
	p := NewMentionParser("")

	// 名字内部允许空格，后续单词也会被并入片段
	fragments := p.Extract("ping @Mary Jane.")
	require.Equal(t, []string{"mary jane"}, fragments)
}

func TestMentionExtractHan(t *testing.T) {
	p := NewMentionParser("")

	fragments := p.Extract("@小明 你好")
	require.Contains(t, fragments, "小明 你好")
}

func TestMentionExtractDedup(t *testing.T) {
	p := NewMentionParser("")

	fragments := p.Extract("@dan @Dan @DAN!")
	require.Equal(t, []string{"dan"}, fragments)
}

func TestMentionExtractNone(t *testing.T) {
	p := NewMentionParser("")

	require.Empty(t, p.Extract("no mentions here"))
	require.Empty(t, p.Extract("@! stray marker"))
	require.Empty(t, p.Extract(""))
}
