package papers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_ArxivIDs(t *testing.T) {
	hint := Extract("两篇必读: arxiv.org/abs/2403.05530 和 https://arxiv.org/abs/1706.03762v5 都在这。2403.05530 重复了")
	assert.Equal(t, []string{"2403.05530", "1706.03762"}, hint.ArxivIDs)
	assert.True(t, hint.IsPaper)
}

func TestExtract_BracketTitle(t *testing.T) {
	hint := Extract("今天精读《Attention Is All You Need》，收获很大")
	assert.Empty(t, hint.ArxivIDs)
	assert.Equal(t, []string{"Attention Is All You Need"}, hint.Titles)
	assert.True(t, hint.IsPaper)
}

func TestExtract_QuotedAndLabeledTitles(t *testing.T) {
	hint := Extract("题目：Scaling Laws for Neural LMs\n另外推荐 “Chain-of-Thought Prompting Elicits Reasoning”")
	assert.Contains(t, hint.Titles, "Chain-of-Thought Prompting Elicits Reasoning")
	assert.Contains(t, hint.Titles, "Scaling Laws for Neural LMs")
	assert.True(t, hint.IsPaper)
}

func TestExtract_TitleLengthBounds(t *testing.T) {
	hint := Extract("《短》 和 “tiny”")
	assert.Empty(t, hint.Titles, "titles below the length floor are noise")
}

func TestExtract_MarkerOnly(t *testing.T) {
	hint := Extract("一句话总结这周看的东西，没贴链接")
	assert.Empty(t, hint.ArxivIDs)
	assert.Empty(t, hint.Titles)
	assert.True(t, hint.IsPaper, "marker phrases flag paper content even without references")
}

func TestExtract_PlainNote(t *testing.T) {
	hint := Extract("成都三日游攻略，吃了好多火锅")
	assert.False(t, hint.IsPaper)
	assert.Empty(t, hint.ArxivIDs)
	assert.Empty(t, hint.Titles)
}

func TestExtract_MarkerCaseInsensitive(t *testing.T) {
	assert.True(t, Extract("Great PAPER reading list coming soon").IsPaper)
}

func TestStripVersion(t *testing.T) {
	assert.Equal(t, "1706.03762", StripVersion("1706.03762v5"))
	assert.Equal(t, "1706.03762", StripVersion("1706.03762"))
	assert.Equal(t, "2403.05530", StripVersion("2403.05530v12"))
}
