package tagger

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redmark/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestClassify_Fallback(t *testing.T) {
	rules := []domain.TagRule{{Name: "X", Keywords: []string{"foo"}}}
	assert.Equal(t, []string{FallbackTag}, Classify("hello world", "", rules))
}

func TestClassify_UnionOfMatchingRules(t *testing.T) {
	rules := []domain.TagRule{
		{Name: "X", Keywords: []string{"foo"}},
		{Name: "Y", Keywords: []string{"bar"}},
		{Name: "Z", Keywords: []string{"baz"}},
	}
	assert.Equal(t, []string{"X", "Y"}, Classify("foo bar", "", rules))
}

func TestClassify_CaseInsensitiveAndDesc(t *testing.T) {
	rules := []domain.TagRule{
		{Name: "AI/LLM", Keywords: []string{"LLM", "大模型"}},
	}
	assert.Equal(t, []string{"AI/LLM"}, Classify("llm 微调实战", "", rules))
	assert.Equal(t, []string{"AI/LLM"}, Classify("标题", "讲讲大模型", rules))
}

func TestClassify_AnyKeywordMatchesOnce(t *testing.T) {
	rules := []domain.TagRule{
		{Name: "X", Keywords: []string{"foo", "bar"}},
	}
	// Both keywords present; the rule still contributes its name once.
	assert.Equal(t, []string{"X"}, Classify("foo bar", "", rules))
}

func TestTagAll_OnlyTouchesUntaggedItems(t *testing.T) {
	rules := []domain.TagRule{{Name: "X", Keywords: []string{"foo"}}}
	tg := New(rules, testLogger())

	coll := &domain.Collection{Items: []domain.Item{
		{ID: "1", Title: "foo post", Tags: []string{}},
		{ID: "2", Title: "foo post", Tags: []string{"manual"}},
	}}

	tagged := tg.TagAll(coll)
	assert.Equal(t, 1, tagged)
	assert.Equal(t, []string{"X"}, coll.Items[0].Tags)
	assert.Equal(t, []string{"manual"}, coll.Items[1].Tags, "existing tags must never be clobbered")
}

func TestTagAll_StableUnderRuleChanges(t *testing.T) {
	coll := &domain.Collection{Items: []domain.Item{
		{ID: "1", Title: "foo post", Tags: []string{}},
	}}

	first := New([]domain.TagRule{{Name: "X", Keywords: []string{"foo"}}}, testLogger())
	require.Equal(t, 1, first.TagAll(coll))
	require.Equal(t, []string{"X"}, coll.Items[0].Tags)

	// A later pass with different rules must not re-classify.
	second := New([]domain.TagRule{{Name: "Y", Keywords: []string{"foo"}}}, testLogger())
	assert.Equal(t, 0, second.TagAll(coll))
	assert.Equal(t, []string{"X"}, coll.Items[0].Tags)
}

func TestTagItem(t *testing.T) {
	tg := New(nil, testLogger())
	coll := &domain.Collection{Items: []domain.Item{
		{ID: "1", Title: "post", Tags: []string{"b"}},
	}}

	item, err := tg.TagItem(coll, "1", []string{" a ", "", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, item.Tags)

	_, err = tg.TagItem(coll, "missing", []string{"a"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{"a", "b", "c"}, coll.Items[0].Tags, "not-found must not mutate anything")
}

func TestMergeTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, MergeTags([]string{"b"}, []string{"a", "b", " ", ""}))
	assert.Empty(t, MergeTags(nil, []string{"", "  "}))
}
