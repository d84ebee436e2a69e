package expand

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordiz/internal/llm"
	"github.com/abhisek/wordiz/internal/vocab"
)

const happySynonyms = `{"words":[
	{"word":"joyful","definition":"full of joy","example":"She felt joyful after the news.","category":"emotion"},
	{"word":"Happy","definition":"pleased","example":"I am happy.","category":"emotion"},
	{"word":"glad","definition":"pleased about something","example":"I am glad to see you.","category":""},
	{"word":"cheerful","definition":"noticeably happy","example":"He has a cheerful smile.","category":"quality"},
	{"word":"","definition":"missing word","example":"","category":"emotion"},
	{"word":"JOYFUL","definition":"duplicate","example":"","category":"emotion"}
]}`

func newService(replies ...llm.Reply) (*Service, *llm.Scripted) {
	p := llm.NewScripted(replies...)
	return New(p, DefaultConfig(), nil), p
}

func TestExpand_FiltersAndFillsDefaults(t *testing.T) {
	svc, p := newService(llm.Reply{JSON: happySynonyms})

	entries, err := svc.Expand(context.Background(), "happy", RelSynonym, 5, "cheerful")
	require.NoError(t, err)

	words := make([]string, 0, len(entries))
	for _, e := range entries {
		words = append(words, e.Word)
		assert.Equal(t, vocab.WordID(e.Word), e.ID)
		assert.Equal(t, DefaultFrequency, e.Frequency)
		assert.Equal(t, &vocab.Origin{Seed: "happy", Relationship: "synonym"}, e.Origin)
	}
	assert.Equal(t, []string{"joyful", "glad"}, words)
	assert.Equal(t, "emotion", entries[0].Category)
	assert.Equal(t, "synonym", entries[1].Category, "empty category falls back to the relationship")

	prompts := p.Prompts()
	require.Len(t, prompts, 1)
	call := prompts[0]
	assert.Equal(t, llm.PurposeExpand, call.Purpose)
	assert.Equal(t, ExpansionSchema, call.Schema)
	assert.Equal(t, expandInstructions, call.Instructions)
	assert.Contains(t, call.Input, `Seed word: "happy"`)
	assert.Contains(t, call.Input, "synonyms (words with similar meanings)")
	assert.Contains(t, call.Input, "Already known:\ncheerful")
}

func TestExpand_TruncatesToCount(t *testing.T) {
	svc, _ := newService(llm.Reply{JSON: happySynonyms})

	entries, err := svc.Expand(context.Background(), "happy", RelSynonym, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "joyful", entries[0].Word)
}

func TestExpand_CapsRequestedCount(t *testing.T) {
	svc, p := newService(llm.Reply{JSON: happySynonyms})

	_, err := svc.Expand(context.Background(), "happy", RelSynonym, 500)
	require.NoError(t, err)
	assert.Contains(t, p.Prompts()[0].Input, "Number of words: 20")
}

func TestExpand_NoUsableWords(t *testing.T) {
	svc, _ := newService(llm.Reply{JSON: `{"words":[{"word":"happy","definition":"x","example":"","category":"emotion"}]}`})

	_, err := svc.Expand(context.Background(), "Happy", RelSynonym, 3)
	assert.ErrorIs(t, err, ErrNoWords)
}

func TestExpand_InputErrors(t *testing.T) {
	svc, p := newService()

	_, err := svc.Expand(context.Background(), "  ", RelSynonym, 3)
	assert.ErrorIs(t, err, ErrEmptySeed)

	_, err = svc.Expand(context.Background(), "happy", Relationship("rhyme"), 3)
	assert.ErrorIs(t, err, ErrUnknownRelationship)

	_, err = svc.Expand(context.Background(), "happy", RelSynonym, 0)
	assert.Error(t, err)

	assert.Empty(t, p.Prompts())
}

func TestExpand_ProviderError(t *testing.T) {
	svc, _ := newService(llm.Reply{Err: &llm.Error{Provider: "test", Kind: llm.KindUnavailable, Err: errors.New("down")}})

	_, err := svc.Expand(context.Background(), "happy", RelAntonym, 3)
	assert.True(t, llm.IsKind(err, llm.KindUnavailable), "got %v", err)
}

func TestExpand_MalformedContent(t *testing.T) {
	svc, _ := newService(llm.Reply{JSON: `not json`})

	_, err := svc.Expand(context.Background(), "happy", RelRelated, 3)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "parse"))
}

func TestParseRelationship(t *testing.T) {
	for _, r := range Relationships() {
		got, err := ParseRelationship(strings.ToUpper(string(r)))
		require.NoError(t, err)
		assert.Equal(t, r, got)
		assert.NotEmpty(t, got.Describe())
	}

	_, err := ParseRelationship("homophone")
	assert.ErrorIs(t, err, ErrUnknownRelationship)
}

func TestBuildKnown(t *testing.T) {
	assert.Equal(t, "None", buildKnown(nil, 10))
	assert.Equal(t, "b, c", buildKnown([]string{"a", "b", "c"}, 2))
	assert.Equal(t, "a, b, c", buildKnown([]string{"a", "b", "c"}, 0))
}

func TestExpansionSchema_AcceptsWellFormedReply(t *testing.T) {
	valid := `{"words":[{"word":"joyful","definition":"full of joy","example":"She felt joyful.","category":"emotion"}]}`
	assert.NoError(t, ExpansionSchema.Validate([]byte(valid)))

	missing := `{"words":[{"word":"joyful","definition":"full of joy","category":"emotion"}]}`
	assert.Error(t, ExpansionSchema.Validate([]byte(missing)), "example is required")

	badCategory := `{"words":[{"word":"joyful","definition":"full of joy","example":"x","category":"feelings"}]}`
	assert.Error(t, ExpansionSchema.Validate([]byte(badCategory)))
}
