package annotate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/jlex/internal/config"
	"github.com/heartmarshall/jlex/internal/domain"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockDictionary struct {
	SearchBestFunc func(ctx context.Context, fragment string) (*domain.SearchResult, error)
	queries        []string
}

func (m *mockDictionary) SearchBest(ctx context.Context, fragment string) (*domain.SearchResult, error) {
	m.queries = append(m.queries, fragment)
	if m.SearchBestFunc != nil {
		return m.SearchBestFunc(ctx, fragment)
	}
	return nil, nil
}

type word struct {
	entry    *domain.Entry
	learning bool
}

// prefixDictionary answers with the longest key that prefixes the fragment.
func prefixDictionary(words map[string]word) *mockDictionary {
	return &mockDictionary{
		SearchBestFunc: func(_ context.Context, fragment string) (*domain.SearchResult, error) {
			best := ""
			for key := range words {
				if strings.HasPrefix(fragment, key) && len(key) > len(best) {
					best = key
				}
			}
			if best == "" {
				return nil, nil
			}
			w := words[best]
			return &domain.SearchResult{
				Entries:     []*domain.Entry{w.entry},
				Length:      utf8.RuneCountInString(best),
				FullMatch:   true,
				DerivedWord: w.learning,
			}, nil
		},
	}
}

func entry(t *testing.T, kanji, reading string) *domain.Entry {
	t.Helper()
	var k, r []domain.Spelling
	if kanji != "" {
		k = []domain.Spelling{{Text: kanji}}
	}
	if reading != "" {
		r = []domain.Spelling{{Text: reading}}
	}
	e, err := domain.NewEntry(uuid.New(), 1, k, r, nil)
	require.NoError(t, err)
	return e
}

func newAnnotator(dict Dictionary) *Annotator {
	return New(dict, config.AnnotatorConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testWords(t *testing.T) map[string]word {
	t.Helper()
	ashita := entry(t, "明日", "あした")
	hareru := entry(t, "晴れる", "はれる")
	return map[string]word{
		"明日":  {entry: ashita},
		"晴れ":  {entry: entry(t, "晴れ", "はれ")},
		"晴れた": {entry: hareru},
		"天気":  {entry: entry(t, "天気", "てんき"), learning: true},
		"天":   {entry: entry(t, "天", "てん")},
	}
}

// ===========================================================================
// Tests
// ===========================================================================

func TestAnnotate_InsertsAfterSpanAndResumes(t *testing.T) {
	t.Parallel()
	dict := prefixDictionary(map[string]word{"明日": {entry: entry(t, "明日", "あした")}})
	a := newAnnotator(dict)

	got, err := a.Annotate(context.Background(), "明日は晴れ")
	require.NoError(t, err)

	assert.Equal(t, "明日【あした】は晴れ", got)
	// 明 and 晴 are looked up; 日 and the inserted reading are skipped.
	assert.Equal(t, []string{"明日は晴れ", "晴れ"}, dict.queries)
}

func TestAnnotate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "明日は晴れ", "明日【あした】は晴れ【はれ】"},
		{"derived form shows headline", "晴れた日", "晴れた【晴れる → はれる】日"},
		{"learning brackets", "天気がいい", "天気《てんき》がいい"},
		{"shorter key", "天の川", "天【てん】の川"},
		{"no kanji", "すしとコーヒー", "すしとコーヒー"},
		{"empty", "", ""},
		{"existing annotation untouched", "明日【みょうにち】", "明日【みょうにち】"},
		{"kanji inside brackets ignored", "【明日】晴れ", "【明日】晴れ【はれ】"},
		{"window cut at bracket", "晴れ【はれ】た", "晴れ【はれ】た"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := newAnnotator(prefixDictionary(testWords(t)))
			got, err := a.Annotate(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnnotate_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"明日は晴れ",
		"明日の天気は晴れた",
		"天の川と天気",
		"【明日】は《天気》",
		"晴れ晴れた晴れ",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			a := newAnnotator(prefixDictionary(testWords(t)))

			once, err := a.Annotate(context.Background(), in)
			require.NoError(t, err)
			twice, err := a.Annotate(context.Background(), once)
			require.NoError(t, err)

			assert.Equal(t, once, twice)
		})
	}
}

func TestAnnotate_NoDisplayableDifference(t *testing.T) {
	t.Parallel()
	// A kanji-only entry matching its own spelling has nothing to show.
	a := newAnnotator(prefixDictionary(map[string]word{"明日": {entry: entry(t, "明日", "")}}))

	got, err := a.Annotate(context.Background(), "明日")
	require.NoError(t, err)
	assert.Equal(t, "明日", got)
}

func TestAnnotate_PartialMatchSkipped(t *testing.T) {
	t.Parallel()
	dict := &mockDictionary{
		SearchBestFunc: func(_ context.Context, fragment string) (*domain.SearchResult, error) {
			return &domain.SearchResult{Entries: []*domain.Entry{entry(t, "明日", "あした")}, Length: 1}, nil
		},
	}
	a := newAnnotator(dict)

	got, err := a.Annotate(context.Background(), "明日")
	require.NoError(t, err)
	assert.Equal(t, "明日", got)
	assert.Len(t, dict.queries, 2)
}

func TestAnnotate_WindowBounded(t *testing.T) {
	t.Parallel()
	dict := &mockDictionary{}
	a := New(dict, config.AnnotatorConfig{MaxWordLength: 3}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := a.Annotate(context.Background(), "一二三四五")
	require.NoError(t, err)
	assert.Equal(t, []string{"一二三", "二三四", "三四五", "四五", "五"}, dict.queries)
}

func TestAnnotate_ErrorKeepsPartialText(t *testing.T) {
	t.Parallel()
	errDB := errors.New("connection reset")
	words := testWords(t)
	inner := prefixDictionary(words)
	dict := &mockDictionary{
		SearchBestFunc: func(ctx context.Context, fragment string) (*domain.SearchResult, error) {
			if strings.HasPrefix(fragment, "天") {
				return nil, errDB
			}
			return inner.SearchBestFunc(ctx, fragment)
		},
	}
	a := newAnnotator(dict)

	got, err := a.Annotate(context.Background(), "明日の天気")
	require.ErrorIs(t, err, errDB)

	var se *ScanError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "明日【あした】の天気", got)
	assert.Equal(t, 8, se.Offset)
}

func TestAnnotate_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newAnnotator(prefixDictionary(testWords(t))).Annotate(ctx, "明日")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnnotate_NoDictionary(t *testing.T) {
	t.Parallel()

	_, err := newAnnotator(nil).Annotate(context.Background(), "明日")
	assert.ErrorIs(t, err, domain.ErrNoDictionary)
}

func TestAnnotate_ConfiguredBrackets(t *testing.T) {
	t.Parallel()
	cfg := config.AnnotatorConfig{
		OpenBracket:   "(",
		CloseBracket:  ")",
		LearningOpen:  "<",
		LearningClose: ">",
	}
	a := New(prefixDictionary(testWords(t)), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	got, err := a.Annotate(context.Background(), "明日の天気")
	require.NoError(t, err)
	assert.Equal(t, "明日(あした)の天気<てんき>", got)
	assert.Equal(t, '(', a.Brackets().Open)
}
