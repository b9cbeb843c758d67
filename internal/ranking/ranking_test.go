package ranking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/jlex/internal/conjugation"
	"github.com/heartmarshall/jlex/internal/domain"
	"github.com/heartmarshall/jlex/internal/script"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockDecoder struct {
	DecodePriorityFunc func(ctx context.Context, code domain.PriorityCode) ([]domain.Priority, error)
	calls              atomic.Int32
}

func (m *mockDecoder) DecodePriority(ctx context.Context, code domain.PriorityCode) ([]domain.Priority, error) {
	m.calls.Add(1)
	if m.DecodePriorityFunc != nil {
		return m.DecodePriorityFunc(ctx, code)
	}
	return nil, nil
}

// tableDecoder maps codes to tags.
func tableDecoder(table map[domain.PriorityCode][]domain.Priority) *mockDecoder {
	return &mockDecoder{
		DecodePriorityFunc: func(_ context.Context, code domain.PriorityCode) ([]domain.Priority, error) {
			return table[code], nil
		},
	}
}

const (
	codeNews1 domain.PriorityCode = 1 // news1, rank 2
	codeNf40  domain.PriorityCode = 2 // nf40, rank 9
	codeIchi2 domain.PriorityCode = 3 // ichi2, rank 1
	codeGai1  domain.PriorityCode = 4 // gai1, rank 2
)

var testTable = map[domain.PriorityCode][]domain.Priority{
	codeNews1: {{Type: domain.PriorityNews, Rank: 2}},
	codeNf40:  {{Type: domain.PriorityNf, Rank: 9}},
	codeIchi2: {{Type: domain.PriorityIchi, Rank: 1}},
	codeGai1:  {{Type: domain.PriorityGai, Rank: 2}},
}

func newRanker(dec PriorityDecoder) *Ranker {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(conjugation.NewEngine(logger), script.Default(), dec)
}

func entry(t *testing.T, seq int, kanji string, kanjiCode domain.PriorityCode, reading string, readingCode domain.PriorityCode, pos ...domain.PartOfSpeech) *domain.Entry {
	t.Helper()
	var k, r []domain.Spelling
	if kanji != "" {
		k = []domain.Spelling{{Text: kanji, Priority: kanjiCode}}
	}
	if reading != "" {
		r = []domain.Spelling{{Text: reading, Priority: readingCode}}
	}
	e, err := domain.NewEntry(uuid.New(), seq, k, r, []domain.Sense{{PartsOfSpeech: pos}})
	require.NoError(t, err)
	return e
}

// ===========================================================================
// Mask
// ===========================================================================

func TestMask_PreferredGoesToHigherRankedReading(t *testing.T) {
	t.Parallel()
	r := newRanker(tableDecoder(testTable))
	w := r.Wrap(entry(t, 1, "明日", codeIchi2, "あした", codeNews1), false)

	reading, err := w.AnnotationMask(context.Background(), domain.SideReading)
	require.NoError(t, err)
	kanji, err := w.AnnotationMask(context.Background(), domain.SideKanji)
	require.NoError(t, err)

	assert.True(t, reading&Preferred != 0, "reading side should be preferred")
	assert.False(t, kanji&Preferred != 0, "kanji side should not be preferred")
	assert.True(t, reading&Common != 0)
	assert.True(t, kanji&Common != 0)
}

func TestMask_PreferredGoesToHigherRankedKanji(t *testing.T) {
	t.Parallel()
	r := newRanker(tableDecoder(testTable))
	w := r.Wrap(entry(t, 1, "食べる", codeNf40, "たべる", codeIchi2), false)

	m, err := w.Mask(context.Background())
	require.NoError(t, err)

	assert.True(t, m.Has(domain.SideKanji, Preferred))
	assert.False(t, m.Has(domain.SideReading, Preferred))
	assert.False(t, m.Has(domain.SideKanji, Common), "nf alone is not common")
}

func TestMask_Cases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entry   func(t *testing.T) *domain.Entry
		reading Mask
		kanji   Mask
	}{
		{
			name:    "tie favours reading",
			entry:   func(t *testing.T) *domain.Entry { return entry(t, 1, "明日", codeNews1, "あした", codeGai1) },
			reading: Preferred,
			kanji:   Common,
		},
		{
			name:    "untagged tie favours reading",
			entry:   func(t *testing.T) *domain.Entry { return entry(t, 1, "明日", 0, "あした", 0) },
			reading: Preferred,
		},
		{
			name:    "kana only",
			entry:   func(t *testing.T) *domain.Entry { return entry(t, 1, "", 0, "これ", codeNews1) },
			reading: Common | Preferred,
		},
		{
			name:  "kanji only",
			entry: func(t *testing.T) *domain.Entry { return entry(t, 1, "明日", 0, "", 0) },
			kanji: Preferred,
		},
		{
			name:    "non-joyo kanji",
			entry:   func(t *testing.T) *domain.Entry { return entry(t, 1, "薔薇", 0, "ばら", codeIchi2) },
			reading: Common | Preferred,
			kanji:   UncommonKanji,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := newRanker(tableDecoder(testTable)).Wrap(tt.entry(t), false)

			m, err := w.Mask(context.Background())
			require.NoError(t, err)
			assert.True(t, m.IsComputed())
			assert.Equal(t, tt.reading, m.Side(domain.SideReading), "reading: %s", m)
			assert.Equal(t, tt.kanji, m.Side(domain.SideKanji), "kanji: %s", m)
			assert.False(t, m.IsLearning())
		})
	}
}

func TestMask_LearningForcesPreferred(t *testing.T) {
	t.Parallel()
	r := newRanker(tableDecoder(testTable))
	w := r.Wrap(entry(t, 1, "明日", codeIchi2, "あした", codeNews1), true)

	m, err := w.Mask(context.Background())
	require.NoError(t, err)

	assert.True(t, m.Has(domain.SideReading, Preferred))
	assert.True(t, m.Has(domain.SideKanji, Preferred))
	assert.True(t, m.IsLearning())
	assert.Contains(t, m.String(), "learning")
}

func TestMask_ComputedOnce(t *testing.T) {
	t.Parallel()
	dec := tableDecoder(testTable)
	w := newRanker(dec).Wrap(entry(t, 1, "明日", codeIchi2, "あした", codeNews1), false)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.Mask(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(2), dec.calls.Load(), "one decode per side")
}

func TestMask_ErrorNotCached(t *testing.T) {
	t.Parallel()
	errDB := errors.New("connection reset")
	fail := true
	dec := &mockDecoder{
		DecodePriorityFunc: func(_ context.Context, code domain.PriorityCode) ([]domain.Priority, error) {
			if fail {
				return nil, errDB
			}
			return testTable[code], nil
		},
	}
	w := newRanker(dec).Wrap(entry(t, 1, "明日", codeIchi2, "あした", codeNews1), false)

	_, err := w.Mask(context.Background())
	require.ErrorIs(t, err, errDB)

	fail = false
	m, err := w.Mask(context.Background())
	require.NoError(t, err)
	assert.True(t, m.IsComputed())
}

func TestMask_NoDecoder(t *testing.T) {
	t.Parallel()
	w := newRanker(nil).Wrap(entry(t, 1, "明日", codeIchi2, "あした", codeNews1), false)

	_, err := w.Mask(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoDictionary)

	// Untagged entries need no decoder.
	w = newRanker(nil).Wrap(entry(t, 1, "明日", 0, "あした", 0), false)
	_, err = w.Mask(context.Background())
	assert.NoError(t, err)
}

func TestMask_ZeroIsUncomputed(t *testing.T) {
	t.Parallel()
	var m Mask
	assert.False(t, m.IsComputed())
	assert.Equal(t, "uncomputed", m.String())
	assert.Equal(t, Mask(Preferred<<3), For(domain.SideKanji, Preferred))
}

// ===========================================================================
// Forms
// ===========================================================================

func TestWord_FormsCached(t *testing.T) {
	t.Parallel()
	w := newRanker(nil).Wrap(entry(t, 1, "買う", 0, "かう", 0, domain.PosV5u), false)

	kanji := w.Forms(domain.SideKanji)
	assert.Contains(t, kanji, "買わない")
	assert.Contains(t, w.Forms(domain.SideReading), "かわない")

	again := w.Forms(domain.SideKanji)
	require.NotEmpty(t, again)
	assert.Same(t, &kanji[0], &again[0])
}

func TestWord_FormsEmpty(t *testing.T) {
	t.Parallel()
	w := newRanker(nil).Wrap(entry(t, 1, "明日", 0, "あした", 0, domain.PosNoun), false)

	assert.Empty(t, w.Forms(domain.SideKanji))
	assert.Empty(t, w.Forms(domain.SideKanji))
}

// ===========================================================================
// Ordering
// ===========================================================================

func TestSortWords(t *testing.T) {
	t.Parallel()
	r := newRanker(nil)
	a := r.Wrap(entry(t, 30, "", 0, "あ", 0), false)
	b := r.Wrap(entry(t, 10, "", 0, "い", 0), false)
	c := r.Wrap(entry(t, 20, "", 0, "う", 0), true)
	d := r.Wrap(entry(t, 5, "", 0, "え", 0), true)

	words := []*Word{a, b, c, d}
	SortWords(words)

	assert.Equal(t, []*Word{d, c, b, a}, words)
}

func TestSelectCandidate(t *testing.T) {
	t.Parallel()
	r := newRanker(tableDecoder(testTable))

	low := entry(t, 1, "明日", codeIchi2, "あした", 0)
	high := entry(t, 2, "明日", codeNf40, "あす", 0)
	high2 := entry(t, 3, "明日", 0, "みょうにち", codeNf40)
	plain := entry(t, 4, "明日", 0, "あした", 0)

	tests := []struct {
		name       string
		candidates []Candidate
		want       int
	}{
		{"empty", nil, -1},
		{"single", []Candidate{{Entry: low}}, 0},
		{"highest rank", []Candidate{{Entry: low}, {Entry: high}}, 1},
		{"rank tie keeps original order", []Candidate{{Entry: low}, {Entry: high}, {Entry: high2}}, 1},
		{"learning beats rank", []Candidate{{Entry: high}, {Entry: plain, Learning: true}}, 1},
		{"learning ties by rank", []Candidate{{Entry: plain, Learning: true}, {Entry: low, Learning: true}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.SelectCandidate(context.Background(), tt.candidates)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRank(t *testing.T) {
	t.Parallel()
	r := newRanker(tableDecoder(testTable))
	w := r.Wrap(entry(t, 1, "明日", codeIchi2, "あした", codeNf40), false)

	rank, err := w.Rank(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, rank)
}
