//go:build integration

package dictionary_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	postgres "github.com/heartmarshall/jlex/internal/adapter/postgres"
	"github.com/heartmarshall/jlex/internal/adapter/postgres/dictionary"
	"github.com/heartmarshall/jlex/internal/adapter/postgres/learning"
	"github.com/heartmarshall/jlex/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/jlex/internal/domain"
)

func seed(t *testing.T) (*dictionary.Repo, *learning.Repo, []*domain.Entry) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	txm := postgres.NewTxManager(pool)
	repo := dictionary.New(pool, txm, 10, slog.New(slog.NewTextHandler(io.Discard, nil)))

	mk := func(seq int, kanji, reading string, code domain.PriorityCode, pos ...domain.PartOfSpeech) *domain.Entry {
		var k []domain.Spelling
		if kanji != "" {
			k = []domain.Spelling{{Text: kanji, Priority: code}}
		}
		e, err := domain.NewEntry(uuid.New(), seq, k, []domain.Spelling{{Text: reading, Priority: code}},
			[]domain.Sense{{Meaning: "m", Locale: "en", PartsOfSpeech: pos}})
		require.NoError(t, err)
		return e
	}
	entries := []*domain.Entry{
		mk(1, "明日", "あした", 1, domain.PosNounTemporal),
		mk(2, "明日", "あす", 2, domain.PosNounTemporal),
		mk(3, "食べる", "たべる", 0, domain.PosV1),
		mk(4, "", "すし", 0, domain.PosNoun),
	}

	ctx := context.Background()
	require.NoError(t, repo.InsertPriorities(ctx, map[domain.PriorityCode][]domain.Priority{
		1: {{Type: domain.PriorityIchi, Rank: 2}},
		2: {{Type: domain.PriorityNf, Rank: 39}},
	}))
	n, err := repo.Insert(ctx, entries)
	require.NoError(t, err)
	require.Equal(t, len(entries), n)

	return repo, learning.New(pool, txm), entries
}

func TestRepo_Integration_ReadBack(t *testing.T) {
	repo, _, entries := seed(t)
	ctx := context.Background()

	got, err := repo.GetByID(ctx, entries[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "食べる", got.Headline(domain.SideKanji))
	assert.Equal(t, []domain.PartOfSpeech{domain.PosV1}, got.PartsOfSpeech())

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(entries))
	for i, e := range all {
		assert.Equal(t, entries[i].ID, e.ID)
	}

	found, err := repo.FindBySpelling(ctx, "明日")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 1, found[0].Seq)
}

func TestRepo_Integration_InsertIsIdempotent(t *testing.T) {
	repo, _, entries := seed(t)

	n, err := repo.Insert(context.Background(), entries)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRepo_Integration_SearchBest(t *testing.T) {
	repo, learn, entries := seed(t)
	ctx := context.Background()

	res, err := repo.SearchBest(ctx, "明日は")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 2, res.Length)
	assert.Equal(t, entries[1].ID, res.Entry().ID, "higher ranked reading wins")

	require.NoError(t, learn.ReplaceAll(ctx, []domain.LearningWord{{Kanji: "明日", Reading: "あした"}}))
	res, err = repo.SearchBest(ctx, "明日は")
	require.NoError(t, err)
	assert.Equal(t, entries[0].ID, res.Entry().ID, "learning word wins")
	assert.True(t, res.DerivedWord)

	res, err = repo.SearchBest(ctx, "猫")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestRepo_Integration_Priorities(t *testing.T) {
	repo, _, _ := seed(t)
	ctx := context.Background()

	table, err := repo.Priorities(ctx)
	require.NoError(t, err)
	assert.Len(t, table, 2)

	tags, err := repo.DecodePriority(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.Priority{{Type: domain.PriorityNf, Rank: 39}}, tags)
}
