// Package learning stores the user's learning-word list in PostgreSQL.
package learning

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/jlex/internal/adapter/postgres"
	"github.com/heartmarshall/jlex/internal/domain"
)

// insertChunk bounds the rows per INSERT statement.
const insertChunk = 500

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type wordRow struct {
	Kanji   string `db:"kanji"`
	Reading string `db:"reading"`
}

// Repo provides learning list persistence backed by PostgreSQL.
type Repo struct {
	db  postgres.DB
	txm *postgres.TxManager
}

// New creates a learning list repository.
func New(db postgres.DB, txm *postgres.TxManager) *Repo {
	return &Repo{db: db, txm: txm}
}

// List returns the learning words in insertion order.
func (r *Repo) List(ctx context.Context) ([]domain.LearningWord, error) {
	sql, args, err := psql.Select("kanji", "reading").From("learning_words").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []wordRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list learning words: %w", err)
	}

	words := make([]domain.LearningWord, len(rows))
	for i, row := range rows {
		words[i] = domain.LearningWord{Kanji: row.Kanji, Reading: row.Reading}
	}
	return words, nil
}

// ReplaceAll swaps the stored list for words in one transaction. Words with
// neither side set are rejected before anything is written.
func (r *Repo) ReplaceAll(ctx context.Context, words []domain.LearningWord) error {
	var errs []domain.FieldError
	for i, w := range words {
		if w.Kanji == "" && w.Reading == "" {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("words[%d]", i), Message: "kanji or reading is required"})
		}
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}

	return r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.db)

		if _, err := q.Exec(txCtx, `DELETE FROM learning_words`); err != nil {
			return fmt.Errorf("clear learning words: %w", err)
		}

		for start := 0; start < len(words); start += insertChunk {
			end := min(start+insertChunk, len(words))
			insert := psql.Insert("learning_words").Columns("kanji", "reading")
			for _, w := range words[start:end] {
				insert = insert.Values(domain.NormalizeSpelling(w.Kanji), domain.NormalizeSpelling(w.Reading))
			}
			sql, args, err := insert.ToSql()
			if err != nil {
				return fmt.Errorf("build insert: %w", err)
			}
			if _, err := q.Exec(txCtx, sql, args...); err != nil {
				return postgres.MapError(err, "learning_words from row", start)
			}
		}
		return nil
	})
}
