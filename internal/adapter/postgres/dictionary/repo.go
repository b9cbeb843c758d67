// Package dictionary implements the dictionary repository using PostgreSQL.
// Entries are stored as an aggregate of entries, spellings and senses;
// priority codes resolve through the priority_tags table.
package dictionary

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/jlex/internal/adapter/postgres"
	"github.com/heartmarshall/jlex/internal/domain"
	"github.com/heartmarshall/jlex/internal/ranking"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides dictionary persistence backed by PostgreSQL.
type Repo struct {
	db         postgres.DB
	txm        *postgres.TxManager
	ranker     *ranking.Ranker
	priorities *dataloader.Loader[domain.PriorityCode, []domain.Priority]
	log        *slog.Logger
}

// New creates a dictionary repository. batch caps the number of priority
// codes decoded per query; zero selects the default.
func New(db postgres.DB, txm *postgres.TxManager, batch int, logger *slog.Logger) *Repo {
	if batch <= 0 {
		batch = maxBatch
	}
	r := &Repo{db: db, txm: txm, log: logger.With("component", "dictionary_repo")}
	r.priorities = dataloader.NewBatchedLoader(
		r.priorityBatchFn,
		dataloader.WithWait[domain.PriorityCode, []domain.Priority](wait),
		dataloader.WithBatchCapacity[domain.PriorityCode, []domain.Priority](batch),
	)
	// Candidate selection only decodes priorities, so no engine or classifier.
	r.ranker = ranking.New(nil, nil, r)
	return r
}

// ---------------------------------------------------------------------------
// Row types
// ---------------------------------------------------------------------------

type entryRow struct {
	ID  uuid.UUID `db:"id"`
	Seq int       `db:"seq"`
}

type spellingRow struct {
	EntryID  uuid.UUID `db:"entry_id"`
	Side     string    `db:"side"`
	Position int       `db:"position"`
	Text     string    `db:"text"`
	Priority int16     `db:"priority_code"`
}

type senseRow struct {
	EntryID  uuid.UUID `db:"entry_id"`
	Position int       `db:"position"`
	Meaning  string    `db:"meaning"`
	Locale   string    `db:"locale"`
	Pos      []string  `db:"pos"`
}

type priorityRow struct {
	Code int16  `db:"code"`
	Type string `db:"type"`
	Rank int    `db:"rank"`
}

type matchRow struct {
	Text    string    `db:"text"`
	EntryID uuid.UUID `db:"entry_id"`
	Seq     int       `db:"seq"`
}

type learningRow struct {
	Kanji   string `db:"kanji"`
	Reading string `db:"reading"`
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns the entry with its spellings and senses.
// Returns domain.ErrNotFound if it does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := selectRows[entryRow](ctx, q,
		psql.Select("id", "seq").From("entries").Where("id = ?", id))
	if err != nil {
		return nil, postgres.MapError(err, "entry", id)
	}
	if len(rows) == 0 {
		return nil, postgres.MapError(pgx.ErrNoRows, "entry", id)
	}

	entries, err := r.loadEntries(ctx, q, rows, false)
	if err != nil {
		return nil, err
	}
	return entries[0], nil
}

// ListAll returns every entry ordered by sequence number. Entries and their
// children are read from one snapshot.
func (r *Repo) ListAll(ctx context.Context) ([]*domain.Entry, error) {
	entries := []*domain.Entry{}
	err := r.txm.RunInSnapshot(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.db)

		rows, err := selectRows[entryRow](txCtx, q,
			psql.Select("id", "seq").From("entries").OrderBy("seq"))
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		entries, err = r.loadEntries(txCtx, q, rows, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// FindBySpelling returns the entries carrying spelling on either side,
// ordered by sequence number.
func (r *Repo) FindBySpelling(ctx context.Context, spelling string) ([]*domain.Entry, error) {
	spelling = domain.NormalizeSpelling(spelling)
	if spelling == "" {
		return []*domain.Entry{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	rows, err := selectRows[entryRow](ctx, q,
		psql.Select("e.id", "e.seq").Distinct().
			From("entries e").
			Join("spellings s ON s.entry_id = e.id").
			Where(squirrel.Eq{"s.text": spelling}).
			OrderBy("e.seq"))
	if err != nil {
		return nil, postgres.MapError(err, "spelling", spelling)
	}
	if len(rows) == 0 {
		return []*domain.Entry{}, nil
	}
	return r.loadEntries(ctx, q, rows, false)
}

// SearchBest returns the entries whose spelling is the longest prefix of
// fragment, or nil. Inflected forms are not stored, so only exact
// spellings match.
func (r *Repo) SearchBest(ctx context.Context, fragment string) (*domain.SearchResult, error) {
	runes := []rune(fragment)
	if len(runes) == 0 {
		return nil, nil
	}
	prefixes := make([]string, 0, len(runes))
	for i := len(runes); i > 0; i-- {
		prefixes = append(prefixes, string(runes[:i]))
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	matches, err := selectRows[matchRow](ctx, q,
		psql.Select("s.text", "s.entry_id", "e.seq").
			From("spellings s").
			Join("entries e ON e.id = s.entry_id").
			Where(squirrel.Eq{"s.text": prefixes}).
			OrderBy("char_length(s.text) DESC", "e.seq"))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", fragment, err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	longest := matches[0].Text
	var rows []entryRow
	seen := make(map[uuid.UUID]bool)
	for _, m := range matches {
		if m.Text != longest {
			break
		}
		if seen[m.EntryID] {
			continue
		}
		seen[m.EntryID] = true
		rows = append(rows, entryRow{ID: m.EntryID, Seq: m.Seq})
	}

	entries, err := r.loadEntries(ctx, q, rows, false)
	if err != nil {
		return nil, err
	}
	learning, err := r.learningFor(ctx, q, entries)
	if err != nil {
		return nil, err
	}

	candidates := make([]ranking.Candidate, len(entries))
	for i, e := range entries {
		candidates[i] = ranking.Candidate{Entry: e, Learning: learning[i]}
	}
	selected, err := r.ranker.SelectCandidate(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", fragment, err)
	}

	return &domain.SearchResult{
		Entries:     entries,
		Selected:    selected,
		Length:      utf8.RuneCountInString(longest),
		FullMatch:   true,
		DerivedWord: candidates[selected].Learning,
	}, nil
}

// learningFor reports, per entry, whether a learning-list word matches it.
func (r *Repo) learningFor(ctx context.Context, q postgres.Querier, entries []*domain.Entry) ([]bool, error) {
	var kanji, readings []string
	for _, e := range entries {
		for _, s := range e.Spellings(domain.SideKanji) {
			kanji = append(kanji, s.Text)
		}
		for _, s := range e.Spellings(domain.SideReading) {
			readings = append(readings, s.Text)
		}
	}

	rows, err := selectRows[learningRow](ctx, q,
		psql.Select("kanji", "reading").From("learning_words").
			Where(squirrel.Or{squirrel.Eq{"kanji": kanji}, squirrel.Eq{"reading": readings}}))
	if err != nil {
		return nil, fmt.Errorf("match learning words: %w", err)
	}

	out := make([]bool, len(entries))
	for i, e := range entries {
		for _, row := range rows {
			if (domain.LearningWord{Kanji: row.Kanji, Reading: row.Reading}).Matches(e) {
				out[i] = true
				break
			}
		}
	}
	return out, nil
}

// DecodePriority resolves code into its tags. Lookups are batched and
// cached for the lifetime of the repository; failures are not cached.
// Unknown codes have no tags.
func (r *Repo) DecodePriority(ctx context.Context, code domain.PriorityCode) ([]domain.Priority, error) {
	tags, err := r.priorities.Load(ctx, code)()
	if err != nil {
		r.priorities.Clear(ctx, code)
		return nil, err
	}
	return tags, nil
}

// Priorities returns the whole priority code table.
func (r *Repo) Priorities(ctx context.Context) (map[domain.PriorityCode][]domain.Priority, error) {
	rows, err := selectRows[priorityRow](ctx, postgres.QuerierFromCtx(ctx, r.db),
		psql.Select("code", "type", "rank").From("priority_tags").OrderBy("code", "rank DESC"))
	if err != nil {
		return nil, fmt.Errorf("list priorities: %w", err)
	}
	return r.groupPriorities(rows), nil
}

func (r *Repo) priorityBatchFn(ctx context.Context, keys []domain.PriorityCode) []*dataloader.Result[[]domain.Priority] {
	codes := make([]int16, len(keys))
	for i, k := range keys {
		codes[i] = int16(k)
	}

	rows, err := selectRows[priorityRow](ctx, postgres.QuerierFromCtx(ctx, r.db),
		psql.Select("code", "type", "rank").From("priority_tags").
			Where(squirrel.Eq{"code": codes}).
			OrderBy("code", "rank DESC"))
	if err != nil {
		return errorResults[[]domain.Priority](len(keys), fmt.Errorf("decode priorities: %w", err))
	}

	r.log.DebugContext(ctx, "priority batch", slog.Int("codes", len(keys)), slog.Int("tags", len(rows)))
	return mapResults(keys, r.groupPriorities(rows), emptySlice[domain.Priority])
}

func (r *Repo) groupPriorities(rows []priorityRow) map[domain.PriorityCode][]domain.Priority {
	grouped := make(map[domain.PriorityCode][]domain.Priority)
	for _, row := range rows {
		p := domain.Priority{Type: domain.PriorityType(row.Type), Rank: row.Rank}
		if !p.Type.IsValid() {
			r.log.Warn("unknown priority type", slog.Int("code", int(row.Code)), slog.String("type", row.Type))
			continue
		}
		code := domain.PriorityCode(row.Code)
		grouped[code] = append(grouped[code], p)
	}
	return grouped
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Insert stores entries and their children in one transaction. Entries
// whose id already exists are skipped. Returns the number of new entries.
func (r *Repo) Insert(ctx context.Context, entries []*domain.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	var inserted int
	err := r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		batch := &pgx.Batch{}
		for _, e := range entries {
			batch.Queue(
				`INSERT INTO entries (id, seq) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
				e.ID, e.Seq,
			)
		}
		n, err := r.sendBatchExec(txCtx, batch)
		if err != nil {
			return fmt.Errorf("insert entries: %w", err)
		}
		inserted = n

		batch = &pgx.Batch{}
		for _, e := range entries {
			for _, side := range []domain.Side{domain.SideReading, domain.SideKanji} {
				for i, s := range e.Spellings(side) {
					batch.Queue(
						`INSERT INTO spellings (entry_id, side, position, text, priority_code)
						 VALUES ($1, $2, $3, $4, $5)
						 ON CONFLICT (entry_id, side, position) DO NOTHING`,
						e.ID, side.String(), i, s.Text, int16(s.Priority),
					)
				}
			}
			for i, s := range e.Senses() {
				pos := make([]string, len(s.PartsOfSpeech))
				for j, p := range s.PartsOfSpeech {
					pos[j] = p.String()
				}
				batch.Queue(
					`INSERT INTO senses (entry_id, position, meaning, locale, pos)
					 VALUES ($1, $2, $3, $4, $5)
					 ON CONFLICT (entry_id, position) DO NOTHING`,
					e.ID, i, s.Meaning, s.Locale, pos,
				)
			}
		}
		if _, err := r.sendBatchExec(txCtx, batch); err != nil {
			return fmt.Errorf("insert entry children: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// InsertPriorities stores the priority code table. Existing tags are kept.
func (r *Repo) InsertPriorities(ctx context.Context, table map[domain.PriorityCode][]domain.Priority) error {
	if len(table) == 0 {
		return nil
	}

	insert := psql.Insert("priority_tags").Columns("code", "type", "rank")
	for code, tags := range table {
		for _, p := range tags {
			insert = insert.Values(int16(code), p.Type.String(), p.Rank)
		}
	}
	sql, args, err := insert.Suffix("ON CONFLICT (code, type) DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("build priority insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert priorities: %w", err)
	}
	return nil
}

func (r *Repo) sendBatchExec(ctx context.Context, batch *pgx.Batch) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("batch exec: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// loadEntries fetches children for rows and assembles entries in row order.
// all skips the entry_id filter when rows cover the whole table.
func (r *Repo) loadEntries(ctx context.Context, q postgres.Querier, rows []entryRow, all bool) ([]*domain.Entry, error) {
	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	spellingQuery := psql.Select("entry_id", "side", "position", "text", "priority_code").
		From("spellings").OrderBy("entry_id", "side", "position")
	senseQuery := psql.Select("entry_id", "position", "meaning", "locale", "pos").
		From("senses").OrderBy("entry_id", "position")
	if !all {
		spellingQuery = spellingQuery.Where(squirrel.Eq{"entry_id": ids})
		senseQuery = senseQuery.Where(squirrel.Eq{"entry_id": ids})
	}

	spellings, err := selectRows[spellingRow](ctx, q, spellingQuery)
	if err != nil {
		return nil, fmt.Errorf("load spellings: %w", err)
	}
	senses, err := selectRows[senseRow](ctx, q, senseQuery)
	if err != nil {
		return nil, fmt.Errorf("load senses: %w", err)
	}

	kanji := make(map[uuid.UUID][]domain.Spelling, len(rows))
	readings := make(map[uuid.UUID][]domain.Spelling, len(rows))
	for _, s := range spellings {
		sp := domain.Spelling{Text: s.Text, Priority: domain.PriorityCode(s.Priority)}
		switch s.Side {
		case domain.SideKanji.String():
			kanji[s.EntryID] = append(kanji[s.EntryID], sp)
		case domain.SideReading.String():
			readings[s.EntryID] = append(readings[s.EntryID], sp)
		default:
			r.log.Warn("unknown spelling side", slog.String("entry_id", s.EntryID.String()), slog.String("side", s.Side))
		}
	}

	grouped := make(map[uuid.UUID][]domain.Sense, len(rows))
	for _, s := range senses {
		sense := domain.Sense{Meaning: s.Meaning, Locale: s.Locale}
		for _, tag := range s.Pos {
			p, ok := domain.ParsePartOfSpeech(tag)
			if !ok {
				r.log.Debug("unknown part of speech", slog.String("entry_id", s.EntryID.String()), slog.String("pos", tag))
				continue
			}
			sense.PartsOfSpeech = append(sense.PartsOfSpeech, p)
		}
		grouped[s.EntryID] = append(grouped[s.EntryID], sense)
	}

	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := domain.NewEntry(row.ID, row.Seq, kanji[row.ID], readings[row.ID], grouped[row.ID])
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", row.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func selectRows[T any](ctx context.Context, q postgres.Querier, query squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []T
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for missing keys.
func mapResults[K comparable, V any](keys []K, grouped map[K]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := grouped[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Data: defaultFn()}
		}
	}
	return results
}

func emptySlice[T any]() []T {
	return []T{}
}
