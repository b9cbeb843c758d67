package ranking

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/heartmarshall/jlex/internal/domain"
)

// Word is an Entry with lazily computed derived forms and annotation mask.
// It is safe for concurrent use.
type Word struct {
	ranker   *Ranker
	entry    *domain.Entry
	learning bool

	formsOnce [2]sync.Once
	forms     [2][]string

	mu   sync.Mutex
	mask atomic.Uint32
}

// Entry returns the wrapped entry.
func (w *Word) Entry() *domain.Entry { return w.entry }

// IsLearning reports whether the word is on the learning list.
func (w *Word) IsLearning() bool { return w.learning }

// Forms returns the derived forms of side. The slice is shared and must
// not be modified.
func (w *Word) Forms(side domain.Side) []string {
	i := 0
	if side == domain.SideKanji {
		i = 1
	}
	w.formsOnce[i].Do(func() {
		w.forms[i] = w.ranker.engine.DeriveForms(w.entry, side)
	})
	return w.forms[i]
}

// Mask returns the packed annotation mask, computing it on first use.
// Failures are not cached.
func (w *Word) Mask(ctx context.Context) (Mask, error) {
	if m := Mask(w.mask.Load()); m.IsComputed() {
		return m, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if m := Mask(w.mask.Load()); m.IsComputed() {
		return m, nil
	}
	m, err := w.ranker.computeMask(ctx, w.entry, w.learning)
	if err != nil {
		return 0, err
	}
	w.mask.Store(uint32(m))
	return m, nil
}

// AnnotationMask returns the flags of one side.
func (w *Word) AnnotationMask(ctx context.Context, side domain.Side) (Mask, error) {
	m, err := w.Mask(ctx)
	if err != nil {
		return 0, err
	}
	return m.Side(side), nil
}

// Rank returns the entry's headline priority rank.
func (w *Word) Rank(ctx context.Context) (int, error) {
	return w.ranker.Rank(ctx, w.entry)
}
