package engine

import "github.com/kinstone/starbar/internal/domain"

// Acknowledgment transitions. Each donation carries two flags set by the
// reader dashboard (read) and the overlay (shown); whichever flag is set
// second deletes the record, so the queue never rests with both flags true.

// MarkRead acknowledges a donation from the reader side. If the overlay has
// already shown it, the record is removed from the queue.
func (l *Ledger) MarkRead(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	if l.queue[i].Shown {
		l.queue = append(l.queue[:i], l.queue[i+1:]...)
		return nil
	}
	l.queue[i].Read = true
	return nil
}

// MarkShown acknowledges a donation from the overlay side. If the reader has
// already read it, the record is removed from the queue.
func (l *Ledger) MarkShown(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	if l.queue[i].Read {
		l.queue = append(l.queue[:i], l.queue[i+1:]...)
		return nil
	}
	l.queue[i].Shown = true
	return nil
}

// ClearAll resets the display queue to the pre-acknowledged placeholder
// between events. The seen set is untouched, so cleared donations can never
// re-enter through a later poll.
func (l *Ledger) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queue = []domain.Donation{domain.Placeholder()}
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.queue {
		if l.queue[i].ID == id {
			return i
		}
	}
	return -1
}
