package analysis

import "sync"

// studentLocks не даёт запустить два анализа одного студента одновременно.
// Между разными студентами общего состояния нет, их можно гонять параллельно.
type studentLocks struct {
	mu   sync.Mutex
	byID map[int64]*sync.Mutex
}

func newStudentLocks() *studentLocks {
	return &studentLocks{byID: make(map[int64]*sync.Mutex)}
}

func (l *studentLocks) lock(studentID int64) func() {
	l.mu.Lock()
	m, ok := l.byID[studentID]
	if !ok {
		m = &sync.Mutex{}
		l.byID[studentID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return func() { m.Unlock() }
}
