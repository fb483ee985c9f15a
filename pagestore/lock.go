// OS-level advisory locking for the database environment.
//
// Although one heapdb process runs statements one at a time, nothing
// stops a second process from pointing sql5300 at the same dbenvpath.
// fileLock guards against that with an exclusive flock(2) / LockFileEx held
// for the lifetime of the open environment.
package pagestore

import (
	"os"
	"sync"
)

// LockMode selects shared (read) or exclusive (write) locking.
type LockMode int

const (
	LockShared LockMode = iota
	LockExclusive
)

// fileLock coordinates an OS-level lock with safe handle teardown: mu
// serialises the flock syscall against a concurrent Close on the same fd.
type fileLock struct {
	mu sync.Mutex
	f  *os.File
}

func (l *fileLock) Lock(mode LockMode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	return l.lock(mode)
}

func (l *fileLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	return l.unlock()
}

func (l *fileLock) setFile(f *os.File) {
	l.mu.Lock()
	l.f = f
	l.mu.Unlock()
}
