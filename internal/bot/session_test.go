package bot

import (
	"testing"
	"time"
)

func entryCount(s *SessionStore) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.senders)
}

func TestSessionStoreKeepsActiveSessions(t *testing.T) {
	s := NewSessionStore(0)

	unlock := s.Lock("+100")
	s.Put("+100", &Session{Flow: FlowManualAdd, Step: StepName})
	unlock()

	if n := entryCount(s); n != 1 {
		t.Fatalf("active session must keep its entry, got %d", n)
	}
	unlock = s.Lock("+100")
	if s.Get("+100") == nil {
		t.Fatal("session lost across lock cycles")
	}
	unlock()
}

func TestSessionStorePrunesIdleSenders(t *testing.T) {
	s := NewSessionStore(0)

	// a message that never opened a flow leaves nothing behind
	unlock := s.Lock("+100")
	unlock()
	if n := entryCount(s); n != 0 {
		t.Fatalf("idle sender left %d entries", n)
	}

	// an ended flow is swept on unlock
	unlock = s.Lock("+200")
	s.Put("+200", &Session{Flow: FlowPay, Step: StepOneLine})
	s.End("+200")
	unlock()
	if n := entryCount(s); n != 0 {
		t.Fatalf("ended session left %d entries", n)
	}
}

func TestSessionStorePrunesExpiredSessions(t *testing.T) {
	s := NewSessionStore(10 * time.Millisecond)

	unlock := s.Lock("+100")
	s.Put("+100", &Session{Flow: FlowManualAdd, Step: StepName})
	unlock()
	time.Sleep(25 * time.Millisecond)

	unlock = s.Lock("+100")
	if s.Get("+100") != nil {
		t.Fatal("expired session survived")
	}
	unlock()
	if n := entryCount(s); n != 0 {
		t.Fatalf("expired session left %d entries", n)
	}
}
