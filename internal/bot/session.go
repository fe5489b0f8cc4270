package bot

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"localledger/internal/services"
)

type Flow int

const (
	FlowManualAdd Flow = iota + 1
	FlowBarcodeAdd
	FlowManualPrice
	FlowBarcodePrice
	FlowOrder
	FlowBarcodeOrder
	FlowAddCreditor
	FlowDelCreditor
	FlowPay
	FlowCreditCheck
	FlowVoice
)

type Step int

const (
	StepName Step = iota + 1
	StepPrice
	StepQty
	StepBarcode  // awaiting a barcode image
	StepDetails  // awaiting "qty price" after a scan
	StepCustomer // awaiting "name phone"
	StepItems    // awaiting "product qty" lines or done
	StepItemQty  // awaiting a quantity for the last scanned product
	StepOneLine  // whole input consumed by one message
	StepVoiceNote
)

// Session is the in-progress state of one multi-step command for one sender.
type Session struct {
	Flow Flow
	Step Step

	Name     string
	Price    decimal.Decimal
	Barcode  string
	Customer services.Customer
	Lines    []services.OrderLine
	Pending  string // product awaiting its quantity (barcode order)
	OnCredit bool
	Added    int

	LastSID string
	Touched time.Time
}

type senderState struct {
	mu   sync.Mutex
	sess *Session
}

// SessionStore keys sessions by sender and serializes processing per sender,
// so duplicate gateway deliveries can never race a transition.
type SessionStore struct {
	mu      sync.Mutex
	timeout time.Duration
	senders map[string]*senderState
}

func NewSessionStore(timeout time.Duration) *SessionStore {
	return &SessionStore{timeout: timeout, senders: map[string]*senderState{}}
}

// Lock acquires the per-sender mutex and returns the unlock func. Unlocking
// prunes the sender's entry when no session is left, so the map only holds
// senders with an active flow.
func (s *SessionStore) Lock(sender string) func() {
	for {
		s.mu.Lock()
		st, ok := s.senders[sender]
		if !ok {
			st = &senderState{}
			s.senders[sender] = st
		}
		s.mu.Unlock()

		st.mu.Lock()

		// The entry may have been pruned between the map lookup and the
		// lock; start over on the live entry.
		s.mu.Lock()
		current := s.senders[sender] == st
		s.mu.Unlock()
		if !current {
			st.mu.Unlock()
			continue
		}

		return func() {
			s.mu.Lock()
			if st.sess == nil && s.senders[sender] == st {
				delete(s.senders, sender)
			}
			s.mu.Unlock()
			st.mu.Unlock()
		}
	}
}

// Get returns the active session, discarding it first if the idle timeout
// has passed. Callers must hold the sender lock.
func (s *SessionStore) Get(sender string) *Session {
	st := s.state(sender)
	if st == nil || st.sess == nil {
		return nil
	}
	if s.timeout > 0 && time.Since(st.sess.Touched) > s.timeout {
		st.sess = nil
		return nil
	}
	return st.sess
}

func (s *SessionStore) Put(sender string, sess *Session) {
	sess.Touched = time.Now()
	s.mu.Lock()
	st, ok := s.senders[sender]
	if !ok {
		st = &senderState{}
		s.senders[sender] = st
	}
	s.mu.Unlock()
	st.sess = sess
}

func (s *SessionStore) End(sender string) {
	if st := s.state(sender); st != nil {
		st.sess = nil
	}
}

// Duplicate reports whether sid repeats the message that produced the
// session's current state.
func (s *SessionStore) Duplicate(sender, sid string) bool {
	if sid == "" {
		return false
	}
	sess := s.Get(sender)
	return sess != nil && sess.LastSID == sid
}

// MarkSID records the gateway id of the message just processed.
func (s *SessionStore) MarkSID(sender, sid string) {
	if sid == "" {
		return
	}
	if sess := s.Get(sender); sess != nil {
		sess.LastSID = sid
		sess.Touched = time.Now()
	}
}

func (s *SessionStore) state(sender string) *senderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.senders[sender]
}
