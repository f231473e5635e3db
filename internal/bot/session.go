package bot

import (
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type state int

const (
	stateIdle state = iota
	stateAwaitAmount
	stateAwaitDescription
	stateAwaitConfirm
	stateAwaitDebtorName
	stateAwaitDebtAmount
	stateAwaitDebtDescription
	stateAwaitDebtConfirm
	stateAwaitDebtDeletionCode
)

// session is the scratch a user accumulates across a flow. It is
// discarded whole on completion, cancellation, or interrupt.
type session struct {
	state state

	isIncome    bool
	amount      decimal.Decimal
	description string

	debtorName      string
	debtorCode      string
	debtAmount      decimal.Decimal
	debtDescription *string

	// recordedAt is snapshotted when the confirmation prompt is built,
	// so the confirmation and the final receipt show the same date.
	recordedAt time.Time
}

// sessions holds at most one session per user. Updates from different
// users can arrive concurrently; a single user's messages are
// serialized by Telegram, so per-session access needs no lock.
type sessions struct {
	mu sync.Mutex
	m  map[int64]*session
}

func newSessions() *sessions {
	return &sessions{m: make(map[int64]*session)}
}

func (s *sessions) get(userID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[userID]
	if !ok {
		sess = &session{}
		s.m[userID] = sess
	}
	return sess
}

func (s *sessions) reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}

func inDebtFlow(st state) bool {
	switch st {
	case stateAwaitDebtorName, stateAwaitDebtAmount, stateAwaitDebtDescription,
		stateAwaitDebtConfirm, stateAwaitDebtDeletionCode:
		return true
	}
	return false
}

var cancelTokens = []string{"/cancel", "لغو", "cancel", btnCancel}

func isCancel(text string) bool {
	low := strings.ToLower(strings.TrimSpace(text))
	for _, t := range cancelTokens {
		if low == strings.ToLower(t) {
			return true
		}
	}
	return false
}

var affirmativeTokens = []string{"بله", "yes", "y", btnYes}

func isAffirmative(text string) bool {
	low := strings.ToLower(strings.TrimSpace(text))
	for _, t := range affirmativeTokens {
		if low == strings.ToLower(t) {
			return true
		}
	}
	return false
}

var skipTokens = []string{btnSkip, "رد کردن", "skip"}

func isSkip(text string) bool {
	low := strings.ToLower(strings.TrimSpace(text))
	for _, t := range skipTokens {
		if low == strings.ToLower(t) {
			return true
		}
	}
	return false
}
