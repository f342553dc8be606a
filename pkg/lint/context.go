package lint

import (
	"github.com/macropower/lv2lint/pkg/whitelist"
)

// Session holds the process-wide lint settings shared by every subject.
type Session struct {
	Whitelist *whitelist.Set
	Policy    Policy
	Debug     bool
}

// NewSession creates a new [Session]. The policy is normalized so that every
// severity that fails the run is also displayed.
func NewSession(policy Policy, wl *whitelist.Set) *Session {
	if wl == nil {
		wl = whitelist.NewSet()
	}

	return &Session{
		Policy:    policy.Normalize(),
		Whitelist: wl,
	}
}

// IsWhitelisted reports whether the test named test is whitelisted for the
// subject identified by subject.
func (s *Session) IsWhitelisted(subject, test string) bool {
	return s.Whitelist.Tests.IsWhitelisted(subject, test)
}

// Context is the state passed to every check of one subject. A new Context is
// created for every subject, so scratch values never leak between subjects.
type Context[S any] struct {
	Session *Session
	Scratch *Bag
	Subject S
}

// NewContext creates a new [Context] for subject.
func NewContext[S any](session *Session, subject S) *Context[S] {
	return &Context[S]{
		Session: session,
		Subject: subject,
		Scratch: NewBag(),
	}
}
