package widget

import "time"

// Notice is a one-way message from a controller to the background agent.
type Notice struct {
	Widget string    `json:"widget"`
	Kind   string    `json:"kind"`
	Text   string    `json:"text,omitempty"`
	At     time.Time `json:"at,omitempty"`
}

// Notice kinds understood by the background agent.
const (
	NoticeBadge       = "badge"
	NoticeAlarmStart  = "alarm-start"
	NoticeAlarmCancel = "alarm-cancel"
)

// Outbox carries notices with at-most-once delivery: Post never blocks and
// drops the notice when the buffer is full. Widget state must never depend on
// a notice being delivered.
type Outbox struct {
	ch chan Notice
}

// NewOutbox returns an outbox buffering up to size notices.
func NewOutbox(size int) *Outbox {
	if size <= 0 {
		size = 16
	}
	return &Outbox{ch: make(chan Notice, size)}
}

// Post enqueues n and reports whether it was accepted.
func (o *Outbox) Post(n Notice) bool {
	if o == nil {
		return false
	}
	select {
	case o.ch <- n:
		return true
	default:
		return false
	}
}

// C is the receive side for the agent.
func (o *Outbox) C() <-chan Notice {
	return o.ch
}

// Drain returns every queued notice without waiting.
func (o *Outbox) Drain() []Notice {
	var out []Notice
	for {
		select {
		case n := <-o.ch:
			out = append(out, n)
		default:
			return out
		}
	}
}
