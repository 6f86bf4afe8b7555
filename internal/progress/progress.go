// Package progress reports work-done progress for long-running analyser
// checks, wrapping each check that runs on open/change/save in a
// begin/report/end progress scope.
package progress

import (
	"sync/atomic"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var tokenCounter int64

// NewToken mints a process-unique progress token.
func NewToken() protocol.ProgressToken {
	return atomic.AddInt64(&tokenCounter, 1)
}

// Bar reports begin/report/end work-done-progress notifications for one
// title+token pair across the lifetime of a single analyser check.
type Bar struct {
	context *glsp.Context
	token   protocol.ProgressToken
	title   string
}

// Begin creates the token on the client (best-effort: a client that never
// answers window/workDoneProgress/create simply won't show a progress UI)
// and sends the "begin" notification.
func Begin(context *glsp.Context, title string, token protocol.ProgressToken) *Bar {
	b := &Bar{context: context, token: token, title: title}
	if context == nil {
		return b
	}

	_ = context.Call("window/workDoneProgress/create", protocol.WorkDoneProgressCreateParams{
		Token: token,
	}, nil)

	context.Notify("$/progress", protocol.ProgressParams{
		Token: token,
		Value: protocol.WorkDoneProgressBegin{
			Kind:  "begin",
			Title: title,
		},
	})
	return b
}

// Report sends a "report" notification with the given percentage (0-100)
// and status message.
func (b *Bar) Report(message string, percentage *uint32) {
	if b.context == nil {
		return
	}
	b.context.Notify("$/progress", protocol.ProgressParams{
		Token: b.token,
		Value: protocol.WorkDoneProgressReport{
			Kind:       "report",
			Message:    &message,
			Percentage: percentage,
		},
	})
}

// End sends the "end" notification, closing out the bar.
func (b *Bar) End() {
	if b.context == nil {
		return
	}
	b.context.Notify("$/progress", protocol.ProgressParams{
		Token: b.token,
		Value: protocol.WorkDoneProgressEnd{
			Kind: "end",
		},
	})
}

// Run wraps fn with Begin/End so every check reports progress for its
// full duration regardless of how it returns.
func Run(context *glsp.Context, title string, token protocol.ProgressToken, fn func()) {
	bar := Begin(context, title, token)
	defer bar.End()
	fn()
}
