package testkit

import (
	"slices"

	"phs/internal/diag"
	"phs/internal/session"
)

// NewSession returns a session collecting diagnostics into a fresh bag.
func NewSession(opts session.Options) (*session.Session, *diag.Bag) {
	bag := diag.NewBag(0)
	return session.New(diag.BagReporter{Bag: bag}, nil, opts), bag
}

// Codes lists the diagnostic codes in the bag in report order.
func Codes(bag *diag.Bag) []diag.Code {
	items := bag.Items()
	out := make([]diag.Code, len(items))
	for i, d := range items {
		out[i] = d.Code
	}
	return out
}

// HasNote reports whether some diagnostic with code carries a note msg.
func HasNote(bag *diag.Bag, code diag.Code, msg string) bool {
	for _, d := range bag.Items() {
		if d.Code != code {
			continue
		}
		if slices.ContainsFunc(d.Notes, func(n diag.Note) bool { return n.Msg == msg }) {
			return true
		}
	}
	return false
}

// Messages lists the diagnostic messages in report order.
func Messages(bag *diag.Bag) []string {
	items := bag.Items()
	out := make([]string, len(items))
	for i, d := range items {
		out[i] = d.Message
	}
	return out
}
