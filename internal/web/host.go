package web

import "flavorforge/internal/display"

// browserPrinter queues window.print() for the next page load. Every browser
// that renders the page can print.
type browserPrinter struct {
	sess *session
}

func (p browserPrinter) Available() bool { return true }

func (p browserPrinter) Print() error {
	p.sess.pending = append(p.sess.pending, clientAction{Print: true})
	return nil
}

// browserSharer queues navigator.share() for the next page load. Support is
// what the page detected when the share form was posted.
type browserSharer struct {
	sess      *session
	supported bool
}

func (s browserSharer) Available() bool { return s.supported }

func (s browserSharer) Share(data display.ShareData) error {
	s.sess.pending = append(s.sess.pending, clientAction{Share: &data})
	return nil
}
