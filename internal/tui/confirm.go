package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// deleteConfirmExpiredMsg disarms the confirm if token is still current.
type deleteConfirmExpiredMsg struct {
	token int
}

// deleteConfirm tracks the two-press delete. Each arm gets a fresh token so
// an expiry scheduled for an earlier arm cannot disarm a later one.
type deleteConfirm struct {
	id    uint
	token int
	armed bool
}

// press handles a delete press on id. It returns true when the press
// confirms a delete; otherwise it (re)arms for id and returns the expiry tick.
func (d *deleteConfirm) press(id uint, window time.Duration) (bool, tea.Cmd) {
	if d.armed && d.id == id {
		d.reset()
		return true, nil
	}
	d.token++
	d.id = id
	d.armed = true
	token := d.token
	return false, tea.Tick(window, func(time.Time) tea.Msg {
		return deleteConfirmExpiredMsg{token: token}
	})
}

func (d *deleteConfirm) expire(token int) {
	if d.armed && d.token == token {
		d.reset()
	}
}

func (d *deleteConfirm) isArmed(id uint) bool {
	return d.armed && d.id == id
}

func (d *deleteConfirm) reset() {
	d.armed = false
	d.id = 0
}
