package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/mandalnilabja/logview/internal/contentlog"
)

// globalKeys handles keys that work everywhere.
func (v *View) globalKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEsc:
		switch {
		case v.modalOpen():
			v.ctrl.CloseContent()
		case v.form.HasFocus():
			v.app.SetFocus(v.table)
		default:
			v.app.Stop()
		}
		return nil
	case tcell.KeyF2:
		if !v.modalOpen() {
			v.app.SetFocus(v.form)
		}
		return nil
	case tcell.KeyCtrlC:
		v.app.Stop()
		return nil
	}
	return event
}

// tableKeys handles single-letter commands while the table has focus.
func (v *View) tableKeys(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune {
		return event
	}

	st := v.ctrl.State()
	q := st.Query
	switch event.Rune() {
	case 'n':
		if q.Page < contentlog.PageCount(st.Total, q.PageSize) {
			v.ctrl.SetPage(q.Page + 1)
		}
	case 'p':
		v.ctrl.SetPage(q.Page - 1)
	case 's':
		_ = v.ctrl.SetPageSize(nextPageSize(q.PageSize))
	case 'r':
		go v.ctrl.Refresh(v.ctx)
	case 't':
		if e, ok := v.selected(); ok {
			_ = v.ctrl.CopyField(e.TokenName)
		}
	case 'm':
		if e, ok := v.selected(); ok {
			_ = v.ctrl.CopyField(e.ModelName)
		}
	default:
		return event
	}
	return nil
}

// modalKeys handles the content view.
func (v *View) modalKeys(event *tcell.EventKey) *tcell.EventKey {
	switch {
	case event.Key() == tcell.KeyTab || event.Key() == tcell.KeyBacktab:
		v.tab = 1 - v.tab
		v.renderContent()
		return nil
	case event.Key() == tcell.KeyRune && event.Rune() == 'c':
		_ = v.ctrl.CopyField(v.activeContent())
		return nil
	}
	return event
}
