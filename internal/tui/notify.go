package tui

import "time"

// noticeTTL is how long a notification stays in the status bar.
const noticeTTL = 4 * time.Second

type notice struct {
	text  string
	isErr bool
	at    time.Time
}

// Success shows msg in the status bar.
func (v *View) Success(msg string) { v.notify(msg, false) }

// Error shows msg in the status bar in red.
func (v *View) Error(msg string) { v.notify(msg, true) }

func (v *View) notify(msg string, isErr bool) {
	n := notice{text: msg, isErr: isErr, at: v.now()}
	v.logger.Debug("notification", "message", msg, "error", isErr)
	v.app.QueueUpdateDraw(func() {
		v.notice = n
		v.renderStatus()
	})
	time.AfterFunc(noticeTTL, func() {
		v.app.QueueUpdateDraw(func() {
			if v.notice == n {
				v.notice = notice{}
				v.renderStatus()
			}
		})
	})
}

// noticeText is the current notification with color markup.
func (v *View) noticeText() string {
	if v.notice.text == "" {
		return ""
	}
	color := "green"
	if v.notice.isErr {
		color = "red"
	}
	return "[" + color + "]" + escape(v.notice.text) + "[-]"
}
