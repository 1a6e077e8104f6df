// Package i18n holds the translated strings shown by the log viewer.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	LoadFailed        = "Failed to load logs"
	NoRequestContent  = "No request content"
	NoResponseContent = "No response content"
	Copied            = "Copied to clipboard"
	CopyFailed        = "Unable to copy to clipboard, please copy manually"
	UnknownChannel    = "Unknown channel"
	NoRecords         = "No conversation records"
	InvalidPageSize   = "Invalid page size: %d"
	PageStatus        = "Page %d/%d · %d logs · %d per page"
	Loading           = "Loading…"
	RequestTab        = "Request"
	ResponseTab       = "Response"
	ContentTitle      = "Conversation details"
)

// Viewer labels.
const (
	FiltersTitle  = "Filters"
	Username      = "Username"
	TokenName     = "Token name"
	ModelName     = "Model name"
	Channel       = "Channel ID"
	StartTime     = "Start time"
	EndTime       = "End time"
	Search        = "Search"
	Reset         = "Reset"
	ColTime       = "Time"
	ColUser       = "User"
	ColToken      = "Token"
	ColModel      = "Model"
	ColPrompt     = "Prompt"
	ColCompletion = "Completion"
	ColCost       = "Cost"
	ColChannel    = "Channel"
	InvalidTime   = "Invalid time %q, use YYYY-MM-DD HH:MM:SS"
	Hotkeys       = "Enter open  n/p page  s page size  r refresh  t/m copy token/model  F2 filters  Esc quit"
	ModalHotkeys  = "Tab switch  c copy  Esc close"
)

var supported = []language.Tag{
	language.English,
	language.SimplifiedChinese,
}

var matcher = language.NewMatcher(supported)

var cat = catalog.NewBuilder(catalog.Fallback(language.English))

func init() {
	zh := map[string]string{
		LoadFailed:        "加载日志失败",
		NoRequestContent:  "无请求内容",
		NoResponseContent: "无响应内容",
		Copied:            "已复制到剪贴板",
		CopyFailed:        "无法复制到剪贴板，请手动复制",
		UnknownChannel:    "未知渠道",
		NoRecords:         "暂无对话记录",
		InvalidPageSize:   "无效的每页条数: %d",
		PageStatus:        "第 %d/%d 页 · 共 %d 条 · 每页 %d 条",
		Loading:           "加载中…",
		RequestTab:        "用户请求",
		ResponseTab:       "AI响应",
		ContentTitle:      "对话内容详情",
		FiltersTitle:      "筛选",
		Username:          "用户名",
		TokenName:         "令牌名称",
		ModelName:         "模型名称",
		Channel:           "渠道 ID",
		StartTime:         "开始时间",
		EndTime:           "结束时间",
		Search:            "查询",
		Reset:             "重置",
		ColTime:           "时间",
		ColUser:           "用户",
		ColToken:          "令牌",
		ColModel:          "模型",
		ColPrompt:         "提示",
		ColCompletion:     "补全",
		ColCost:           "花费",
		ColChannel:        "渠道",
		InvalidTime:       "无效的时间 %q，请使用 YYYY-MM-DD HH:MM:SS",
		Hotkeys:           "Enter 查看  n/p 翻页  s 每页条数  r 刷新  t/m 复制令牌/模型  F2 筛选  Esc 退出",
		ModalHotkeys:      "Tab 切换  c 复制  Esc 关闭",
	}
	for key, msg := range zh {
		_ = cat.SetString(language.SimplifiedChinese, key, msg)
		_ = cat.SetString(language.English, key, key)
	}
}

// Printer renders messages for a single locale.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a Printer for the closest supported match of locale.
// Unknown or empty locales fall back to English.
func New(locale string) *Printer {
	tag := language.English
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			_, idx, conf := matcher.Match(parsed)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}
	return &Printer{
		tag: tag,
		p:   message.NewPrinter(tag, message.Catalog(cat)),
	}
}

// T translates key, formatting args into it when present.
func (p *Printer) T(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// Tag reports the locale the printer resolved to.
func (p *Printer) Tag() language.Tag {
	return p.tag
}
