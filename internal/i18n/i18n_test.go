package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestNewResolvesLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{"", language.English},
		{"en", language.English},
		{"en-GB", language.English},
		{"zh", language.SimplifiedChinese},
		{"zh-CN", language.SimplifiedChinese},
		{"not a locale!", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.locale).Tag())
		})
	}
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, "No request content", New("en").T(NoRequestContent))
	assert.Equal(t, "无请求内容", New("zh").T(NoRequestContent))
	assert.Equal(t, "Invalid page size: 7", New("en").T(InvalidPageSize, 7))
	assert.Equal(t, "无效的每页条数: 7", New("zh-CN").T(InvalidPageSize, 7))
}

func TestViewerLabels(t *testing.T) {
	zh := New("zh")
	for _, key := range []string{ColTime, ColCost, Search, Reset, Hotkeys} {
		assert.NotEqual(t, key, zh.T(key), "missing zh translation for %q", key)
	}
	assert.Equal(t, `无效的时间 "x"，请使用 YYYY-MM-DD HH:MM:SS`, zh.T(InvalidTime, "x"))
}
