package util

import (
	"regexp"
	"strings"
)

// DefaultMentionLetters 默认附加的字母范围（中文昵称）
const DefaultMentionLetters = `\p{Han}`

// MentionParser 从自由文本中提取 @昵称 片段
type MentionParser struct {
	re *regexp.Regexp
}

// NewMentionParser 构造解析器。extraLetters 是追加进字符类的 Unicode 范围，
// 允许名字内部出现空格，遇到标点停止。
func NewMentionParser(extraLetters string) *MentionParser {
	if extraLetters == "" {
		extraLetters = DefaultMentionLetters
	}
	letters := `A-Za-z0-9_` + extraLetters
	re := regexp.MustCompile(`@([` + letters + `][` + letters + ` ]*)`)
	return &MentionParser{re: re}
}

// Extract 提取去重后的提及片段（小写），供昵称模糊匹配使用
func (p *MentionParser) Extract(text string) []string {
	matches := p.re.FindAllStringSubmatch(text, -1)

	seen := make(map[string]struct{})
	var fragments []string

	for _, m := range matches {
		if len(m) < 2 {
			continue
		}
		fragment := strings.ToLower(strings.TrimSpace(m[1]))
		if fragment == "" {
			continue
		}
		if _, ok := seen[fragment]; ok {
			continue
		}
		seen[fragment] = struct{}{}
		fragments = append(fragments, fragment)
	}

	return fragments
}
