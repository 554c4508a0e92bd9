package log

import (
	"io"
	"regexp"
	"sync"
)

var (
	// bearerPattern 匹配 Authorization 头中的 Bearer 凭证
	bearerPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9_\-.=]+`)
	// jwtPattern 匹配裸露的三段式 JWT
	jwtPattern = regexp.MustCompile(`eyJ[A-Za-z0-9_-]{4,}\.[A-Za-z0-9_-]{4,}\.[A-Za-z0-9_-]*`)
)

// MaskHook 凭证脱敏钩子
// 日志在写出前经过所有规则，确保 bearer 凭证不会完整出现在任何输出中
type MaskHook struct {
	mu    sync.RWMutex
	rules []*maskRule
}

type maskRule struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

// NewMaskHook 创建带内置凭证规则的脱敏钩子
func NewMaskHook() *MaskHook {
	h := &MaskHook{}
	h.AddRule("bearer", bearerPattern, "Bearer ****")
	h.AddRule("jwt", jwtPattern, "eyJ****")
	return h
}

// AddRule 添加脱敏规则
func (h *MaskHook) AddRule(name string, pattern *regexp.Regexp, replacement string) {
	if pattern == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.rules = append(h.rules, &maskRule{
		name:        name,
		pattern:     pattern,
		replacement: replacement,
	})
}

// RuleCount 返回规则数量
func (h *MaskHook) RuleCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rules)
}

// Mask 对字符串进行脱敏处理
func (h *MaskHook) Mask(s string) string {
	if s == "" {
		return s
	}

	h.mu.RLock()
	rules := h.rules
	h.mu.RUnlock()

	result := s
	for _, rule := range rules {
		result = rule.pattern.ReplaceAllString(result, rule.replacement)
	}
	return result
}

// maskWriter 包装 writer 以支持脱敏
type maskWriter struct {
	writer io.Writer
	hook   *MaskHook
}

func newMaskWriter(w io.Writer, hook *MaskHook) *maskWriter {
	return &maskWriter{writer: w, hook: hook}
}

// Write 实现 io.Writer 接口
func (w *maskWriter) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	text := string(p)
	masked := w.hook.Mask(text)

	// 内容无变化时直接写入原始数据
	if masked == text {
		return w.writer.Write(p)
	}

	return w.writer.Write([]byte(masked))
}
