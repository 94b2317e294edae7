package keyword

// Default bilingual lexicons.  The accessor functions return fresh copies so
// callers can extend them without mutating package state.

var defaultSynonyms = map[string]string{
	// authentication
	"登陆":       "登录",
	"login":    "登录",
	"log":      "登录",
	"logon":    "登录",
	"signin":   "登录",
	"用户名":      "账号",
	"账户":       "账号",
	"帐号":       "账号",
	"user":     "账号",
	"username": "账号",
	"account":  "账号",
	"口令":       "密码",
	"pass":     "密码",
	"password": "密码",
	"校验码":      "验证码",
	"captcha":  "验证码",
	// navigation
	"主页":       "首页",
	"home":     "首页",
	"homepage": "首页",
	"重定向":      "跳转",
	"redirect": "跳转",
	// outcomes
	"成功登录": "登录成功",
	"报错":   "错误",
	"error": "错误",
	"fail":  "失败",
	"failure": "失败",
}

var requirementStopwords = []string{
	// zh function words and spec boilerplate
	"需要", "应该", "必须", "可以", "支持", "能够", "应当", "实现", "提供",
	"的", "了", "和", "与", "或", "及", "并", "在", "是", "有", "对", "将",
	"当", "后", "时", "个", "该", "等", "进行", "相关", "功能", "系统",
	// en function words and modal verbs
	"must", "should", "shall", "need", "needs", "will", "can", "may",
	"the", "a", "an", "to", "in", "on", "at", "of", "and", "or", "with",
	"for", "by", "is", "are", "be", "as", "it", "that", "this",
}

var caseOnlyStopwords = []string{
	// zh action verbs and step glue
	"点击", "输入", "打开", "进入", "选择", "然后", "接着", "并且", "以及",
	"确认", "提交", "查看", "检查", "验证", "操作", "步骤", "页面", "按钮",
	// en counterparts
	"click", "enter", "input", "open", "select", "then", "next",
	"confirm", "submit", "check", "verify", "view", "step", "steps",
	"page", "button", "expected", "expect",
}

// coarseStopwords back the degraded uniqueness fallback; deliberately small.
var coarseStopwords = map[string]struct{}{
	"的": {}, "了": {}, "和": {}, "是": {}, "在": {}, "有": {},
	"用": {}, "可以": {}, "应该": {}, "需要": {}, "必须": {},
}

// DefaultSynonyms returns the default canonical-folding table.
func DefaultSynonyms() map[string]string {
	out := make(map[string]string, len(defaultSynonyms))
	for k, v := range defaultSynonyms {
		out[k] = v
	}
	return out
}

// RequirementStopwords returns the stop-word list used when tokenizing
// requirement sentences.
func RequirementStopwords() []string {
	out := make([]string, len(requirementStopwords))
	copy(out, requirementStopwords)
	return out
}

// CaseStopwords returns the stop-word list used when tokenizing test-case
// text.  It is a superset of RequirementStopwords: case text is full of
// action verbs that carry no matching signal.
func CaseStopwords() []string {
	out := make([]string, 0, len(requirementStopwords)+len(caseOnlyStopwords))
	out = append(out, requirementStopwords...)
	out = append(out, caseOnlyStopwords...)
	return out
}
