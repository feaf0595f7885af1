package app

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"soul-quiz-service/internal/domain"
	"soul-quiz-service/internal/llm"
)

// DemoReframe is returned when no language model is configured.
const DemoReframe = "（演示模式）亲爱的，虽然现在连接不上 AI 大脑，但我依然听到了你的心声。\n\n✨ 翻转念头：现在的困难只是暂时的，你比你想象的更强大。"

// ReframeHistoryTitle titles the history entries written by the reframe tool.
const ReframeHistoryTitle = "念头翻转 · 烦恼粉碎机"

const reframeSystemPrompt = `你是一位极具同理心、温暖且充满热情的生活观察家。

任务：对用户的烦恼进行“温柔而有力的反转”。

回复结构（必须严格遵守）：
第一部分【温暖接纳】（1-2句）：
- 像给好朋友一个拥抱，接纳用户的情绪，肯定其背后的正面动机。语气要软，要有温度。

（此处必须换行，并空一行）

第二部分【念头翻转】（1-2句，重点！）：
- 必须另起一段！
- 使用“✨ 翻转念头：”作为前缀。
- 明确给出一个新的、具体的、有建设性的认知框架。
- 这句话要像一句“咒语”或“金句”，简短有力，直接打破原来的负面逻辑，指向行动或新的希望。

语气风格：
- 既有深夜电台的温柔，又有心理咨询师的专业洞察。
- 拒绝正确的废话，要给到具体的思维抓手。`

// ReframeOptions tunes the single completion call.
type ReframeOptions struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Reframer turns a negative thought into a gentler one. With no provider it
// answers with DemoReframe and never touches the network.
type Reframer struct {
	provider llm.Provider
	opts     ReframeOptions
	history  *HistoryLog
	logger   *zap.Logger
}

// NewReframer builds a reframer. provider and history may be nil.
func NewReframer(provider llm.Provider, opts ReframeOptions, history *HistoryLog, logger *zap.Logger) *Reframer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.8
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 500
	}
	return &Reframer{provider: provider, opts: opts, history: history, logger: logger}
}

// Demo reports whether the reframer runs without a provider.
func (r *Reframer) Demo() bool {
	return r.provider == nil
}

// Reframe sends text to the model once. Blank input fails with
// domain.ErrEmptyText before any call; provider errors are returned as is.
func (r *Reframer) Reframe(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyText
	}
	if r.provider == nil {
		r.logger.Warn("no LLM credential configured, returning demo reframe")
		return DemoReframe, nil
	}

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      reframeSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: text}},
		MaxTokens:   r.opts.MaxTokens,
		Temperature: r.opts.Temperature,
	})
	if err != nil {
		r.logger.Error("reframe failed", zap.String("model", r.provider.ModelID()), zap.Error(err))
		return "", err
	}
	r.logger.Debug("reframe completed",
		zap.String("model", resp.Model),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens))

	if r.history != nil {
		if _, err := r.history.Append(ctx, domain.HistoryReframe, ReframeHistoryTitle, domain.HistoryData{
			Input:  text,
			Result: resp.Content,
		}); err != nil {
			r.logger.Warn("record reframe history", zap.Error(err))
		}
	}
	return resp.Content, nil
}
