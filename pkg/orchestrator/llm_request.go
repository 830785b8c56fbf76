package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Mayoengin/netfleet-rag/internal/errs"
	"github.com/Mayoengin/netfleet-rag/pkg/ctxbuild"
	"github.com/Mayoengin/netfleet-rag/pkg/fusion"
	"github.com/Mayoengin/netfleet-rag/pkg/llm"
)

const systemInstruction = "You are the NetFleet fleet-health assistant. Answer using only the " +
	"structured data, quality banding, and cited documentation provided below. Never invent a " +
	"device that is not present in the structured data."

// composeLLMRequest builds the bounded system+user message pair described
// in spec §4.8 step 4: fixed system instruction, query, guidance rationale,
// structured data block, quality banding, and cited document snippets,
// truncated to cfg.MaxContextChars.
func (o *Orchestrator) composeLLMRequest(query string, guidance *fusion.Guidance, cctx *ctxbuild.Context, resp *Response) []llm.Message {
	var sb strings.Builder
	fmt.Fprintf(&sb, "query: %s\n\n", query)
	fmt.Fprintf(&sb, "analysis type: %s (confidence %s)\n", resp.AnalysisType, resp.Confidence)
	if guidance.Reasoning != "" {
		fmt.Fprintf(&sb, "reasoning: %s\n", guidance.Reasoning)
	}
	sb.WriteString("\nstructured data:\n")
	sb.WriteString(resp.StructuredSummary)
	sb.WriteString("\n\nquality banding:\n")
	sb.WriteString(cctx.Summary)
	if len(resp.Caveats) > 0 {
		sb.WriteString("\n\ncaveats:\n")
		for _, c := range resp.Caveats {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
	}

	body := truncate(sb.String(), o.cfg.MaxContextChars)

	return []llm.Message{
		{Role: "user", Content: body},
	}
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	return s[:maxChars] + "\n...[truncated]"
}

// invokeLLM gates the call behind the configured semaphore and a
// request-level deadline (spec §4.8 step 4, §5 semaphore gate). On failure
// it falls back to a deterministic response carrying the structured data
// already computed plus a visible unavailability note, never raising an
// error to the caller (spec §7: LLM-leg Timeout/UpstreamUnavailable is
// recovered).
func (o *Orchestrator) invokeLLM(ctx context.Context, guidance *fusion.Guidance, cctx *ctxbuild.Context, resp *Response, log *zap.Logger) {
	if o.llmClient == nil {
		resp.LLMUnavailable = true
		resp.Narrative = "LLM client not configured; returning structured data only."
		return
	}

	if err := o.sem.Acquire(ctx, 1); err != nil {
		resp.LLMUnavailable = true
		resp.Narrative = "LLM request could not be scheduled before the deadline; returning structured data only."
		log.Warn("llm semaphore acquire failed", zap.Error(err))
		return
	}
	defer o.sem.Release(1)

	llmCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeouts.LLM)
	defer cancel()

	messages := o.composeLLMRequest(resp.Query, guidance, cctx, resp)
	estimated := estimateTokens(messages[0].Content)
	o.metrics.llmTokensEstimated.Observe(float64(estimated))

	start := time.Now()
	completion, err := o.llmClient.Chat(llmCtx, systemInstruction, messages, o.cfg.LLMMaxTokens, o.cfg.LLMTemperature)
	o.metrics.llmCallDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		kind := errs.KindOf(err)
		resp.LLMUnavailable = true
		resp.Narrative = fmt.Sprintf("LLM was unavailable (%s); returning the structured data computed above.", kind)
		o.metrics.llmFailuresTotal.WithLabelValues(string(kind)).Inc()
		log.Warn("llm call failed, degrading to structured-only response", zap.Error(err), zap.String("kind", string(kind)))
		return
	}

	resp.Narrative = completion
}
