package agent

import (
	"fmt"

	"github.com/hupe1980/socialmesh/core"
	"github.com/hupe1980/socialmesh/internal/util"
	"github.com/hupe1980/socialmesh/model"
)

// PromptAction declares one prompt-templated capability of a ModelAgent.
// Template is rendered against the execution context values (plus lastAction
// and lastResult) before being sent to the model.
type PromptAction struct {
	Name         string
	Instructions string
	Template     string
}

// defaultPromptActions are registered on every ModelAgent unless overridden.
// They cover the common content / analysis / sentiment capabilities; the
// runtime treats each result as an opaque string.
var defaultPromptActions = []PromptAction{
	{
		Name:         "generate",
		Instructions: "You are a social media content writer. Produce a single post, no commentary.",
		Template:     "Write a post about: {{default \"the configured topic\" .topic}}",
	},
	{
		Name:         "analyze",
		Instructions: "You are an analyst. Summarize the key points in a short paragraph.",
		Template:     "Analyze the following input:\n{{default .lastResult .input}}",
	},
	{
		Name:         "sentiment",
		Instructions: "You are a sentiment scorer. Reply with one word: positive, neutral or negative.",
		Template:     "Score the sentiment of:\n{{default .lastResult .input}}",
	},
}

// ModelAgentOptions configures a ModelAgent.
type ModelAgentOptions struct {
	// Actions replaces the default prompt-action set when non-empty.
	Actions []PromptAction
}

// ModelAgent is an agent whose actions are prompt-templated calls to a
// text-generation model. Each action renders its template against the
// execution context and returns the model's reply as the action result.
type ModelAgent struct {
	*BaseAgent
	model model.Model
}

// NewModelAgent constructs a ModelAgent bound to the given platforms.
func NewModelAgent(id string, m model.Model, platforms []string, optFns ...func(o *ModelAgentOptions)) (*ModelAgent, error) {
	opts := ModelAgentOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	actions := opts.Actions
	if len(actions) == 0 {
		actions = defaultPromptActions
	}

	a := &ModelAgent{
		BaseAgent: NewBaseAgent(id, platforms...),
		model:     m,
	}
	a.SetDescription(fmt.Sprintf("Model-backed agent %s (%s)", id, m.Info().Provider))
	for _, pa := range actions {
		if err := a.RegisterAction(pa.Name, a.promptAction(pa)); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// promptAction builds the ActionFunc for one prompt template.
func (a *ModelAgent) promptAction(pa PromptAction) core.ActionFunc {
	return func(actx *core.ActionContext) (any, error) {
		state := map[string]any{
			"lastAction": actx.LastAction,
			"lastResult": actx.LastResult,
		}
		if actx.Exec != nil {
			for k, v := range actx.Exec.Values {
				state[k] = v
			}
		}

		prompt, err := util.RenderTemplate(pa.Template, state)
		if err != nil {
			return nil, fmt.Errorf("failed to render prompt for action %s: %w", pa.Name, err)
		}

		resp, err := a.model.Generate(actx.Context, model.Request{
			Instructions: pa.Instructions,
			Prompt:       prompt,
		})
		if err != nil {
			return nil, fmt.Errorf("model call failed for action %s: %w", pa.Name, err)
		}
		return resp.Text, nil
	}
}
