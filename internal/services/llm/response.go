package llm

import "strings"

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type chatChoice struct {
	Message replyMessage `json:"message"`
	// Some providers answer with the streaming shape even for stream=false.
	Delta        replyMessage `json:"delta"`
	Text         string       `json:"text"`
	FinishReason string       `json:"finish_reason"`
}

type replyMessage struct {
	Content      string         `json:"content"`
	Refusal      string         `json:"refusal"`
	FunctionCall *functionCall  `json:"function_call"`
	ToolCalls    []toolCallItem `json:"tool_calls"`
}

type functionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type toolCallItem struct {
	Function functionCall `json:"function"`
}

// arguments returns the first non-blank function or tool call argument.
func (m replyMessage) arguments() string {
	if m.FunctionCall != nil {
		if args := strings.TrimSpace(m.FunctionCall.Arguments); args != "" {
			return args
		}
	}
	for _, call := range m.ToolCalls {
		if args := strings.TrimSpace(call.Function.Arguments); args != "" {
			return args
		}
	}
	return ""
}

// content picks the completion text: plain content first, then function
// arguments. The first non-empty finish reason is reported alongside.
func (r chatResponse) content() (string, string) {
	var finish string
	for _, choice := range r.Choices {
		if finish == "" {
			finish = strings.TrimSpace(choice.FinishReason)
		}
		for _, candidate := range []string{
			choice.Message.Content,
			choice.Delta.Content,
			choice.Text,
			choice.Message.arguments(),
			choice.Delta.arguments(),
		} {
			if text := strings.TrimSpace(candidate); text != "" {
				return text, finish
			}
		}
	}
	return "", finish
}

func (r chatResponse) refusal() string {
	for _, choice := range r.Choices {
		for _, text := range []string{choice.Message.Refusal, choice.Delta.Refusal} {
			if text = strings.TrimSpace(text); text != "" {
				return text
			}
		}
	}
	return ""
}
