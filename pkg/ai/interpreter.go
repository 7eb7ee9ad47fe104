package ai

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

type Action string

const (
	ActionCallSingle Action = "call_single"
	ActionCallAll    Action = "call_all"
	ActionUnknown    Action = "unknown"
)

// Command is the structured form of a natural-language instruction.
type Command struct {
	Action Action `json:"action"`
	Number string `json:"number,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Interpreter turns free-form text into a Command. Implementations never
// fail: anything unparseable comes back as ActionUnknown.
type Interpreter interface {
	Interpret(ctx context.Context, text string) Command
}

const systemPrompt = `You are a command parser for a phone call app. Read the user's command and respond with ONLY a JSON object, no other text.

Use one of these shapes:
{"action": "call_single", "number": "1234567890"} when the user wants to call one specific number
{"action": "call_all"} when the user wants to call every number in their list
{"action": "unknown", "error": "short reason"} for anything else

Examples:
"Call 9876543210 now" -> {"action": "call_single", "number": "9876543210"}
"start calling all numbers" -> {"action": "call_all"}
"what time is it" -> {"action": "unknown", "error": "not a calling command"}`

var (
	jsonObject = regexp.MustCompile(`\{[^}]+\}`)
	numberRun  = regexp.MustCompile(`\d{10,}`)
)

// Parser asks the configured language model first and falls back to rule
// matching whenever the model is unavailable or replies with garbage. A nil
// client skips the model entirely.
type Parser struct {
	client Client
	log    *zap.Logger
}

func NewParser(client Client, log *zap.Logger) *Parser {
	return &Parser{client: client, log: log}
}

func (p *Parser) Interpret(ctx context.Context, text string) Command {
	if p.client == nil {
		return ParseRules(text)
	}

	reply, err := p.client.CompleteWithSystem(ctx, systemPrompt, text)
	if err != nil {
		p.log.Warn("language model unavailable, using rule parser",
			zap.String("provider", p.client.Name()),
			zap.Error(err),
		)
		return ParseRules(text)
	}

	cmd, ok := decodeCommand(reply)
	if !ok {
		p.log.Warn("language model reply unusable, using rule parser",
			zap.String("provider", p.client.Name()),
			zap.String("reply", reply),
		)
		return ParseRules(text)
	}
	return cmd
}

// decodeCommand pulls the first JSON object out of a model reply. Models
// wrap answers in prose or markdown fences often enough that decoding the
// raw reply directly is a losing game.
func decodeCommand(reply string) (Command, bool) {
	match := jsonObject.FindString(reply)
	if match == "" {
		return Command{}, false
	}
	var cmd Command
	if err := json.Unmarshal([]byte(match), &cmd); err != nil {
		return Command{}, false
	}
	switch cmd.Action {
	case ActionCallSingle, ActionCallAll, ActionUnknown:
		return cmd, true
	}
	return Command{}, false
}

// ParseRules is the deterministic fallback parser.
func ParseRules(text string) Command {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "call") {
		if number := numberRun.FindString(text); number != "" {
			return Command{Action: ActionCallSingle, Number: number}
		}
	}
	if strings.Contains(lower, "start calling") || strings.Contains(lower, "call all") {
		return Command{Action: ActionCallAll}
	}
	return Command{Action: ActionUnknown, Error: "Could not parse command"}
}
