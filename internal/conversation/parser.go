// Package conversation provides intent parsing and user notification implementations.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.IntentParser = (*KeywordParser)(nil)
	_ domain.IntentParser = (*ClassifyingParser)(nil)
)

// wholeInput marks rules whose payload is the full trimmed input.
const wholeInput = -1

// KeywordParser matches user input to intents using keywords and simple patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
	group  int // submatch used as payload; 0 for none, wholeInput for all
}

const number = `(\d+(?:\.\d+)?)`

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(help|h|\?|commands)$`), domain.IntentHelp, 0},
		{regexp.MustCompile(`(?i)^(status|where|progress|info)$`), domain.IntentStatus, 0},
		{regexp.MustCompile(`(?i)^(show|repeat|again|current|what now)$`), domain.IntentShow, 0},
		{regexp.MustCompile(`(?i)^(reset|start over)$`), domain.IntentReset, 0},
		{regexp.MustCompile(`(?i)^(?:start timer|start|begin|go|timer)(?:\s+(\S+))?$`), domain.IntentStart, 1},
		{regexp.MustCompile(`(?i)^(done|complete|finished|d|i'?m done)$`), domain.IntentComplete, 0},
		{regexp.MustCompile(`(?i)^(undo|oops|not done)$`), domain.IntentUndo, 0},
		{regexp.MustCompile(`(?i)^(next|n|forward)$`), domain.IntentNext, 0},
		{regexp.MustCompile(`(?i)^(prev|previous|back|p)$`), domain.IntentPrev, 0},
		{regexp.MustCompile(`(?i)^(?:goto|go to|step)\s+(\d+)$`), domain.IntentGoTo, 1},
		{regexp.MustCompile(`(?i)^(focus|active|running)$`), domain.IntentFocus, 0},
		{regexp.MustCompile(`(?i)^flour\s+(\d+)\s*(?:g|grams)?$`), domain.IntentFlour, 1},
		{regexp.MustCompile(`(?i)^(?:hydration|water)\s+` + number + `\s*(?:%|percent)?$`), domain.IntentHydration, 1},
		{regexp.MustCompile(`(?i)^starter\s+` + number + `\s*(?:%|percent)?$`), domain.IntentStarter, 1},
		{regexp.MustCompile(`(?i)^salt\s+` + number + `\s*(?:%|percent)?$`), domain.IntentSalt, 1},
		{regexp.MustCompile(`(?i)^(?:loaves|loaf)\s+(\d+)$`), domain.IntentLoaves, 1},
		{regexp.MustCompile(`(?i)^(?:temp|temperature|room)\s+(-?\d+(?:\.\d+)?)\s*(?:°?c|degrees)?$`), domain.IntentTemp, 1},
		{regexp.MustCompile(`(?i)^(?:duration|minutes|min)\s+(\d+)$`), domain.IntentDuration, 1},
		{regexp.MustCompile(`(?i)^note\s+(.+)$`), domain.IntentNote, 1},
		{regexp.MustCompile(`(?i)^tip\s+(\d+)$`), domain.IntentTip, 1},
		{regexp.MustCompile(`(?i)^(?:ingredient|ing|check)\s+(\d+)$`), domain.IntentIngredient, 1},
		{regexp.MustCompile(`(?i)^(calc|calculate|amounts|weights|ingredients)$`), domain.IntentCalc, 0},
		{regexp.MustCompile(`(?i)^(schedule|plan|timeline)$`), domain.IntentSchedule, 0},
		{regexp.MustCompile(`(?i)^(weather|sync temp|outside)$`), domain.IntentWeather, 0},
		{regexp.MustCompile(`(?i)^(read|read it|say it|speak)$`), domain.IntentRead, 0},
		{regexp.MustCompile(`(?i)^finish(?:\s+(.+))?$`), domain.IntentFinish, 1},
		{regexp.MustCompile(`(?i)^(journal|history|bakes)$`), domain.IntentJournal, 0},
		{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.IntentQuit, 0},
		{regexp.MustCompile(`(?i)^ask\s+(.+)$`), domain.IntentAsk, 1},
		{regexp.MustCompile(`(?i)^(adjust|change|make it|i only have|swap|scale)\b`), domain.IntentAdjust, wholeInput},
	}
	return p
}

// Parse converts user input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := normalize(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched intent: %s", rule.intent)
		intent := &domain.Intent{Type: rule.intent}
		switch {
		case rule.group == wholeInput:
			intent.Payload = trimmed
		case rule.group > 0 && rule.group < len(m):
			intent.Payload = strings.TrimSpace(m[rule.group])
		}
		return intent, nil
	}

	// A bare number jumps to that step.
	if isDigits(trimmed) {
		return &domain.Intent{Type: domain.IntentGoTo, Payload: trimmed}, nil
	}

	if isQuestion(trimmed) {
		return &domain.Intent{Type: domain.IntentAsk, Payload: trimmed}, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

// normalize trims whitespace and the trailing punctuation whisper adds to
// short commands ("Next." -> "next"). Question marks are kept.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".!,;")
	return strings.TrimSpace(s)
}

// questionPrefixes are common English question starters.
var questionPrefixes = []string{
	"how", "what", "why", "when", "where", "who",
	"can", "could", "should", "would", "will", "do", "does", "is", "are",
	"am i", "tell me", "explain",
}

// isQuestion returns true if the input looks like a question.
func isQuestion(s string) bool {
	if strings.HasSuffix(s, "?") {
		return true
	}
	lower := strings.ToLower(s)
	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(lower, prefix+" ") || lower == prefix {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Classifier maps free text onto an intent, typically with a language
// model.
type Classifier interface {
	Classify(ctx context.Context, input string) (*domain.Intent, error)
}

// ClassifyingParser runs the keyword parser first and asks the
// classifier only about input it couldn't place.
type ClassifyingParser struct {
	keywords   *KeywordParser
	classifier Classifier
	log        *logger.Logger
}

// NewClassifyingParser wraps keywords with a classifier fallback.
func NewClassifyingParser(keywords *KeywordParser, classifier Classifier, log *logger.Logger) *ClassifyingParser {
	return &ClassifyingParser{keywords: keywords, classifier: classifier, log: log}
}

// Parse implements domain.IntentParser. Classifier errors are logged and
// the unknown intent is returned.
func (p *ClassifyingParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	intent, err := p.keywords.Parse(ctx, input)
	if err != nil || intent.Type != domain.IntentUnknown || intent.Payload == "" {
		return intent, err
	}

	classified, err := p.classifier.Classify(ctx, intent.Payload)
	if err != nil {
		p.log.Warn("classify %q: %v", intent.Payload, err)
		return intent, nil
	}
	return classified, nil
}
