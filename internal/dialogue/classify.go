// Package dialogue turns player utterances into in-character NPC replies and
// feeds the exchange back into memory, relationships, and emotion.
package dialogue

import "strings"

// Intent is a coarse classification of what the player wants.
type Intent string

const (
	IntentGreeting   Intent = "greeting"
	IntentFarewell   Intent = "farewell"
	IntentAskRumor   Intent = "ask_rumor"
	IntentQuestion   Intent = "question"
	IntentRequest    Intent = "request"
	IntentTrade      Intent = "trade"
	IntentThreaten   Intent = "threaten"
	IntentCompliment Intent = "compliment"
	IntentInsult     Intent = "insult"
	IntentSmallTalk  Intent = "small_talk"
)

// Sentiment is the valence of the utterance, in [-1,1].
type Sentiment float64

var intentKeywords = map[Intent][]string{
	IntentGreeting: {
		"hello", "hi", "hey", "good morning", "good evening", "well met",
	},
	IntentFarewell: {
		"goodbye", "farewell", "see you", "bye",
	},
	IntentAskRumor: {
		"rumor", "rumors", "news", "heard anything", "what's happening", "gossip",
	},
	IntentQuestion: {
		"where is", "where can", "who is", "what is", "how do", "do you know",
	},
	IntentRequest: {
		"can you", "could you", "please help", "i need you", "would you",
	},
	IntentTrade: {
		"buy", "sell", "trade", "price", "coin", "wares",
	},
	IntentThreaten: {
		"or else", "kill you", "hurt you", "pay for this", "regret",
	},
	IntentCompliment: {
		"thank you", "thanks", "well done", "wonderful", "brilliant", "admire",
	},
	IntentInsult: {
		"idiot", "fool", "coward", "useless", "pathetic", "hate you",
	},
}

var positiveWords = []string{
	"thank", "love", "friend", "wonderful", "great", "good", "help", "admire",
	"beautiful", "kind",
}

var negativeWords = []string{
	"hate", "idiot", "fool", "kill", "hurt", "stupid", "coward", "useless",
	"pathetic", "liar",
}

// ClassifyIntent picks the first intent whose keywords appear in the line,
// checked in priority order so threats beat pleasantries.
func ClassifyIntent(line string) Intent {
	lower := strings.ToLower(line)
	for _, intent := range []Intent{
		IntentThreaten, IntentInsult, IntentTrade, IntentAskRumor,
		IntentRequest, IntentQuestion, IntentFarewell, IntentGreeting,
		IntentCompliment,
	} {
		for _, kw := range intentKeywords[intent] {
			if containsPhrase(lower, kw) {
				return intent
			}
		}
	}
	return IntentSmallTalk
}

// containsPhrase reports whether phrase occurs in line on word boundaries, so
// "hi" matches "oh hi" but never the inside of "this".
func containsPhrase(line, phrase string) bool {
	for start := 0; start <= len(line)-len(phrase); {
		i := strings.Index(line[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(phrase)
		if (i == 0 || !isWordChar(line[i-1])) && (end == len(line) || !isWordChar(line[end])) {
			return true
		}
		start = i + 1
	}
	return false
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '\''
}

// ClassifySentiment scores valence by keyword hits, saturating at ±1.
func ClassifySentiment(line string) Sentiment {
	lower := strings.ToLower(line)
	score := 0.0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			score += 0.34
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			score -= 0.34
		}
	}
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return Sentiment(score)
}
