package whatsapp

import (
	"regexp"
	"strings"
)

// ============================================================================
// SENTIMENT
// ============================================================================

// Sentiment is plain word counting: the score of a message is the signed
// share of sentiment-bearing words, so it always lands in [-1, 1].

var wordRe = regexp.MustCompile(`[a-z']+`)

var positiveWords = wordSet(
	"amazing", "awesome", "beautiful", "best", "better", "brilliant",
	"calm", "celebrate", "cheers", "congrats", "cool", "delighted",
	"enjoy", "excellent", "excited", "fantastic", "fun", "glad",
	"good", "grateful", "great", "haha", "happy", "hope", "kind",
	"laugh", "like", "lol", "love", "lovely", "nice", "peace",
	"perfect", "pleased", "proud", "relax", "smile", "super", "sweet",
	"thank", "thanks", "welcome", "win", "wonderful", "wow", "yay", "yes",
)

var negativeWords = wordSet(
	"afraid", "angry", "annoyed", "annoying", "argue", "awful", "bad",
	"blame", "broken", "cry", "difficult", "doubt", "fail", "failed",
	"fear", "fight", "hate", "horrible", "hurt", "lost", "mad", "never",
	"no", "pain", "problem", "sad", "scared", "sick", "sorry", "stress",
	"stressed", "stupid", "terrible", "tired", "ugh", "ugly", "upset",
	"worried", "worry", "worse", "worst", "wrong",
)

func wordSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Score rates text in [-1, 1] as (positive - negative) / total words.
// Text with no words scores 0.
func Score(text string) float64 {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return 0
	}
	var pos, neg int
	for _, w := range words {
		if _, ok := positiveWords[w]; ok {
			pos++
		}
		if _, ok := negativeWords[w]; ok {
			neg++
		}
	}
	return float64(pos-neg) / float64(len(words))
}

// Categories lists the sentiment bands from lowest to highest.
var Categories = []string{
	"very negative", "negative", "neutral", "positive", "very positive",
}

// Category places a score into one of five bands. Band edges sit at
// -0.5, -0.1, 0.1 and 0.5, upper edge inclusive.
func Category(score float64) string {
	switch {
	case score <= -0.5:
		return "very negative"
	case score <= -0.1:
		return "negative"
	case score <= 0.1:
		return "neutral"
	case score <= 0.5:
		return "positive"
	default:
		return "very positive"
	}
}

func countWords(text string) int {
	return len(wordRe.FindAllString(strings.ToLower(text), -1))
}
