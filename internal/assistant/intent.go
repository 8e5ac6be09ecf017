package assistant

import (
	"regexp"
	"strconv"
	"strings"
)

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentUnknown      Intent = ""
	IntentOrder        Intent = "order"
	IntentShowTotal    Intent = "show_total"
	IntentWhatToEat    Intent = "what_to_eat"
	IntentTodaySpecial Intent = "today_special"
	IntentLocation     Intent = "location"
	IntentHours        Intent = "hours"
	IntentContact      Intent = "contact"
	IntentQuick        Intent = "quick"
	IntentPremium      Intent = "premium"
	IntentPrice        Intent = "price"
	IntentPopular      Intent = "popular"
	IntentCheap        Intent = "cheap"
	IntentVariety      Intent = "variety"
)

// intentKeywords maps each intent to its trigger vocabulary. The lists
// deliberately mix Bengali, English and Banglish transliterations,
// because that is how guests actually type. Matching is substring
// containment over the lowercased message.
var intentKeywords = map[Intent][]string{
	IntentOrder: {
		"দাও", "dao", "নেব", "nibo", "neb", "নেবো", "order", "add", "লাগবে", "lagbe",
		"চাই", "chai", "দিন", "din", "দে", "de ", "নিব", "nib", "khao", "khabo",
		"niye ay", "niye aso", "send", "pathao", "niye eso", "deo",
	},
	IntentShowTotal: {
		"total", "টোটাল", "মোট", "bill", "বিল", "hisab", "হিসাব", "koto holo",
	},
	IntentWhatToEat: {
		"কি খাব", "ki khabo", "ki khabe", "khabar", "খাবার", "hungry", "খিদে", "khide",
		"suggest koro", "bolo ki khabo", "recommend koro", "কি দেবে", "ki debe",
	},
	IntentTodaySpecial: {
		"today", "আজ", "aaj", "আজকে", "ajke", "special", "নতুন", "notun", "new",
	},
	IntentLocation: {
		"location", "address", "কোথায়", "kothay", "ঠিকানা", "thikana", "where", "direction",
		"map", "রাস্তা", "route", "কিভাবে", "kivabe", "যাবো", "jabo",
	},
	IntentHours: {
		"time", "সময়", "somoy", "open", "খোলা", "khola", "close", "বন্ধ", "bondho",
		"কখন", "kokhon", "when", "hours", "timing", "এখন", "ekhon",
	},
	IntentContact: {
		"contact", "phone", "call", "ফোন", "নম্বর", "number", "whatsapp", "যোগাযোগ",
		"jogajog", "reach",
	},
	IntentQuick: {
		"quick", "fast", "তাড়াতাড়ি", "taratari", "jaldi", "জলদি", "instant", "ready", "minutes",
	},
	IntentPremium: {
		"premium", "expensive", "দামী", "dami", "luxury", "লাক্সারি", "best quality",
	},
	IntentPrice: {
		"দাম", "কত", "price", "koto", "dam", "টাকা", "taka", "₹", "rate", "cost",
		"charge", "খরচ", "khoroch", "মূল্য", "mulyo",
	},
	IntentPopular: {
		"popular", "জনপ্রিয়", "best", "সেরা", "ভালো", "bhalo", "recommend", "সাজেস্ট",
		"suggest", "top", "famous", "বিখ্যাত", "trending", "hit",
	},
	IntentCheap: {
		"cheap", "সস্তা", "sosta", "budget", "কম দাম", "kom dam", "under", "নিচে",
		"affordable", "pocket", "econom", "কম দামে", "kam dame",
	},
	IntentVariety: {
		"other", "onno", "variety", "change", "different", "আর কি", "bad dao", "অন্য",
	},
}

// greetingTokens are short greeting words matched as whole tokens,
// because "chicken" contains "hi". greetingPhrases have no such
// collisions and match as substrings.
var greetingTokens = []string{"hi", "hello", "hey", "namaskar"}

var greetingPhrases = []string{"হ্যালো", "নমস্কার", "হাই", "সুপ্রভাত", "good morning"}

// confirmTokens acknowledge an order after the total was shown. These
// are matched as whole tokens, not substrings, because short words like
// "ha" and "ok" show up inside too many Banglish words.
var confirmTokens = []string{
	"হ্যাঁ", "hya", "ha", "yes", "ok", "okay", "confirm", "checkout", "কনফার্ম", "sure", "done",
}

// negationTokens flip an ordering message into "do not handle locally".
// Token-level matching again: "na" is a negation word but also a
// fragment of half the menu ("naan", "nasta").
var negationTokens = []string{
	"don't", "dont", "not", "no", "na", "না", "cancel", "remove", "delete", "বাদ", "baad",
	"batil", "বাতিল",
}

// categoryKeywords maps a catalog category to its trigger vocabulary.
var categoryKeywords = []struct {
	Category string
	Keywords []string
}{
	{"Veg Dishes", []string{"veg", "ভেজ", "সবজি", "sobji", "vegetarian", "paneer", "পনির", "নিরামিষ", "niramish"}},
	{"Chicken Dishes", []string{"chicken", "চিকেন", "মুরগি", "murgi", "মাংস", "murga"}},
	{"Mutton Dishes", []string{"mutton", "মাটন", "খাসি", "khasi", "পাঁঠা", "patha", "goat", "ছাগল"}},
	{"Rice", []string{"rice", "ভাত", "bhat", "biryani", "বিরিয়ানি", "pulao", "fried rice", "পোলাও", "jeera"}},
	{"Noodles", []string{"noodles", "নুডলস", "চাউমিন", "chowmein", "chow", "noodle", "চাওমিন"}},
	{"Rolls", []string{"roll", "রোল", "wrap", "kathi", "কাঠি"}},
	{"Breakfast", []string{"breakfast", "নাস্তা", "nasta", "সকালের", "morning", "tea", "চা", "coffee", "কফি", "পুরি"}},
	{"Soups", []string{"soup", "সুপ", "স্যুপ", "shorba"}},
	{"Tandoor & Breads", []string{"tandoor", "তান্দুর", "naan", "নান", "roti", "রুটি", "kulcha", "kabab", "কাবাব", "tikka", "টিক্কা", "paratha", "পরোটা"}},
}

// hasKeyword reports whether the message contains any keyword from the
// list, case-insensitively.
func hasKeyword(message string, keywords []string) bool {
	m := strings.ToLower(message)
	for _, kw := range keywords {
		if strings.Contains(m, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// hasIntent reports whether the message triggers the given intent.
func hasIntent(message string, intent Intent) bool {
	return hasKeyword(message, intentKeywords[intent])
}

// tokenize splits a message into lowercase tokens with surrounding
// punctuation stripped. Apostrophes survive so "don't" stays one token.
func tokenize(message string) []string {
	fields := strings.Fields(strings.ToLower(message))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		t := strings.Trim(f, ".,!?;:\"()[]")
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// hasToken reports whether any message token equals one of the words.
func hasToken(message string, words []string) bool {
	for _, t := range tokenize(message) {
		for _, w := range words {
			if t == w {
				return true
			}
		}
	}
	return false
}

// IsNegated detects negation or cancellation in a message, so phrases
// like "don't add chicken" never get auto-ordered locally.
func IsNegated(message string) bool {
	return hasToken(message, negationTokens)
}

// IsConfirmation detects an explicit order confirmation.
func IsConfirmation(message string) bool {
	return hasToken(message, confirmTokens)
}

// IsGreeting detects a short greeting. The length cap keeps "hello,
// also where are you located" with the informational rules.
func IsGreeting(message string) bool {
	if len(message) >= maxGreetingLen {
		return false
	}
	return hasToken(message, greetingTokens) || hasKeyword(message, greetingPhrases)
}

// MatchCategory finds the catalog category a message refers to.
func MatchCategory(message string) (string, bool) {
	for _, ck := range categoryKeywords {
		if hasKeyword(message, ck.Keywords) {
			return ck.Category, true
		}
	}
	return "", false
}

// quantityWords maps number words in Bengali, Banglish and English.
var quantityWords = map[string]int{
	"ek": 1, "ekta": 1, "acta": 1, "akta": 1, "one": 1, "single": 1, "একটা": 1, "এক": 1,
	"du": 2, "dui": 2, "duita": 2, "duto": 2, "two": 2, "double": 2, "দুটো": 2, "দুই": 2,
	"tin": 3, "tinte": 3, "three": 3, "তিন": 3,
	"char": 4, "charte": 4, "four": 4, "চার": 4,
	"pach": 5, "five": 5, "পাঁচ": 5,
	"choy": 6, "six": 6, "ছয়": 6,
	"sat": 7, "seven": 7, "সাত": 7,
	"at": 8, "eight": 8, "আট": 8,
	"noy": 9, "nine": 9, "নয়": 9,
	"dosh": 10, "ten": 10, "দশ": 10,
}

// bengaliDigits rewrites Bengali-script digits into ASCII.
var bengaliDigits = strings.NewReplacer(
	"০", "0", "১", "1", "২", "2", "৩", "3", "৪", "4",
	"৫", "5", "৬", "6", "৭", "7", "৮", "8", "৯", "9",
)

var digitsPattern = regexp.MustCompile(`(\d+)`)

// maxQuantity rejects obviously broken extractions; nobody orders 50
// plates over chat.
const maxQuantity = 49

// ExtractQuantity pulls an order quantity out of free text. Number
// words win over digits; digits in either script are accepted; the
// result falls back to 1 and is clamped to a sane maximum.
func ExtractQuantity(message string) int {
	for _, t := range tokenize(message) {
		if n, ok := quantityWords[t]; ok {
			return n
		}
	}
	normalized := bengaliDigits.Replace(strings.ToLower(message))
	if m := digitsPattern.FindString(normalized); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 && n <= maxQuantity {
			return n
		}
	}
	return 1
}

var priceCeilingPattern = regexp.MustCompile(`(\d{2,3})`)

// ExtractPriceCeiling finds a 2-3 digit rupee amount in a budget query,
// falling back to def when the guest just said "cheap".
func ExtractPriceCeiling(message string, def float64) float64 {
	normalized := bengaliDigits.Replace(strings.ToLower(message))
	if m := priceCeilingPattern.FindString(normalized); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return float64(n)
		}
	}
	return def
}
