// Package roleplay covers the conversational surface of an exchange:
// classifying what the user wants and normalizing the model's reply
// into the fixed action/speech markup.
package roleplay

import "github.com/1Leo18/npcbot/pkg/turkish"

// Intent is the coarse classification of an inbound message relevant to
// the sales flow.
type Intent int

const (
	IntentNone Intent = iota
	// IntentCatalogQuery: the user asks what is for sale. Takes
	// precedence over purchase intent and skips tag validation.
	IntentCatalogQuery
	// IntentPurchase: the user wants to buy something.
	IntentPurchase
)

// Classifier decides the intent of an inbound message. The matching
// strategy is pluggable; the default is the fixed keyword lists.
type Classifier interface {
	Classify(text string) Intent
}

// Turkish keyword sets, matched case-insensitively as substrings.
var (
	purchaseKeywords = []string{
		"satın al", "satın almak", "almak istiyorum", "satın almak istiyorum",
		"bunu alabilir miyim", "bunu satın alabilir miyim", "alabilir miyim",
		"satın alacağım", "alacağım", "satın almak isterim", "almak isterim",
		"satın alayım", "alabilir miyiz", "satın almak istiyoruz",
		"almak istiyoruz", "satın alır mısın", "alır mısın",
		"satın almayı düşünüyorum", "al",
	}
	catalogKeywords = []string{
		"satış listende ne var", "ne satıyorsun", "satış listesi",
		"hangi eşyalar", "neler satıyorsun", "eşya listesi", "ürün listesi",
		"satış", "listede ne var", "ne var satışta",
	}
	freeKeywords = []string{
		"bedava", "ücretsiz", "beleş", "parasız", "karşılıksız",
	}
	salesUtteranceKeywords = []string{
		"satın al", "satıyorum", "fiyat", "şu kadar", "satış", "almak",
		"veriyorum", "işte ", "satabilirim", "satışta", "satış fiyatı",
		"satış için",
	}
)

// KeywordClassifier is the default Classifier: fixed substring lists,
// catalog queries first.
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(text string) Intent {
	if matchesAny(text, catalogKeywords) {
		return IntentCatalogQuery
	}
	if matchesAny(text, purchaseKeywords) {
		return IntentPurchase
	}
	return IntentNone
}

// IsFreeRequest reports whether the user asks for a no-cost item.
func IsFreeRequest(text string) bool {
	return matchesAny(text, freeKeywords)
}

// IsSalesUtterance reports whether a generated reply reads as a sales
// pitch, which obliges it to carry price and item tags.
func IsSalesUtterance(text string) bool {
	return matchesAny(text, salesUtteranceKeywords)
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if turkish.Contains(text, kw) {
			return true
		}
	}
	return false
}
