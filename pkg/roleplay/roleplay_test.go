package roleplay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := KeywordClassifier{}
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"plain chat", "Merhaba, nasılsın?", IntentNone},
		{"purchase", "Bu kılıcı satın almak istiyorum", IntentPurchase},
		{"purchase uppercase", "SATIN ALMAK İSTİYORUM", IntentPurchase},
		{"catalog query", "Satış listende ne var?", IntentCatalogQuery},
		{"catalog wins over purchase", "Ne satıyorsun, bir şey almak istiyorum", IntentCatalogQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text))
		})
	}
}

func TestIsFreeRequest(t *testing.T) {
	assert.True(t, IsFreeRequest("Bana bedava bir kılıç ver"))
	assert.True(t, IsFreeRequest("ÜCRETSİZ olur mu?"))
	assert.False(t, IsFreeRequest("Kılıç kaç para?"))
}

func TestIsSalesUtterance(t *testing.T) {
	assert.True(t, IsSalesUtterance("Bu kılıcı sana satabilirim, fiyat 100 altın"))
	assert.False(t, IsSalesUtterance("Hava bugün çok güzel"))
}

func TestFormatActionAndSpeech(t *testing.T) {
	got := Format("*Bıçağını biler* ''Ne istiyorsun yabancı?''")
	assert.Equal(t, "*Bıçağını biler*\n\n***''Ne istiyorsun yabancı?''***", got)
}

func TestFormatPlainAction(t *testing.T) {
	assert.Equal(t, "*Gülümser*", Format("Gülümser"))
	assert.Equal(t, "*Gülümser*", Format("*Gülümser*"))
}

func TestFormatSpeechOnly(t *testing.T) {
	assert.Equal(t, "***''Hoş geldin.''***", Format("''Hoş geldin.''"))
	assert.Equal(t, "***''Hoş geldin.''***", Format(`""Hoş geldin.""`))
}

func TestFormatMultiline(t *testing.T) {
	in := "Kapıyı açar\n\n''Buyur, içeri gel.''\nEtrafına bakınır"
	got := Format(in)
	lines := strings.Split(got, "\n")
	assert.Equal(t, "*Kapıyı açar*", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "***''Buyur, içeri gel.''***", lines[2])
	assert.Equal(t, "*Etrafına bakınır*", lines[3])
}

func TestFormatDropsEmptyLines(t *testing.T) {
	assert.Equal(t, "*Bekler*", Format("\n\n  Bekler  \n\n"))
}
