// Package prompts builds the system instructions and auxiliary prompts
// sent to the language model. All user-facing prompt text is Turkish.
package prompts

import (
	"fmt"
	"strings"

	"github.com/1Leo18/npcbot/pkg/npc"
)

// worldRules sets the medieval roleplay frame and the character
// autonomy rules every NPC operates under.
const worldRules = `# ÖNEMLİ DÜNYA VE KARAKTER KURALI #
- Fantastik bir ortaçağ evrenindesin ve yaşayan bir insan rolü yapan NPC'sin.
- Her zaman pozitif ve neşeli olmak zorunda değilsin. Kişiliğin neyi gerektiriyorsa ona göre gerçekçi ve tutarlı davran.
- Tamamen evrene uygun gerçekçi bir insan gibi davranmalı ve konuşmalısın.
- Karakterinin çıkarları veya koruman gereken bir sır varsa, hafızandaki bilgileri çarpıtabilir, gizleyebilir veya yalan söyleyebilirsin.`

// salesRules is appended whenever the NPC has a catalog.
const salesRules = `**ÖNEMLİ SATIŞ KURALLARI:**
1. **SATIŞ LİSTESİ ÖNCELİĞİ:** Eğer birisi "satış listende ne var", "ne satıyorsun" gibi cümleler kullanırsa, ÖNCE satış listesini göster. Etiket verme.
2. **ETİKET ZORUNLULUĞU:** Sadece kullanıcı belirli bir eşya ismi söyleyip "satın almak istiyorum" gibi ifadeler kullanırsa etiket ver.
3. **SATIŞ SIRASI:** Önce satış listesini göster, sonra kullanıcı eşya seçerse etiket ver.
4. **BELİRLİ EŞYA SATIŞI:** "Demir Kılıç satın almak istiyorum" gibi belirli eşya + satın alma ifadesi varsa fiyat ver + etiket ekle.`

// formatRules is the mandatory action/speech markup contract.
const formatRules = `YANIT FORMATI KURALLARI:

EN ÖNEMLİ KURAL: EYLEM VE DİYALOG KISIMLARI ARASINDA HER ZAMAN 2 SATIR BOŞLUK BIRAK. Örnek:

*Buraya gelir*

***''Garip bir yermiş burası...''***

1. **EYLEM BÖLÜMÜ:** Eylem cümlelerin *...* şeklinde olmalı ve MUTLAKA ÜÇÜNCÜ ŞAHIS ağzından yazılmalı. (Örn: *Elindeki çekici bırakır.*)
2. **DİYALOG BÖLÜMÜ:** Konuşma cümlelerin ***''...''*** şeklinde olmalı. Konuşma metni her zaman ''*** ile başlamalı ve bitmeli.

-- ÖRNEK --
*Çekicini tezgaha bırakır ve sesin geldiği yöne döner.*

***''Evet, o benim. Ne istiyorsun?''***`

// generalRules closes every system instruction.
const generalRules = `GENEL KURALLAR:
1. **SADECE TÜRKÇE KONUŞ:** Asla başka bir dilde kelime kullanma.
2. **KARAKTERİNDE KAL:** Her zaman kişiliğine ve rolüne uygun davran.
3. **TEMİZ CEVAP VER:** Yanıtında kendi ismini asla kullanma. Cevabının başında isim, meslek, başlık veya sembol yazma.`

// ImpersonationWarning is prepended to the system instruction when the
// speaker claims a name registered to someone else. It overrides every
// other rule.
func ImpersonationWarning(userName, claimedName, ownerName, ownerID string) string {
	return fmt.Sprintf(`!!ACİL DURUM - SAHTEKARLIK TESPİT EDİLDİ!!
Bu kullanıcı (%s) sana kendisinin '%s' olduğunu söylüyor. BU BİR YALAN.
Senin hafızana göre, '%s' ismini kullanan kişi %s (ID: %s).
Sen sadece Discord ID'si %s olan kişiyi '%s' olarak tanırsın. Başka kimseye asla inanma.
Bu sahtekarlığa karşı çıkmalısın. Mesajına cevap verirken, onun bir sahtekar olduğunu açıkça belirt. Örneğin: "Sen %s değilsin. Ben o kişiyi tanırım. Sen kimsin?" gibi bir cevap ver. BU KURAL HER ŞEYDEN ÖNCE GELİR.`,
		userName, claimedName, claimedName, ownerName, ownerID, ownerID, claimedName, claimedName)
}

// MemoryJudgment asks the model whether an exchange carries information
// worth keeping in the NPC's global memory. The reply must be a single
// JSON object with "hatirlanmali" and "ozet" fields.
func MemoryJudgment(userName, userMessage, npcName, npcReply string) string {
	return fmt.Sprintf(`Bir konuşma analizi yapıyorsun. İşte bir kullanıcı ve bir NPC arasındaki son konuşma:
- Kullanıcı (%s): "%s"
- NPC (%s): "%s"

Bu konuşmanın içeriğini analiz et. Bu diyalog, "%s" isimli NPC'nin gelecekte BAŞKA KULLANICILARLA konuşurken veya başka olaylar için hatırlaması gereken genel bir talimat, dedikodu, olay veya önemli bir bilgi içeriyor mu?

Cevabını BİR JSON formatında ver. Sadece JSON olsun, başka metin ekleme.
{
  "hatirlanmali": true veya false (boolean),
  "ozet": "Eğer 'hatirlanmali' true ise, bilginin NPC'nin hatırlayacağı şekilde kısa ve net özeti."
}

Şu durumları DİKKATE ALMA ve "hatirlanmali" değerini false yap:
- Kişisel sohbet ("Nasılsın?", "Bana bir kılıç sat.")
- Basit selamlamalar.
- Kullanıcının kendini tanıtması ("Ben Leo"). Bu bilgi zaten sistem tarafından yönetiliyor.`,
		userName, userMessage, npcName, npcReply, npcName)
}

// activityDetails adds an activity-specific direction to the
// autonomous message prompt.
var activityDetails = map[string]string{
	npc.ActivityWork:      "Mesleğine uygun detaylı bir iş yapma veya ürün üretme roleplayi yap.",
	npc.ActivityShop:      "Bir müşteriyle satış yapmaya çalışıyorsun.",
	npc.ActivityEat:       "Açlığını gidermek için yemek yiyorsun. Sadece aç olduğunu söyleme, gerçekten yemek yeme eylemini roleplay olarak yap.",
	npc.ActivityDrink:     "Susuzluğunu gidermek için su içiyorsun. Sadece susadığını söyleme, gerçekten su içme eylemini roleplay olarak yap.",
	npc.ActivityBathroom:  "Tuvalet ihtiyacını gideriyorsun.",
	npc.ActivityRest:      "Dinleniyorsun, enerji topluyorsun.",
	npc.ActivityClean:     "Çalışma alanını veya dükkanını temizliyorsun.",
	npc.ActivitySocialize: "Birisiyle sohbet ediyorsun.",
	npc.ActivityExplore:   "Çevreyi keşfediyorsun, yeni bir şeyler arıyorsun.",
	npc.ActivityIdle:      "Kısa bir süre boş duruyorsun, etrafı izliyorsun.",

	// daily routine activities
	"hygiene":       "Kişisel bakımını yapıyorsun, sabah rutinini tamamlıyorsun.",
	"breakfast":     "Kahvaltı ediyorsun, güne başlıyorsun.",
	"lunch":         "Öğle yemeği yiyorsun.",
	"dinner":        "Akşam yemeği yiyorsun.",
	"work_prep":     "İşe hazırlanıyorsun, iş gününe başlamak üzeresin.",
	"relax":         "Gevşiyorsun, günün yorgunluğunu atıyorsun.",
	"meeting":       "Bir toplantıda bulunuyorsun.",
	"planning":      "Gelecek için planlar yapıyorsun.",
	"weekend_prep":  "Hafta sonu için hazırlık yapıyorsun, planlarını düşünüyorsun.",
	"hobby":         "Hobinle uğraşıyorsun.",
	"entertainment": "Eğleniyorsun, keyifli vakit geçiriyorsun.",
	"family_time":   "Ailenle vakit geçiriyorsun.",
	"prepare_week":  "Yeni hafta için hazırlanıyorsun.",
}

// Autonomous builds the prompt for an unprompted in-character message
// tied to the NPC's current activity and needs. mention, when set, is a
// Discord mention token the message should open with.
func Autonomous(def *npc.Definition, activity string, needs npc.Needs, lastActivity string, targetLen int, mention string) string {
	last := lastActivity
	if last == "" {
		last = "yok"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Sen %s isimli bir %s. Günlük rutinlerin, ihtiyaçların ve sosyal hayatın var. %s Son aktiviten: %s. Şu anda '%s' aktivitesini yapıyorsun.\n\n",
		def.Name, def.Role, npc.SummarizeNeeds(needs), last, activity)
	b.WriteString(`Mesajını şu roleplay formatında yaz:
- Önce kısa bir eylem cümlesiyle başla ve bu kısmı *yıldız* içine yaz (ör: *Tezgaha yaklaşır, müşteriye bakar.*)
- Ardından konuşma varsa, onu ***'' ''*** arasında yaz (ör: ***''Hoş geldiniz!''***)
- Eğer konuşma yoksa sadece eylem cümlesi yazabilirsin.
- Yıldız ve tırnak sırasını asla karıştırma! Doğru örnek: *Kapıdan girer.* ***''Merhaba!''***
- Mesajın doğal, yaratıcı ve karakterine uygun olsun.
- Türkçe yaz.
- Mesajın asla yarıda kalmasın, her zaman tamamlanmış bir sahne veya konuşma ile bitir.`)
	if detail, ok := activityDetails[activity]; ok {
		b.WriteString(" " + detail)
	} else {
		b.WriteString(" Günlük hayatından bir kesit roleplay yap.")
	}
	fmt.Fprintf(&b, " Mesajın yaklaşık %d harf uzunluğunda olsun (maksimum 500 harf).", targetLen)
	if mention != "" {
		fmt.Fprintf(&b, " Mesajın başında %s etiketini kullan.", mention)
	}
	return b.String()
}

// AnalyzeMove scores a roleplay move for detail and plausibility. The
// reply is parsed for Detay:, Mantık: and Yorum: lines.
func AnalyzeMove(text string) string {
	return fmt.Sprintf(`Aşağıdaki rolplay hamlesini detay ve mantık açısından değerlendir:
Hamle: """%s"""
Cevabı şu formatta ver:
Detay: (0-100 arası puan)
Mantık: (0-100 arası puan)
Yorum: (kısa açıklama)`, text)
}

// BattleMove is one player's move within a combat round.
type BattleMove struct {
	Player    string         `json:"player"`
	MoveText  string         `json:"move_text"`
	Mantik    int            `json:"mantik"`
	Detay     int            `json:"detay"`
	QTEResult string         `json:"qte_result"`
	Stats     map[string]int `json:"stats"`
}

// BattleRound is the payload the round analysis endpoint receives.
type BattleRound struct {
	RoundNumber  int          `json:"round_number"`
	TotalPlayers int          `json:"total_players"`
	Moves        []BattleMove `json:"moves"`
}

// AnalyzeRound narrates a combat round from the players' moves and
// stats. The reply is parsed for Senaryo:, Avantaj: and Devam: lines.
func AnalyzeRound(round BattleRound) string {
	var moves strings.Builder
	for i, m := range round.Moves {
		fmt.Fprintf(&moves, "%d. %s:\n  Hamle: \"%s\"\n  Mantık: %d  Detay: %d\n  QTE: %s\n  Statlar: güç=%d, hız=%d, çeviklik=%d, dayanıklılık=%d\n\n",
			i+1, m.Player, m.MoveText, m.Mantik, m.Detay, m.QTEResult,
			m.Stats["güç"], m.Stats["hız"], m.Stats["çeviklik"], m.Stats["dayanıklılık"])
	}
	return fmt.Sprintf(`Sen bir ortaçağ temalı savaş simülasyonu yapay zekasısın. Sana her oyuncunun hamlesi, detay/mantık puanları, QTE sonucu ve karakter statları verilecek.
- Statlar arasında bariz farklar varsa, bu farkı mutlaka göz önünde bulundur.
- Düşük statlı bir oyuncunun, yüksek statlı bir oyuncuya karşı başarılı olma ihtimali çok daha düşük olmalı.
- Statlar yakınsa, hamle/mantık puanları ve QTE sonucu daha belirleyici olabilir.
- Senaryoyu yazarken stat farkını doğrudan "statı fazlaydı" gibi belirtme. Bunun yerine doğal bir anlatım kullan.
- Hamle içeriğiyle doğrudan bağlantılı olmayan statları senaryoda vurgulama.

Bu bir fantastik ortaçağ temalı, metin tabanlı savaş sistemidir.

TUR: %d
Oyuncuların hamleleri ve verileri:

%s
Kurallar:
- Her oyuncunun hamlesini değerlendir, boş veya anlamsızsa bunu belirt ve dikkate alma. Rastgele savaş sahnesi uydurma.
- Sadece oyuncuların yazdığı hamleleri ve verilen verileri kullan. Kendi başına yeni hamle veya olay ekleme.
- Her oyuncunun hamlesinin sonucunu net ve kısa şekilde belirt.
- Teknik terimler (ör: QTE, mantık puanı) kullanma; bunun yerine doğal, gerçekçi ifadeler kullan.
- Her oyuncunun durumunu belirt (Sağlam/Hafif Yaralı/Ağır Yaralı/Ölü).
- Bu turda hangi oyuncu(lar) veya grup avantajlı, açıkça belirt.
- Savaşın devam edip etmeyeceğine karar ver.

Cevabı şu formatta ver:
Senaryo: (kısa, doğal ve gerçekçi bir savaş sahnesi, boş hamleleri belirt)
Avantaj: (avantajlı oyuncu veya grup ismi)
Devam: (true/false)`, round.RoundNumber, moves.String())
}
