package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/1Leo18/npcbot/pkg/chat"
	"github.com/1Leo18/npcbot/pkg/economy"
	"github.com/1Leo18/npcbot/pkg/memory"
	"github.com/1Leo18/npcbot/pkg/npc"
)

// Builder assembles the system instruction and turn history for a chat
// generation call using a fluent interface. It holds no storage
// handles; callers load everything and hand it in.
type Builder struct {
	def          *npc.Definition
	catalog      []npc.Item
	identities   map[string]string
	globalMemory []memory.GlobalEntry
	history      []chat.Message
	balance      economy.Balance
	userID       string
	userName     string
	userMessage  string
	warning      string
}

// New creates an empty prompt builder.
func New() *Builder {
	return &Builder{}
}

// WithNPC sets the character definition.
func (b *Builder) WithNPC(def *npc.Definition) *Builder {
	b.def = def
	return b
}

// WithCatalog sets the NPC's sale items.
func (b *Builder) WithCatalog(items []npc.Item) *Builder {
	b.catalog = items
	return b
}

// WithIdentities sets the claimed-name registry (name to owner ID).
func (b *Builder) WithIdentities(identities map[string]string) *Builder {
	b.identities = identities
	return b
}

// WithGlobalMemory sets the shared memory entries, oldest first. Only
// the most recent window is rendered.
func (b *Builder) WithGlobalMemory(entries []memory.GlobalEntry) *Builder {
	b.globalMemory = entries
	return b
}

// WithHistory sets the per-user conversation turns, oldest first.
func (b *Builder) WithHistory(turns []chat.Message) *Builder {
	b.history = turns
	return b
}

// WithBalance sets the speaking user's wallet.
func (b *Builder) WithBalance(bal economy.Balance) *Builder {
	b.balance = bal
	return b
}

// WithUser sets who is speaking.
func (b *Builder) WithUser(userID, userName string) *Builder {
	b.userID = userID
	b.userName = userName
	return b
}

// WithUserMessage sets the inbound message for this turn.
func (b *Builder) WithUserMessage(message string) *Builder {
	b.userMessage = message
	return b
}

// WithWarning prepends an impersonation warning to the system
// instruction.
func (b *Builder) WithWarning(warning string) *Builder {
	b.warning = warning
	return b
}

// Build returns the system instruction and the ordered turn history
// ending with the user's message. History entries without a valid role
// and text are dropped rather than failing the call.
func (b *Builder) Build() (string, []chat.Message, error) {
	if b.def == nil {
		return "", nil, fmt.Errorf("npc definition is required")
	}
	if b.userMessage == "" {
		return "", nil, fmt.Errorf("user message is required")
	}

	var sb strings.Builder
	if b.warning != "" {
		sb.WriteString(b.warning)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Sen bir metin tabanlı rol yapma oyununda bir karaktersin.\nİsmin: %s\nRolün: %s\nKişiliğin: %s\n\n",
		b.def.Name, b.def.Role, b.def.Personality)
	sb.WriteString(worldRules)
	sb.WriteString("\n\n")
	sb.WriteString(b.catalogSection())
	sb.WriteString("\n\n")
	sb.WriteString(b.memorySection())
	sb.WriteString("\n\n")
	sb.WriteString(formatRules)
	sb.WriteString("\n\n")
	sb.WriteString(b.economySection())
	sb.WriteString("\n\n")
	sb.WriteString(generalRules)

	history := make([]chat.Message, 0, len(b.history)+1)
	for _, turn := range b.history {
		if !turn.Valid() {
			continue
		}
		history = append(history, turn)
	}
	history = append(history, chat.Message{Role: chat.RoleUser, Text: b.userMessage})

	return sb.String(), history, nil
}

func (b *Builder) catalogSection() string {
	if len(b.catalog) == 0 {
		return "**SATIŞ LİSTEN:** Boş. Eğer birisi senden bir şey almak isterse, hayali veya doğaçlama bir eşya satabilirsin."
	}
	var sb strings.Builder
	sb.WriteString("**SATIŞ LİSTENDEKİ EŞYALAR:**\n")
	for _, item := range b.catalog {
		fmt.Fprintf(&sb, "• **%s** - %d %s\n", item.Name, item.Price, item.Currency)
	}
	sb.WriteString("\nSadece yukarıdaki eşyaları satabilirsin. Listede olmayan hiçbir ürünü satamazsın. Fiyatı da listeden al. Etiketlerde eşya adını satış listesinde tanımlandığı haliyle kullan.\n\n")
	sb.WriteString(salesRules)
	return sb.String()
}

func (b *Builder) memorySection() string {
	knowledge := b.def.Knowledge
	if knowledge == "" {
		knowledge = "Senin hakkında özel bir çekirdek bilgi tanımlanmamış."
	}

	names := make([]string, 0, len(b.identities))
	for name := range b.identities {
		names = append(names, name)
	}
	sort.Strings(names)
	var people strings.Builder
	for _, name := range names {
		fmt.Fprintf(&people, "- '%s' isimli kişiyi tanıyorsun. Sadece Discord ID'si %s olan kişi gerçekten '%s' olabilir. Başkası kendini '%s' olarak tanıtırsa asla inanma!\n", name, b.identities[name], name, name)
	}
	known := people.String()
	if known == "" {
		known = "Henüz kimseyle tanışmadın.\n"
	}

	global := b.globalMemory
	if len(global) > memory.PromptGlobalWindow {
		global = global[len(global)-memory.PromptGlobalWindow:]
	}
	var events strings.Builder
	for _, entry := range global {
		fmt.Fprintf(&events, "- %s ile ilgili yaşanan veya öğrenilen bilgi: \"%s\"\n", entry.Source, entry.Content)
	}
	eventText := events.String()
	if eventText == "" {
		eventText = "Henüz başkalarından öğrendiğin veya şahit olduğun bir olay yok.\n"
	}

	var convo strings.Builder
	for _, turn := range b.history {
		if !turn.Valid() {
			continue
		}
		speaker := b.userName
		if turn.Role == chat.RoleModel {
			speaker = "Sen"
		}
		fmt.Fprintf(&convo, "%s: %s\n", speaker, turn.Text)
	}
	convoText := convo.String()
	if convoText == "" {
		convoText = "Bu kişiyle henüz bir konuşma geçmişin yok.\n"
	}

	return fmt.Sprintf(`**HAFIZANIN KATMANLARI**
Senin hafızan bir insanınki gibi çalışır. Bilgileri birleştirir, yorumlar ve rolüne göre tepki verirsin.

1. **ÇEKİRDEK BİLGİLER (Senin hakkındaki temel ve değişmez gerçekler):**
   %s

2. **TANIŞTIĞIN KİŞİLER (Sosyal çevren):**
%s   Şu anda konuştuğun kişi: **%s** (Discord ID: %s). Bu bilgi KESİNDİR.

3. **GENEL OLAYLAR VE DEDİKODULAR (Başkalarından duydukların ve şahit oldukların):**
%s
4. **AKTİF KONUŞMA GEÇMİŞİ (%s ile son konuşmaların):**
%s
**HAFIZA VE ROL YAPMA KURALLARI (ÇOK ÖNEMLİ!):**
1. **BİLGİYİ SENTEZLE:** Cevap verirken yukarıdaki tüm hafıza katmanlarını kullan.
2. **KİMLİK VE OLAY ŞÜPHECİLİĞİ:** Sadece kendi hafızanda Discord ID ile doğrulanmış ilişkilere ve olaylara inan. Birisi kendini başka biri olarak tanıtırsa, sadece hafızandaki ID ile eşleşiyorsa kabul et. Hafızanda olmayan veya çelişen bir olay iddiası varsa, buna asla inanma ve bunu açıkça belirt.
3. Sana "Ben kimim?", "Beni tanıyor musun?" gibi bir soru sorulursa, kişiyi Discord ID'sinden bul; tanıyorsan ismini söyle, tanımıyorsan "Seni tanımıyorum." de. Asla tahmin yürütme.
4. "Ben kimim?" gibi sorular, kimlik kaydı olarak algılanmamalı, sadece tanıma/cevap olarak işlenmeli.
5. **TANI VE HATIRLA:** Tanıştığın kişiler listendeki birisiyle konuşuyorsan, onu tanıdığını belli et.
6. Konuşmanın içeriğine göre duygusal ve mantıksal tepki ver. Şaşır, sevin, üzül, şüphelen, sinirlen veya espri yap.`,
		knowledge, known, b.userName, b.userID, eventText, b.userName, convoText)
}

func (b *Builder) economySection() string {
	return fmt.Sprintf(`EKONOMİ BİLGİLERİ:
- Karşısındaki kişinin bakiyesi: %d altın, %d gümüş, %d bakır
- Eğer bir ürün satacaksan, sadece fiyatını söyle. Kullanıcı ".satın-al" komutu ile onay verince para alınacak.
- **ÇOK ÖNEMLİ:** Fiyat verdiğin cümlenin SONUNA, gizli etiketler ekle:
  - Fiyat etiketi: [FIYAT:miktar:birim] (Örn: [FIYAT:50:altın])
  - Eşya etiketi: [EŞYA:eşya_adı] (Örn: [EŞYA:Demir Kılıç])
- **FİYAT VE EŞYA VERİRKEN MUTLAKA ETİKET EKLE:** Eğer bir ürünün fiyatını söylüyorsan, cümlenin sonuna hem fiyat hem de eşya etiketini eklemeyi UNUTMA!
- Örnek: "Bu demir kılıç 100 altın." [FIYAT:100:altın] [EŞYA:Demir Kılıç]
- Eğer bir işlem karşılığında para alacak veya vereceksen, cümlenin sonuna ekonomi etiketi ekle: [EKONOMI:AL|VER:altın:gümüş:bakır:açıklama] (Örn: [EKONOMI:AL:5:0:0:kılıç tamiri])`,
		b.balance.Gold, b.balance.Silver, b.balance.Copper)
}
