package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/1Leo18/npcbot/pkg/chat"
)

const PlaceHolderText = "Mesajını buraya yaz..."

// chatTurn is one line of the local transcript. The server keeps the
// NPC's own conversation memory; the console only mirrors what was
// said in this session.
type chatTurn struct {
	Role    string // "user" or "npc"
	Speaker string
	Text    string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	npc          *NPCInfo
	history      []chatTurn
	wallet       *WalletInfo
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// NPC selection state
	showNPCModal bool
	npcs         []NPCInfo
	selectedNPC  int
	loadingNPCs  bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type chatResponseMsg struct {
	response *chat.ChatResponse
	err      error
}

type npcsLoadedMsg struct {
	npcs []NPCInfo
	err  error
}

type walletMsg struct {
	wallet *WalletInfo
	err    error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	npcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
		ready:        false,
		showNPCModal: true,
		loadingNPCs:  true,
		selectedNPC:  0,
	}
}

func (m ConsoleUI) writeInitialContent(chatWidth int) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("NPC BOT") + "\n\n")
	if m.npc != nil {
		content.WriteString(fmt.Sprintf("%s ile konuşuyorsun (%s).\n", m.npc.Name, m.npc.Role))
	}
	content.WriteString("Mesaj yazıp Enter'a bas.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 10))) + "\n\n")
	return content.String()
}

func (m ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("OTURUM") + "\n\n")

	if m.npc != nil {
		content.WriteString("NPC:\n")
		content.WriteString(m.npc.Name + "\n")
		content.WriteString(m.npc.Role + "\n\n")
	}

	content.WriteString("Oyuncu:\n")
	content.WriteString(m.config.UserName + "\n\n")

	content.WriteString("Mesajlar:\n")
	content.WriteString(fmt.Sprintf("%d toplam\n\n", len(m.history)))

	content.WriteString("Cüzdan:\n")
	if m.wallet != nil {
		content.WriteString(fmt.Sprintf("🥇 %d altın\n", m.wallet.Balance.Gold))
		content.WriteString(fmt.Sprintf("🥈 %d gümüş\n", m.wallet.Balance.Silver))
		content.WriteString(fmt.Sprintf("🥉 %d bakır\n\n", m.wallet.Balance.Copper))
	} else {
		content.WriteString("yükleniyor...\n\n")
	}

	content.WriteString("Komutlar:\n")
	content.WriteString("• Ctrl+C: Çıkış\n")
	content.WriteString("• Enter: Gönder\n")
	content.WriteString("• /help: Yardım\n")
	content.WriteString("• /copy: Son yanıtı kopyala\n")

	return content.String()
}

// writeChatContent rebuilds the chat content for the current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(m.writeInitialContent(chatWidth))

	for _, turn := range m.history {
		switch turn.Role {
		case "npc":
			prefix := speakerStyle.Render(turn.Speaker + ": ")
			wrapped := wordwrap.String(turn.Text, max(chatWidth-len(turn.Speaker)-2, 10))
			content.WriteString(prefix + npcStyle.Render(wrapped) + "\n\n")
		case "user":
			userMsg := userStyle.Render(turn.Speaker+": ") + wordwrap.String(turn.Text, max(chatWidth-6, 10)) + "\n\n"
			content.WriteString(userMsg)
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showNPCModal {
		return tea.Batch(m.loadNPCs(), m.refreshWallet())
	}
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showNPCModal {
		return m.updateNPCModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanels()
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0

			m.history = append(m.history, chatTurn{
				Role:    "user",
				Speaker: m.config.UserName,
				Text:    input,
			})
			m.writeChatContent()
			m.metaViewport.SetContent(m.writeMetadata())

			return m, tea.Batch(m.sendChatMessage(input), progressTick())
		}

	case chatResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.writeChatContent()
			currentContent := m.chatViewport.View()
			errorMsg := errorStyle.Render("Hata: "+msg.err.Error()) + "\n\n"
			m.chatViewport.SetContent(currentContent + errorMsg)
		} else {
			m.history = append(m.history, chatTurn{
				Role:    "npc",
				Speaker: msg.response.NPC,
				Text:    msg.response.Message,
			})
			m.writeChatContent()
			m.metaViewport.SetContent(m.writeMetadata())
		}
		m.chatViewport.GotoBottom()
		return m, m.refreshWallet()

	case walletMsg:
		if msg.err == nil && msg.wallet != nil {
			m.wallet = msg.wallet
			m.metaViewport.SetContent(m.writeMetadata())
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) resizePanels() {
	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))

	switch cmd {
	case "/help":
		helpText := `
Komutlar:
• /help - Bu yardımı göster
• /copy - NPC'nin son yanıtını panoya kopyala
• Ctrl+C - Çıkış

Nasıl oynanır:
• Mesajını yazıp Enter'a bas
• NPC karakterine uygun şekilde yanıt verir
• Fiyat sormak ve pazarlık yapmak serbest
`
		currentContent := m.chatViewport.View()
		m.chatViewport.SetContent(currentContent + titleStyle.Render("Yardım:") + helpText + "\n")
		m.chatViewport.GotoBottom()

	case "/copy":
		last := m.lastNPCReply()
		currentContent := m.chatViewport.View()
		if last == "" {
			m.chatViewport.SetContent(currentContent + promptStyle.Render("Kopyalanacak yanıt yok.") + "\n\n")
		} else if err := clipboard.WriteAll(last); err != nil {
			m.chatViewport.SetContent(currentContent + errorStyle.Render("Panoya kopyalanamadı: "+err.Error()) + "\n\n")
		} else {
			m.chatViewport.SetContent(currentContent + promptStyle.Render("Son yanıt panoya kopyalandı.") + "\n\n")
		}
		m.chatViewport.GotoBottom()
	}

	m.textarea.Reset()
	return m, nil
}

func (m ConsoleUI) lastNPCReply() string {
	for i := len(m.history) - 1; i >= 0; i-- {
		if m.history[i].Role == "npc" {
			return m.history[i].Text
		}
	}
	return ""
}

func (m ConsoleUI) sendChatMessage(message string) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendChat(m.client, m.config.APIBaseURL, chat.ChatRequest{
			NPC:      m.npc.Name,
			UserID:   m.config.UserID,
			UserName: m.config.UserName,
			Message:  message,
		})
		return chatResponseMsg{resp, err}
	}
}

func (m ConsoleUI) refreshWallet() tea.Cmd {
	return func() tea.Msg {
		wallet, err := getWallet(m.client, m.config.APIBaseURL, m.config.UserID)
		return walletMsg{wallet, err}
	}
}

func (m ConsoleUI) loadNPCs() tea.Cmd {
	return func() tea.Msg {
		npcs, err := listNPCs(m.client, m.config.APIBaseURL)
		return npcsLoadedMsg{npcs, err}
	}
}

func (m ConsoleUI) updateNPCModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case npcsLoadedMsg:
		m.loadingNPCs = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.npcs = msg.npcs
		}

	case walletMsg:
		if msg.err == nil && msg.wallet != nil {
			m.wallet = msg.wallet
		}

	case tea.KeyMsg:
		if m.loadingNPCs {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		if m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.selectedNPC > 0 {
				m.selectedNPC--
			}
		case tea.KeyDown:
			if m.selectedNPC < len(m.npcs)-1 {
				m.selectedNPC++
			}
		case tea.KeyEnter:
			if len(m.npcs) > 0 {
				npc := m.npcs[m.selectedNPC]
				m.npc = &npc
				m.showNPCModal = false
				if m.width > 0 && m.height > 0 {
					m.resizePanels()
				}
				m.writeChatContent()
				m.metaViewport.SetContent(m.writeMetadata())
				m.textarea.Focus()
				m.ready = true
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y", "e", "E":
				return m, tea.Quit
			case "n", "N", "h", "H":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Çıkmak istiyor musun?"))
	content.WriteString("\n\n")
	content.WriteString("Sohbet geçmişi bu oturumla birlikte kapanacak.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("E: çık, H: devam et, Ctrl+C: zorla çık"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderNPCModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingNPCs {
		content.WriteString(modalTitleStyle.Render("NPC'ler yükleniyor..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Kayıtlı karakterler getiriliyor..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Hata"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("NPC listesi alınamadı: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Çıkmak için Ctrl+C")
	} else if len(m.npcs) == 0 {
		content.WriteString(modalTitleStyle.Render("NPC yok"))
		content.WriteString("\n\n")
		content.WriteString("Henüz kayıtlı NPC bulunmuyor. Önce bot üzerinden bir NPC ekle.")
		content.WriteString("\n\n")
		content.WriteString("Çıkmak için Ctrl+C")
	} else {
		content.WriteString(modalTitleStyle.Render("Bir NPC seç"))
		content.WriteString("\n\n")

		for i, npc := range m.npcs {
			label := fmt.Sprintf("%s (%s)", npc.Name, npc.Role)
			if i == m.selectedNPC {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + label))
			} else {
				content.WriteString(modalItemStyle.Render("  " + label))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("↑/↓: gezin, Enter: seç, Ctrl+C: çıkış"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showNPCModal {
		return m.renderNPCModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Başlatılıyor..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 10))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
