package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0a84ff"))

	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#30d158"))

	cartStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD60A"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)
)

// Model defines the application state
type Model struct {
	textInput  textinput.Model
	spinner    spinner.Model
	client     *ApiClient
	transcript []string
	sessionID  string
	cart       []CartItem
	total      float64
	loading    bool
	error      string
}

// Initialize the model
func initialModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "কি খাবেন? জিজ্ঞেস করুন..."
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	client := NewApiClient()

	m := Model{
		textInput: ti,
		spinner:   s,
		client:    client,
	}
	if ok, err := client.CheckHealth(); !ok {
		m.error = fmt.Sprintf("API server at %s is not reachable: %v", client.BaseURL, err)
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink)
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+r":
			if m.sessionID != "" {
				return m, resetSession(m.client, m.sessionID)
			}
		case "enter":
			message := strings.TrimSpace(m.textInput.Value())
			if message == "" || m.loading {
				return m, nil
			}
			m.transcript = append(m.transcript, userStyle.Render("আপনি: ")+message)
			m.textInput.SetValue("")
			m.loading = true
			m.error = ""
			return m, sendMessage(m.client, message, m.sessionID)
		}
	case replyMsg:
		m.loading = false
		m.sessionID = msg.reply.SessionID
		m.cart = msg.reply.CartItems
		m.total = msg.reply.TotalPrice
		m.transcript = append(m.transcript, botStyle.Render("Atithi AI: ")+msg.reply.Response)
		for _, dish := range msg.reply.RecommendedDishes {
			m.transcript = append(m.transcript,
				fmt.Sprintf("   • %s — ₹%.0f (%.1f★)", dish.Name, dish.Price, dish.Rating))
		}
		if len(msg.reply.UnmatchedItems) > 0 {
			m.transcript = append(m.transcript,
				errorStyle.Render("মেনুতে নেই: "+strings.Join(msg.reply.UnmatchedItems, ", ")))
		}
		if msg.reply.Checkout != nil {
			m.transcript = append(m.transcript,
				cartStyle.Render(fmt.Sprintf("✅ অর্ডার #%d কনফার্মড! মোট ₹%.0f", msg.reply.Checkout.OrderID, msg.reply.Checkout.Total)),
				"   WhatsApp: "+msg.reply.Checkout.WhatsAppLink)
			m.cart = nil
			m.total = 0
		}
		return m, nil
	case errorMsg:
		m.loading = false
		m.error = msg.err
		return m, nil
	case resetMsg:
		m.cart = nil
		m.total = 0
		m.transcript = append(m.transcript, cartStyle.Render("🔄 সেশন রিসেট হয়েছে"))
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Atithi Family Restaurant — Chat") + "\n\n")

	for _, line := range m.transcript {
		b.WriteString(line + "\n")
	}

	if len(m.cart) > 0 {
		b.WriteString("\n" + cartStyle.Render("🛒 কার্ট:") + "\n")
		for _, item := range m.cart {
			b.WriteString(fmt.Sprintf("   %dx %s — ₹%.0f\n", item.Quantity, item.Name, item.Price*float64(item.Quantity)))
		}
		if m.total > 0 {
			b.WriteString(cartStyle.Render(fmt.Sprintf("   মোট: ₹%.0f", m.total)) + "\n")
		}
	}

	b.WriteString("\n")
	if m.loading {
		b.WriteString(m.spinner.View() + " ভাবছি...\n")
	} else {
		b.WriteString(m.textInput.View() + "\n")
	}

	if m.error != "" {
		b.WriteString(errorStyle.Render(m.error) + "\n")
	}

	b.WriteString("\nenter: পাঠান • ctrl+r: রিসেট • esc: বন্ধ করুন\n")
	return docStyle.Render(b.String())
}

// Custom message types for the tea.Model
type replyMsg struct {
	reply *ChatResponse
}

type errorMsg struct {
	err string
}

type resetMsg struct{}

// sendMessage runs one chat turn against the API
func sendMessage(client *ApiClient, message, sessionID string) tea.Cmd {
	return func() tea.Msg {
		reply, err := client.Chat(message, sessionID, "bn-IN")
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error sending message: %v", err)}
		}
		return replyMsg{reply: reply}
	}
}

// resetSession clears the server-side session
func resetSession(client *ApiClient, sessionID string) tea.Cmd {
	return func() tea.Msg {
		if err := client.ResetSession(sessionID); err != nil {
			return errorMsg{err: fmt.Sprintf("Error resetting session: %v", err)}
		}
		return resetMsg{}
	}
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}
