package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Label is used for chart headers.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	// MutedText is for summaries and empty states.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// SuccessText marks stored credentials.
	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// WarningText marks missing credentials.
	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// CredentialStatus renders a logged-in indicator for auth status output.
func CredentialStatus(loggedIn bool) string {
	if loggedIn {
		return SuccessText.Render("●") + " logged in"
	}
	return WarningText.Render("●") + " not logged in"
}
