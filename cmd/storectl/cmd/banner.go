package cmd

import (
	"github.com/charmbracelet/lipgloss"
)

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("14")).
	Padding(0, 2)

func banner() string {
	return bannerStyle.Render("PRODUCT MANAGER - FAKE STORE API")
}
