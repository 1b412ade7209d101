package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).PaddingBottom(1)
	dieStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	lockedStyle  = dieStyle.BorderForeground(lipgloss.Color("11")).Foreground(lipgloss.Color("8"))
	rollingStyle = dieStyle.BorderForeground(lipgloss.Color("14")).Foreground(lipgloss.Color("14"))
	labelStyle   = lipgloss.NewStyle().Width(faceWidth + 4).Align(lipgloss.Center)
	totalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).PaddingTop(1)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).PaddingTop(1)
	dim          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	historyPanel = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 1).MarginTop(1)
)
