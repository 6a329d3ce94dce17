// ============================================================================
// DexComX - Bulk Scripting Toolkit
// ============================================================================
//
// Package:     console
// Description: Styles for the interactive script console
// Author:      Mike Stoffels
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package console

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette, shared with the about card color
var (
	ColorPrimary   = lipgloss.Color("#03BAFC") // DexComX blue
	ColorSecondary = lipgloss.Color("#8B5CF6") // Violet
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorDimmed    = lipgloss.Color("#374151") // Dark Gray

	ColorBgPanel  = lipgloss.Color("#1E293B") // Slate 800
	ColorBgScript = lipgloss.Color("#1E3A5F")

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
)

var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	ScriptStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorBgScript).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary)

	OutputStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Padding(0, 2)

	SystemStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Padding(0, 2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Padding(0, 2)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)
)

var (
	TranscriptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed).
			Padding(0, 1)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed).
			Padding(0, 1)

	FocusedInputStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)
)

var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)

	DebugOnStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)
)

// RenderKeyHint renders a "key description" pair for the help bar
func RenderKeyHint(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpStyle.Render(desc)
}
