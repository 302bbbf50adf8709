package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
)

// Palette shared by every renderer and the fang help screen.
var (
	ColorPrimary   = lipgloss.Color("#2E7D5B") // forest green
	ColorSecondary = lipgloss.Color("#06B6D4") // cyan
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorError     = lipgloss.Color("#EF4444")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorHighlight = lipgloss.Color("#A3E635") // lime

	ColorText    = lipgloss.Color("#F9FAFB")
	ColorTextDim = lipgloss.Color("#9CA3AF")
)

// styleWrapper keeps callers off the lipgloss API.
type styleWrapper struct {
	style lipgloss.Style
}

func (s styleWrapper) Render(str string) string { return s.style.Render(str) }

// Bold returns a copy with bold set to v.
func (s styleWrapper) Bold(v bool) styleWrapper { return styleWrapper{s.style.Bold(v)} }

func fg(c color.Color) styleWrapper { return styleWrapper{lipgloss.NewStyle().Foreground(c)} }

func box(border color.Color) styleWrapper {
	return styleWrapper{lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)}
}

// Text styles.
var (
	Dim       = fg(ColorTextDim)
	Muted     = fg(ColorMuted)
	Success   = fg(ColorSuccess)
	Warning   = fg(ColorWarning)
	Error     = fg(ColorError)
	Secondary = fg(ColorSecondary)
	Highlight = fg(ColorHighlight).Bold(true)

	Title         = fg(ColorPrimary).Bold(true)
	SectionHeader = fg(ColorSecondary).Bold(true)
)

// Panels.
var (
	HighlightBox = box(ColorPrimary)
	SuccessBox   = box(ColorSuccess)
	ErrorBox     = box(ColorError)
)

// Workflow line styles, one per task status.
var (
	StepPending  = fg(ColorMuted)
	StepRunning  = fg(ColorSecondary)
	StepComplete = fg(ColorSuccess)
	StepFailed   = fg(ColorError)
)

func GetCheckMark() string { return Success.Render("✓") }
func GetCrossMark() string { return Error.Render("✗") }
func GetWarnMark() string  { return Warning.Render("⚠") }
func GetInfoMark() string  { return Secondary.Render("ℹ") }
func GetBullet() string    { return Muted.Render("•") }

// FormatKeyValue formats a key-value pair with styling
func FormatKeyValue(key, value string) string {
	return Dim.Render(key+": ") + value
}

// FormatStatus formats a status message with an appropriate icon
func FormatStatus(status, message string) string {
	var icon string
	switch status {
	case "success":
		icon = GetCheckMark()
	case "error":
		icon = GetCrossMark()
	case "warning":
		icon = GetWarnMark()
	case "info":
		icon = GetInfoMark()
	default:
		icon = GetBullet()
	}
	return icon + " " + message
}

// FangColorScheme maps the palette onto the fang help and error screens.
func FangColorScheme(c lipgloss.LightDarkFunc) fang.ColorScheme {
	return fang.ColorScheme{
		Base:           ColorText,
		Title:          ColorPrimary,
		Description:    ColorTextDim,
		Codeblock:      c(lipgloss.Color("#1F2937"), lipgloss.Color("#2F2E36")),
		Program:        ColorSecondary,
		DimmedArgument: ColorMuted,
		Comment:        ColorMuted,
		Flag:           ColorSuccess,
		FlagDefault:    ColorTextDim,
		Command:        ColorHighlight,
		QuotedString:   ColorSecondary,
		Argument:       ColorText,
		Help:           ColorTextDim,
		Dash:           ColorMuted,
		ErrorHeader:    [2]color.Color{ColorText, ColorError},
		ErrorDetails:   ColorError,
	}
}

// BannerASCII is shown above the root help.
const BannerASCII = `
    ______ ____   ____         __    ______ ___    ____
   / ____// __ \ / __ \ ____  / /   / ____//   |  / __ ) __  __ ____ _
  / __/  / /_/ // / / //___/ / /   / /    / /| | / __  |/ / / // __ '/
 / /___ / ____// /_/ /      / /___/ /___ / ___ |/ /_/ // /_/ // /_/ /
/_____//_/    /_____/      /_____/\____//_/  |_/_____/ \__, / \__, /
                                                      /____/ /____/
`

// RenderGradientBanner colors the banner.
func RenderGradientBanner(banner string) string {
	return Secondary.Render(banner)
}
