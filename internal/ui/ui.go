package ui

// Raw ANSI codes for the debug log prefixes. Rendered output uses the
// lipgloss styles in styles.go.
const (
	Reset     = "\033[0m"
	FgCyan    = "\033[36m"
	FgGreen   = "\033[32m"
	FgMagenta = "\033[35m"
	FgYellow  = "\033[33m"
	FgRed     = "\033[31m"
)

var noColor bool

// Init sets the --no-color state. With disable set, Color returns its input
// untouched.
func Init(disable bool) { noColor = disable }

// Color wraps s in code.
func Color(s string, code string) string {
	if noColor {
		return s
	}
	return code + s + Reset
}
