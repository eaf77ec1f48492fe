package color

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var profile = termenv.ANSI

func init() {
	if os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stdout) {
		profile = termenv.Ascii
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func EnableColor(enable bool) {
	if enable {
		profile = termenv.ANSI
	} else {
		profile = termenv.Ascii
	}
}

func Colorize(c termenv.Color, text string) string {
	return profile.String(text).Foreground(c).String()
}

func BrightRedText(text string) string {
	return Colorize(termenv.ANSIBrightRed, text)
}

func GreenText(text string) string {
	return Colorize(termenv.ANSIGreen, text)
}

func YellowText(text string) string {
	return Colorize(termenv.ANSIYellow, text)
}

func BlueText(text string) string {
	return Colorize(termenv.ANSIBlue, text)
}

func MagentaText(text string) string {
	return Colorize(termenv.ANSIMagenta, text)
}

func CyanText(text string) string {
	return Colorize(termenv.ANSICyan, text)
}

func GrayText(text string) string {
	return Colorize(termenv.ANSIBrightBlack, text)
}

func BoldText(text string) string {
	return profile.String(text).Bold().String()
}

func Error(message string) string {
	return BrightRedText("Error: ") + message
}
