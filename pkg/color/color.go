package color

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// ANSI colour codes understood by termenv.Profile.Color
const (
	Red       = "1"
	Green     = "2"
	Yellow    = "3"
	Blue      = "4"
	Magenta   = "5"
	Cyan      = "6"
	Gray      = "8"
	BrightRed = "9"
)

var profile = termenv.ANSI

func init() {
	if termenv.EnvNoColor() {
		profile = termenv.Ascii
	}
}

// EnableColor switches coloured output on or off
func EnableColor(enable bool) {
	if enable {
		profile = termenv.ANSI
		return
	}
	profile = termenv.Ascii
}

// SetProfile forces a termenv colour profile
func SetProfile(p termenv.Profile) {
	profile = p
}

func IsColorEnabled() bool {
	return profile != termenv.Ascii
}

func Colorize(c, text string) string {
	return profile.String(text).Foreground(profile.Color(c)).String()
}

func RedText(text string) string {
	return Colorize(Red, text)
}

func BrightRedText(text string) string {
	return Colorize(BrightRed, text)
}

func GreenText(text string) string {
	return Colorize(Green, text)
}

func YellowText(text string) string {
	return Colorize(Yellow, text)
}

func BlueText(text string) string {
	return Colorize(Blue, text)
}

func CyanText(text string) string {
	return Colorize(Cyan, text)
}

func GrayText(text string) string {
	return Colorize(Gray, text)
}

func BoldText(text string) string {
	return profile.String(text).Bold().String()
}

func Highlight(text, highlight string) string {
	if !IsColorEnabled() {
		return text
	}
	return strings.ReplaceAll(text, highlight, YellowText(highlight))
}

// ErrorWithPosition formats an error message at pos with the offending
// source line below it
func ErrorWithPosition(pos, message, context string) string {
	if !IsColorEnabled() {
		return fmt.Sprintf("Error at %s: %s\n\t%s", pos, message, context)
	}

	return fmt.Sprintf("%s at %s: %s\n\t%s",
		BrightRedText(BoldText("Error")),
		CyanText(pos),
		message,
		GrayText(context))
}
