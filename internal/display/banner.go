package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

// RenderBanner returns the banner art centred for the current terminal
// width with the tagline underneath.
func RenderBanner() string {
	return renderBanner(termWidth())
}

// Tagline is printed under the banner art.
const Tagline = "a sourdough companion"

func renderBanner(width int) string {
	lines := strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n")

	// The art is centred as a block so its columns stay aligned.
	maxW := 0
	for _, l := range lines {
		maxW = max(maxW, len(l))
	}
	pad := strings.Repeat(" ", max((width-maxW)/2, 0))

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(pad)
		b.WriteString(BannerStyle.Render(l))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", max((width-len(Tagline))/2, 0)))
	b.WriteString(BannerStyle.Render(Tagline))
	b.WriteByte('\n')
	return b.String()
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
