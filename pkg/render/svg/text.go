package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	fontHeightRatio = 0.3
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 9.0
	fontSizeMax     = 16.0
	smallFontSize   = 10.0
	maxTagChips     = 3
)

// FontSize returns the label font size that fits the card.
func FontSize(c Card) float64 { return fontSizeFor(c.W, c.H, len(c.Label)) }

func fontSizeFor(availWidth, availHeight float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// TruncateLabel shortens s with a trailing ".." so that it fits width at
// the given font size. At least three characters are always kept.
func TruncateLabel(s string, width, fontSize float64) string {
	maxChars := max(3, int(width*fontWidthRatio/(fontSize*fontCharWidth)))
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-2]) + ".."
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func renderCardText(buf *bytes.Buffer, c Card, fg, muted string) {
	size := FontSize(c)
	labelY := c.CY
	if c.Category != "" {
		fmt.Fprintf(buf, `  <text class="card-category" x="%.2f" y="%.2f" text-anchor="middle" font-family="system-ui, sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
			c.CX, c.Y+smallFontSize+6, smallFontSize, muted, EscapeXML(TruncateLabel(strings.ToUpper(c.Category), c.W, smallFontSize)))
		labelY += smallFontSize / 2
	}
	if len(c.Tags) > 0 {
		labelY -= smallFontSize / 2
	}
	fmt.Fprintf(buf, `  <text class="card-label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="system-ui, sans-serif" font-size="%.1f" font-weight="600" fill="%s">%s</text>`+"\n",
		c.CX, labelY, size, fg, EscapeXML(TruncateLabel(c.Label, c.W, size)))
	if len(c.Tags) > 0 {
		fmt.Fprintf(buf, `  <text class="card-tags" x="%.2f" y="%.2f" text-anchor="middle" font-family="system-ui, sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
			c.CX, c.Y+c.H-8, smallFontSize, muted, EscapeXML(TruncateLabel(tagLine(c.Tags), c.W, smallFontSize)))
	}
}

func tagLine(tags []string) string {
	if len(tags) > maxTagChips {
		return strings.Join(tags[:maxTagChips], " · ") + fmt.Sprintf(" +%d", len(tags)-maxTagChips)
	}
	return strings.Join(tags, " · ")
}
