package svg

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/blueprint/pkg/layout"
)

const arrowInteractionCSS = `
    .arrow { transition: stroke-width 0.2s ease, opacity 0.2s ease; }
    .arrow.dim { opacity: 0.2; }
    .card { transition: stroke-width 0.2s ease; }
    .card.highlight { stroke-width: 3; }`

const arrowInteractionJS = `
    function focus(id) {
      document.querySelectorAll('.arrow').forEach(a => a.classList.toggle('dim', a.dataset.from !== id && a.dataset.to !== id));
      document.querySelectorAll('.card').forEach(c => c.classList.toggle('highlight', c.id === 'card-' + id));
    }
    function clearFocus() {
      document.querySelectorAll('.arrow, .card').forEach(el => el.classList.remove('dim', 'highlight'));
    }
    document.querySelectorAll('.card').forEach(el => {
      el.addEventListener('mouseenter', () => focus(el.id.replace('card-', '')));
      el.addEventListener('mouseleave', clearFocus);
    });`

// Option configures [Render] and [RenderHTML].
type Option func(*renderer)

type renderer struct {
	style       Style
	natural     bool
	interactive bool
	title       string
}

// WithStyle selects the visual style. The default is [Simple].
func WithStyle(s Style) Option { return func(r *renderer) { r.style = s } }

// WithNaturalSize ignores the layout scale and renders at full size.
func WithNaturalSize() Option { return func(r *renderer) { r.natural = true } }

// WithInteraction adds hover highlighting of a card's arrows.
func WithInteraction() Option { return func(r *renderer) { r.interactive = true } }

// WithTitle adds a <title> element.
func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

func newRenderer(opts ...Option) renderer {
	r := renderer{style: Simple{}}
	for _, opt := range opts {
		opt(&r)
	}
	if r.style == nil {
		r.style = Simple{}
	}
	return r
}

// Render draws a layout as a standalone SVG document. The viewBox is the
// pre-scale canvas; width and height carry the layout scale unless
// [WithNaturalSize] is given.
func Render(res layout.Result, opts ...Option) []byte {
	r := newRenderer(opts...)

	scale := res.Scale
	if r.natural || scale <= 0 {
		scale = 1
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		res.CanvasWidth, res.CanvasHeight, res.CanvasWidth*scale, res.CanvasHeight*scale)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", EscapeXML(r.title))
	}

	r.style.RenderDefs(&buf)

	cards := buildCards(res)
	for _, a := range buildArrows(res) {
		r.style.RenderCurve(&buf, a)
	}
	for _, c := range cards {
		r.style.RenderCard(&buf, c)
	}
	for _, c := range cards {
		r.style.RenderText(&buf, c)
	}

	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", arrowInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", arrowInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func buildCards(res layout.Result) []Card {
	w, h := res.Config.CardWidth, res.Config.CardHeight
	if w <= 0 || h <= 0 {
		cfg := res.Config.WithDefaults()
		w, h = cfg.CardWidth, cfg.CardHeight
	}
	cards := make([]Card, 0, len(res.Cards))
	for _, c := range res.Cards {
		cards = append(cards, Card{
			ID:       c.ID,
			Label:    c.Label,
			Category: c.Category,
			Tags:     c.Tags,
			X:        c.X, Y: c.Y, W: w, H: h,
			CX: c.X + w/2, CY: c.Y + h/2,
		})
	}
	return cards
}

func buildArrows(res layout.Result) []Arrow {
	arrows := make([]Arrow, 0, len(res.Curves))
	for _, c := range res.Curves {
		arrows = append(arrows, Arrow{FromID: c.From, ToID: c.To, Path: c.Path()})
	}
	return arrows
}
