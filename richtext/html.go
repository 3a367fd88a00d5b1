package richtext

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"go.uber.org/zap"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	brNewlineRe = regexp.MustCompile(`(?i)<br\s*/?>\n`)
	brRe        = regexp.MustCompile(`(?i)<br\s*/?>`)

	lineBreaks = strings.NewReplacer("\r\n", "<br />\r\n", "\n", "<br />\n", "\r", "<br />\r")
)

// HTMLConverter converts between RichText values and HTML fragments using an
// ordered converter chain. It holds no per-call state and is safe for
// concurrent use.
type HTMLConverter struct {
	chain *Chain
	log   *zap.Logger
}

// Option configures an HTMLConverter.
type Option func(*HTMLConverter)

// WithChain replaces the default converter chain.
func WithChain(chain *Chain) Option {
	return func(c *HTMLConverter) {
		if chain != nil {
			c.chain = chain
		}
	}
}

// WithLogger sets the logger used for degraded input.
func WithLogger(log *zap.Logger) Option {
	return func(c *HTMLConverter) {
		if log != nil {
			c.log = log
		}
	}
}

// NewHTMLConverter returns a converter using DefaultChain unless overridden.
func NewHTMLConverter(opts ...Option) *HTMLConverter {
	c := &HTMLConverter{
		chain: DefaultChain(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("richtext")
	return c
}

// Chain returns the converter chain in use.
func (c *HTMLConverter) Chain() *Chain {
	return c.chain
}

// ToHTML renders value as an HTML fragment. RichText values become a
// sequence of escaped text and styled <span> segments. Anything else is
// trimmed and passed through as is, so markup it already holds survives.
// Newlines are rendered as "<br />" followed by the newline
// and the result is trimmed.
func (c *HTMLConverter) ToHTML(value any) string {
	var rt RichText
	switch v := value.(type) {
	case RichText:
		rt = v
	case *RichText:
		if v == nil {
			return ""
		}
		rt = *v
	case nil:
		return ""
	case string:
		return lineBreaks.Replace(strings.TrimSpace(v))
	default:
		return lineBreaks.Replace(strings.TrimSpace(fmt.Sprint(v)))
	}

	var b strings.Builder
	for _, run := range rt.Runs {
		text := html.EscapeString(run.Text)
		style := c.chain.Style(run)
		if style.Len() > 0 {
			b.WriteString(lineBreaks.Replace(fmt.Sprintf(`<span style="%s">%s</span>`, html.EscapeString(style.String()), text)))
		} else {
			b.WriteString(lineBreaks.Replace(text))
		}
	}
	return strings.TrimSpace(b.String())
}

// FromHTML parses an HTML fragment into a RichText value. Each non-empty
// text node becomes one run styled by its immediate parent element only;
// styles of further ancestors are not inherited. The result always holds at
// least one run.
func (c *HTMLConverter) FromHTML(fragment string) RichText {
	fragment = brNewlineRe.ReplaceAllString(fragment, "\n")
	fragment = brRe.ReplaceAllString(fragment, "\n")

	body := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := xhtml.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		c.log.Debug("unparseable html fragment", zap.Error(err))
		nodes = nil
	}

	var runs []TextRun
	for _, node := range nodes {
		runs = append(runs, c.textRuns(node, "", StyleMap{})...)
	}
	if len(runs) == 0 {
		return New(TextRun{})
	}
	return New(runs...)
}

func (c *HTMLConverter) textRuns(node *xhtml.Node, parentTag string, parentStyle StyleMap) []TextRun {
	if node.FirstChild != nil {
		style := nodeStyle(node)
		var runs []TextRun
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			runs = append(runs, c.textRuns(child, node.Data, style)...)
		}
		return runs
	}

	if node.Type != xhtml.TextNode || node.Data == "" {
		return nil
	}
	run := TextRun{Text: node.Data}
	c.chain.Apply(&run, strings.ToLower(parentTag), parentStyle)
	return []TextRun{run}
}

func nodeStyle(node *xhtml.Node) StyleMap {
	if node.Type != xhtml.ElementNode {
		return StyleMap{}
	}
	for _, attr := range node.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, "style") {
			return ParseStyle(attr.Val)
		}
	}
	return StyleMap{}
}
