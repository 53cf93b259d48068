package markup

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/docsplit/model"
)

// frame is one open formatting tag and the style in effect inside it.
type frame struct {
	tag   string
	style model.StyledRun
}

// Parse tokenizes markup into styled runs. Text outside any font tag gets
// the default size and black. A <br/> becomes a run whose text is "\n".
// Unknown tags are ignored; their text is kept.
func Parse(markup string) []model.StyledRun {
	z := html.NewTokenizer(strings.NewReader(markup))
	base := model.StyledRun{Size: model.DefaultSize}
	stack := []frame{{style: base}}
	var runs []model.StyledRun

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed input; keep what was read
			return runs

		case html.TextToken:
			text := string(z.Text())
			if text == "" {
				continue
			}
			run := stack[len(stack)-1].style
			run.Text = text
			runs = append(runs, run)

		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" {
				run := stack[len(stack)-1].style
				run.Text = "\n"
				runs = append(runs, run)
			}

		case html.StartTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if tag == "br" {
				run := stack[len(stack)-1].style
				run.Text = "\n"
				runs = append(runs, run)
				continue
			}
			style := stack[len(stack)-1].style
			switch tag {
			case "b", "strong":
				style.Bold = true
			case "i", "em":
				style.Italic = true
			case "u":
				style.Underline = true
			case "font":
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					switch string(key) {
					case "color":
						if c, ok := model.ParseHex(string(val)); ok {
							style.Color = c
						}
					case "size":
						if s, err := strconv.ParseFloat(string(val), 64); err == nil && s > 0 {
							style.Size = s
						}
					}
				}
			default:
				continue
			}
			stack = append(stack, frame{tag: tag, style: style})

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			// Pop to the nearest matching tag; stray closers are ignored.
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].tag == tag {
					stack = stack[:i]
					break
				}
			}
		}
	}
}

// PlainText returns the visible text of markup. Line breaks become "\n".
func PlainText(markup string) string {
	return model.RunsText(Parse(markup))
}
