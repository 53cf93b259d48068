package docx

import (
	"strconv"
	"strings"
	"unicode"
)

// ResolvedStyle contains the fully resolved properties for a style.
type ResolvedStyle struct {
	// Identity
	ID   string
	Name string // UI name, e.g. "Heading 1"
	Type string // paragraph, character, table

	// Run/character properties
	FontSize float64 // points, 0 if no style in the chain sets it
	Color    string  // hex color like "FF0000", "" if unset
}

// StyleResolver resolves styles with inheritance support.
// It caches results and is not safe for concurrent use.
type StyleResolver struct {
	styles           map[string]*styleDefXML
	resolved         map[string]*ResolvedStyle
	defaultParagraph string // styleId of the default paragraph style
}

// NewStyleResolver creates a new style resolver from parsed styles.
func NewStyleResolver(styles *stylesXML) *StyleResolver {
	sr := &StyleResolver{
		styles:   make(map[string]*styleDefXML),
		resolved: make(map[string]*ResolvedStyle),
	}

	if styles == nil {
		return sr
	}

	for i := range styles.Styles {
		style := &styles.Styles[i]
		sr.styles[style.StyleID] = style
		if style.Type == "paragraph" && isOn(style.Default) && sr.defaultParagraph == "" {
			sr.defaultParagraph = style.StyleID
		}
	}

	return sr
}

// Resolve returns the fully resolved style for the given style ID.
// Unknown IDs resolve to a style carrying only a built-in name, if the ID
// is one of Word's built-in style IDs.
func (sr *StyleResolver) Resolve(styleID string) *ResolvedStyle {
	if resolved, ok := sr.resolved[styleID]; ok {
		return resolved
	}

	resolved := &ResolvedStyle{ID: styleID}

	styleDef, ok := sr.styles[styleID]
	if !ok {
		resolved.Name = builtInName(styleID)
		sr.resolved[styleID] = resolved
		return resolved
	}

	resolved.Name = uiName(styleDef.Name.Val)
	if resolved.Name == "" {
		resolved.Name = styleID
	}
	resolved.Type = styleDef.Type

	// Apply properties from base to derived
	for _, sid := range sr.buildInheritanceChain(styleID) {
		if def, ok := sr.styles[sid]; ok {
			applyStyleDef(resolved, def)
		}
	}

	sr.resolved[styleID] = resolved
	return resolved
}

// ParagraphStyle resolves a paragraph's style. An empty or unknown ID falls
// back to the document's default paragraph style, except for built-in IDs
// such as "Heading1" which keep their built-in name.
func (sr *StyleResolver) ParagraphStyle(styleID string) *ResolvedStyle {
	if styleID != "" {
		if _, ok := sr.styles[styleID]; ok {
			return sr.Resolve(styleID)
		}
		if builtInName(styleID) != "" {
			return sr.Resolve(styleID)
		}
	}

	if sr.defaultParagraph != "" {
		return sr.Resolve(sr.defaultParagraph)
	}
	return &ResolvedStyle{ID: styleID, Name: "Normal", Type: "paragraph"}
}

// ParagraphStyleName returns the UI name of a paragraph's style.
func (sr *StyleResolver) ParagraphStyleName(styleID string) string {
	return sr.ParagraphStyle(styleID).Name
}

// CharacterColor returns the color set by a character style, if any.
func (sr *StyleResolver) CharacterColor(styleID string) (string, bool) {
	if styleID == "" {
		return "", false
	}
	c := sr.Resolve(styleID).Color
	return c, c != ""
}

// ParagraphColor returns the color set by a paragraph style, if any.
func (sr *StyleResolver) ParagraphColor(styleID string) (string, bool) {
	c := sr.ParagraphStyle(styleID).Color
	return c, c != ""
}

// buildInheritanceChain returns style IDs from base to derived.
func (sr *StyleResolver) buildInheritanceChain(styleID string) []string {
	var chain []string
	visited := make(map[string]bool)

	current := styleID
	for current != "" && !visited[current] {
		visited[current] = true
		chain = append([]string{current}, chain...) // Prepend

		if def, ok := sr.styles[current]; ok {
			current = def.BasedOn.Val
		} else {
			break
		}
	}

	return chain
}

// applyStyleDef applies a style definition's properties to a resolved style.
func applyStyleDef(resolved *ResolvedStyle, def *styleDefXML) {
	rpr := def.RPr
	if rpr.FontSize.Val != "" {
		if size := parseHalfPoints(rpr.FontSize.Val); size > 0 {
			resolved.FontSize = size
		}
	}
	if c := normalizeColor(rpr.Color.Val); c != "" {
		resolved.Color = c
	}
}

// uiName maps the lowercase names Word stores for some built-in styles to
// the names shown in the user interface ("heading 1" -> "Heading 1").
func uiName(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "heading ") && name != "" && unicode.IsLower(rune(name[0])):
		return "Heading " + name[len("heading "):]
	case lower == "caption" || lower == "header" || lower == "footer":
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return name
}

// builtInPrefixes are the style ID prefixes given built-in names when the
// document carries no definition for them.
var builtInPrefixes = []string{"Heading", "ListBullet", "ListNumber", "ListParagraph", "List", "Title", "Subtitle"}

// builtInName derives a UI name from a built-in style ID by splitting on
// case and digit boundaries ("ListNumber2" -> "List Number 2"). It returns
// "" for IDs that are not built in.
func builtInName(styleID string) string {
	known := false
	for _, p := range builtInPrefixes {
		if strings.HasPrefix(styleID, p) {
			known = true
			break
		}
	}
	if !known {
		return ""
	}

	var sb strings.Builder
	var prev rune
	for i, r := range styleID {
		if i > 0 && (unicode.IsUpper(r) || (unicode.IsDigit(r) && !unicode.IsDigit(prev))) {
			sb.WriteByte(' ')
		}
		sb.WriteRune(r)
		prev = r
	}
	return sb.String()
}

// normalizeColor returns an uppercase hex color, or "" for auto/invalid values.
func normalizeColor(val string) string {
	val = strings.TrimSpace(val)
	if val == "" || strings.EqualFold(val, "auto") || len(val) != 6 {
		return ""
	}
	if _, err := strconv.ParseUint(val, 16, 32); err != nil {
		return ""
	}
	return strings.ToUpper(val)
}

// isOn reports whether an OOXML on/off attribute value means true.
func isOn(val string) bool {
	switch strings.ToLower(val) {
	case "1", "true", "on":
		return true
	}
	return false
}

// parseHalfPoints parses a size in half-points to points.
// Word uses half-points for font sizes (e.g., "24" = 12pt).
func parseHalfPoints(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val / 2
}

// parseTwips parses a size in twips to points.
// 1 point = 20 twips.
func parseTwips(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val / 20
}
