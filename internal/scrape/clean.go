package scrape

import (
	"regexp"
	"strings"
)

// The cleaning pipeline mirrors what the extraction prompt expects:
// body text with navigation, media and ad chrome removed, no markup,
// no URLs (the chunk's provenance travels as metadata instead).

var (
	// Blocks removed wholesale before tag stripping.
	blockTags = []string{"script", "style", "header", "footer", "nav", "video", "audio", "noscript"}

	tagRe   = regexp.MustCompile(`<[^>]+>`)
	urlRe   = regexp.MustCompile(`http[s]?://[^\s"'<>]+`)
	spaceRe = regexp.MustCompile(`[ \t]+`)
	nlRe    = regexp.MustCompile(`\n{3,}`)
)

// CleanHTML reduces raw HTML to plaintext suitable for chunking:
// removes script/style/header/footer/nav/media blocks, strips tags,
// decodes common entities, drops inline URLs and collapses whitespace.
func CleanHTML(html string) string {
	for _, tag := range blockTags {
		re := regexp.MustCompile(`(?is)<` + tag + `[^>]*>.*?</` + tag + `>`)
		html = re.ReplaceAllString(html, "")
	}

	// Self-closing media and ad containers have no closing tag pair;
	// dropping remaining tags handles them.
	html = tagRe.ReplaceAllString(html, " ")

	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	html = r.Replace(html)

	html = urlRe.ReplaceAllString(html, "")
	html = spaceRe.ReplaceAllString(html, " ")
	html = nlRe.ReplaceAllString(html, "\n\n")

	return strings.TrimSpace(html)
}

// HeadTail caps text at maxChars by keeping the first and last halves.
// Price and contact details cluster at the top and bottom of retail
// pages, so the middle is the cheapest part to drop.
func HeadTail(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	half := maxChars / 2
	return string(runes[:half]) + string(runes[len(runes)-half:])
}
