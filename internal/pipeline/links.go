package pipeline

import (
	"strings"

	"github.com/esap-ai/quotescout/pkg/serper"
)

// CollectLinks pulls organic result links from a search response,
// deduplicated preserving first-seen order. When allowed is non-empty,
// links whose URL contains none of the allowed domain fragments are
// dropped.
func CollectLinks(resp *serper.SearchResponse, allowed []string) []string {
	if resp == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string
	for _, item := range resp.Organic {
		if item.Link == "" {
			continue
		}
		if len(allowed) > 0 && !domainAllowed(item.Link, allowed) {
			continue
		}
		if _, dup := seen[item.Link]; dup {
			continue
		}
		seen[item.Link] = struct{}{}
		links = append(links, item.Link)
	}
	return links
}

func domainAllowed(link string, allowed []string) bool {
	for _, domain := range allowed {
		if strings.Contains(link, domain) {
			return true
		}
	}
	return false
}
