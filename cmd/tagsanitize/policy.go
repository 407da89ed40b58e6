package main

import (
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/cybergodev/tagsanitizer"
)

// mailPolicy flattens an HTML e-mail into a fragment that can be embedded in
// another page: document scaffolding goes, scripts and styles go with their
// bodies, links keep their target and images become links to themselves.
type mailPolicy struct{}

func (mailPolicy) Decide(tag *tagsanitizer.Tag) {
	switch tag.Name {
	case "html", "body":
		tag.IgnoreSelf()
	case "head", "script", "style":
		tag.IgnoreSelfAndContents()
	case "a":
		tag.AllowAttribute("href")
	case "img":
		src, ok := tag.Attr("src")
		if !ok {
			return
		}
		if err := tag.RewriteAsNode(imageLink(src)); err != nil {
			tag.IgnoreSelfAndContents()
		}
	default:
		tag.AllowAttribute("style")
	}
}

func (mailPolicy) CacheKey() string { return "tagsanitize:mail:v1" }

func imageLink(src string) g.Node {
	label := "Load image"
	if i := strings.LastIndexByte(src, '/'); i >= 0 {
		label = src[i+1:]
	}
	return h.A(h.Href(src), g.Attr("title", src), g.Text(label))
}
