package render

import "github.com/microcosm-cc/bluemonday"

// svgElements is the presentational subset of inline SVG the default policy
// admits. Scripting, foreignObject, and event attributes stay excluded.
var svgElements = []string{
	"svg", "g", "defs", "use", "symbol", "title", "desc",
	"path", "rect", "circle", "ellipse", "line", "polyline", "polygon", "text",
}

var svgAttrs = []string{
	"viewbox", "xmlns", "width", "height", "fill", "stroke", "stroke-width",
	"stroke-linecap", "stroke-linejoin", "d", "x", "y", "x1", "y1", "x2", "y2",
	"cx", "cy", "r", "rx", "ry", "points", "transform",
}

// DefaultPolicy is the safe HTML + inline-SVG profile applied to every
// rendered post. It extends bluemonday's user-generated-content policy with
// heading ids (anchor targets), class names on code markup (language badges
// and highlighter output), data-URI images, and a presentational SVG subset.
// The policy is the configuration contract of the sanitize step; callers that
// need a different profile pass their own policy to NewBluemondaySanitizer.
func DefaultPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").OnElements("pre", "code", "span", "div", "table")
	p.AllowDataURIImages()
	p.AllowElements(svgElements...)
	p.AllowAttrs(svgAttrs...).OnElements(svgElements...)
	return p
}

// BluemondaySanitizer applies a bluemonday policy. The zero value is not
// usable; construct with NewBluemondaySanitizer.
type BluemondaySanitizer struct {
	policy *bluemonday.Policy
}

// NewBluemondaySanitizer wraps policy as a Sanitizer.
func NewBluemondaySanitizer(policy *bluemonday.Policy) *BluemondaySanitizer {
	return &BluemondaySanitizer{policy: policy}
}

// Sanitize strips everything the policy does not allow.
func (s *BluemondaySanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
