// Package template compiles view templates into render functions.
//
// A template whose trimmed text is wrapped in `<>` and `</>` is structured
// markup: the fragment is parsed once into an HTML node tree where text and
// attribute values may embed `{expr}` placeholders and elements may carry
// `x-if` and `x-for` directives. Every other template is legacy
// interpolation text with `{{ expr }}` placeholders.
//
// Legacy rendering swallows evaluation failures, rendering the failing
// placeholder as an empty string. Markup rendering returns them.
package template
