package urls

import "strings"

// EditURLFinder maps object ids to admin edit links. A lookup failure yields
// an empty link so widgets simply hide the edit action.
type EditURLFinder struct {
	reverser Reverser
	route    string
}

// NewEditURLFinder builds a finder for the given route; RouteImageEdit is used
// when route is empty.
func NewEditURLFinder(reverser Reverser, route string) *EditURLFinder {
	route = strings.TrimSpace(route)
	if route == "" {
		route = RouteImageEdit
	}
	return &EditURLFinder{reverser: reverser, route: route}
}

// EditURL returns the edit link for id, or "".
func (f *EditURLFinder) EditURL(id string) string {
	if f == nil || f.reverser == nil || strings.TrimSpace(id) == "" {
		return ""
	}
	link, err := f.reverser.Reverse(f.route, id)
	if err != nil {
		return ""
	}
	return link
}
