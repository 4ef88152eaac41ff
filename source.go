package seek

import "strings"

// DisplaySource returns u without its http or https scheme, the form in
// which sources are shown to the user.
func DisplaySource(u string) string {
	for _, scheme := range []string{"https://", "http://"} {
		if rest, ok := strings.CutPrefix(u, scheme); ok {
			return rest
		}
	}
	return u
}
