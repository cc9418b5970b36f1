package native

import "github.com/petems/stashkeys/internal/inject"

// typeText uses the unicode SendInput path, so text is not limited to
// what the scan code table covers.
func (n *nativeBackend) typeText(text string) error {
	return inject.SendInput{}.Type(text)
}
