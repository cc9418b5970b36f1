package native

import "fmt"

func (n *nativeBackend) typeText(text string) error {
	strokes, err := strokesFor(text)
	if err != nil {
		return err
	}
	for _, s := range strokes {
		n.kb.Clear()
		n.kb.HasSHIFT(s.shift)
		n.kb.SetKeys(s.code)
		if err := n.kb.Launching(); err != nil {
			return fmt.Errorf("type: %w", err)
		}
	}
	return nil
}
