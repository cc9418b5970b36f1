//go:build darwin

package listener

import (
	"errors"

	"github.com/petems/stashkeys/internal/permissions"
)

func sessionAvailable() error {
	ok, err := permissions.CheckAccessibility()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("accessibility permission not granted")
	}
	return nil
}
