//go:build windows

package cat

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// OpenPTY is not available on Windows; configure a com0com pair as the
// device instead.
func OpenPTY(publicName string, _ func(), _ logrus.FieldLogger) (*Endpoint, error) {
	return nil, fmt.Errorf("pseudo-terminal %s: %w", publicName, errors.ErrUnsupported)
}
