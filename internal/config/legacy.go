package config

import (
	"strings"

	"git.home.luguber.info/inful/styleext/internal/errors"
)

// Inline is the removed loader-chain entry point. It exists so that old
// call sites fail loudly with migration guidance instead of silently doing
// nothing.
func Inline(loaders ...string) error {
	return errors.LegacyConfiguration("Inline(" + strings.Join(loaders, ", ") + ")")
}
