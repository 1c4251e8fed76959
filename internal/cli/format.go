package cli

import (
	"time"

	"github.com/xelth-com/storesync/internal/wire"
)

func formatWhen(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return wire.FormatTime(*t)
}
