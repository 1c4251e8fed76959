package normalizer

import (
	"strings"

	"github.com/xelth-com/storesync/internal/catalog"
	"github.com/xelth-com/storesync/internal/wire"
)

type ingestHook func(row wire.Row, rec Record)
type exportHook func(rec Record, row wire.Row)

var ingestHooks = map[string]ingestHook{
	catalog.TypeUsers: splitUserName,
}

var exportHooks = map[string]exportHook{
	catalog.TypeUsers: joinUserName,
}

// splitUserName derives first/last name from the terminal's combined display name
// and defaults the login name to the email address
func splitUserName(row wire.Row, rec Record) {
	if v, ok := row["name"]; ok && !v.IsNull() {
		first, last, _ := strings.Cut(strings.TrimSpace(v.Text()), " ")
		rec["first_name"] = first
		rec["last_name"] = strings.TrimSpace(last)
	}

	if email, ok := rec["email"].(string); ok && email != "" {
		if username, _ := rec["username"].(string); username == "" {
			rec["username"] = email
		}
	}
}

// joinUserName rebuilds the combined display name, falling back to the login name
func joinUserName(rec Record, row wire.Row) {
	if !rec.Has("first_name") && !rec.Has("last_name") {
		return
	}
	first, _ := rec["first_name"].(string)
	last, _ := rec["last_name"].(string)

	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		name, _ = rec["username"].(string)
	}
	row["name"] = wire.String(name)
}
