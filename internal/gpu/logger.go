package gpu

import (
	"log/slog"

	"github.com/MartMcMahon/praxis"
)

// slogger returns the shared praxis logger. All logging in internal/gpu
// goes through this function, so praxis.SetLogger configures this package
// too.
func slogger() *slog.Logger { return praxis.Logger() }
