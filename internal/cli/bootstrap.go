// Package cli provides CLI commands for the waterwatch application.
package cli

import (
	gocontext "context"
	"os"

	"github.com/example/waterwatch/internal/config"
	"github.com/example/waterwatch/internal/ctxutil"
)

// globalActor stores the configured actor for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActor ctxutil.Actor

// DetectAndStoreActor loads the actor identity from the working directory's
// config. Should be called once at CLI startup in PersistentPreRun. Missing
// or invalid config means the caller acts as an anonymous citizen.
func DetectAndStoreActor() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		return
	}
	if !config.ValidRole(cfg.Role) {
		return
	}

	globalActor = ctxutil.Actor{Role: cfg.Role, District: cfg.District}
}

// GetActor returns the stored actor from CLI startup.
func GetActor() ctxutil.Actor {
	return globalActor
}

// NewContext creates a context.Background() with the current actor embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActor.Role != "" || globalActor.District != "" {
		return ctxutil.WithActor(ctx, globalActor)
	}
	return ctx
}
