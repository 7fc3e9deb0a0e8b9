package state

import (
	"github.com/indieprop/homestead/config"
	"github.com/indieprop/homestead/intake"
	"github.com/indieprop/homestead/storage/docs"
	"github.com/indieprop/homestead/storage/media"
)

// HomesteadState is the request-handling context: configuration plus the
// stores constructed once at process start and shared read-only across
// requests. The only shared mutable state is inside the clients' own
// connection pools.
type HomesteadState struct {
	Cfg        *config.Config
	Docs       docs.Store
	Media      media.Store
	Transcoder *intake.Transcoder
}

func (st *HomesteadState) Limits() intake.Limits {
	return intake.Limits{
		MaxPayloadSize: int64(st.Cfg.Server.Limits.MaxPayloadSize),
		MaxFileSize:    int64(st.Cfg.Server.Limits.MaxFileSize),
		MaxFileCount:   int(st.Cfg.Server.Limits.MaxFileCount),
	}
}
