package app

import (
	"github.com/go-chi/oauth"

	"github.com/formforge/formforge/config"
	"github.com/formforge/formforge/store"
)

type App struct {
	*store.Store
	*oauth.BearerServer
	config.Config
}
