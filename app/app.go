package app

import (
	"database/sql"

	"github.com/go-chi/oauth"
	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/items"
	"github.com/mbolis/quick-forms/submissions"
)

// App carries the shared handles every route needs.
type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config

	Forms       *forms.Catalogue
	Submissions *submissions.Service
	Items       *items.Service
}
