package cli

import "eups-setup/internal/app"

var newAppService = app.NewService
