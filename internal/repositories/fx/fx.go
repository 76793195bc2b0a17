package fx

import (
	"github.com/appservices/hush-stories/internal/repositories/usersession"
	"github.com/appservices/hush-stories/internal/repositories/viewlog"
	"go.uber.org/fx"
)

var Module = fx.Options(
	usersession.Module,
	viewlog.Module,
)
