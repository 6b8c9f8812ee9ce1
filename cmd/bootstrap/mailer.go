package bootstrap

import (
	"biblio-api/internal/infra/mailer"

	"go.uber.org/fx"
)

var MailerModule = fx.Module("mailer",
	fx.Provide(
		mailer.NewLogMailer,
	),
)
