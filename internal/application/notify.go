package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/vidhub/vidhub-api/internal/domain/entity"
	"github.com/vidhub/vidhub-api/pkg/mailer"
	"github.com/vidhub/vidhub-api/pkg/mailer/templates"
)

// Publisher is satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Notifier enqueues notification email jobs. All sends are best-effort: a
// queue failure is logged and never fails the triggering operation.
type Notifier struct {
	Pub    Publisher
	Logger *logrus.Logger
}

func NewNotifier(pub Publisher, logger *logrus.Logger) *Notifier {
	return &Notifier{Pub: pub, Logger: logger}
}

func (n *Notifier) enqueue(ctx context.Context, job mailer.EmailJob) {
	if n == nil || n.Pub == nil {
		return
	}
	if err := n.Pub.PublishJSON(ctx, job); err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithField("template", job.Template).Warn("notification enqueue failed")
	}
}

func (n *Notifier) Welcome(ctx context.Context, u *entity.User) {
	n.enqueue(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: templates.Welcome,
		Data:     map[string]any{"Name": u.FullName, "Username": u.Username},
	})
}

func (n *Notifier) PasswordChanged(ctx context.Context, u *entity.User) {
	n.enqueue(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: templates.PasswordChanged,
		Data:     map[string]any{"Name": u.FullName},
	})
}
