package mail

import (
	"context"

	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/voting"
)

// LogMailer writes codes to the log instead of sending them. Local use only.
type LogMailer struct{}

func (LogMailer) SendCode(_ context.Context, msg voting.CodeMessage) error {
	logging.Log.Warnf("MAIL: code for %s (%s) is %s", msg.To, msg.DisplayName, msg.Code)
	return nil
}
