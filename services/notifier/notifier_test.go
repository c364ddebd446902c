package notifiersvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecscoop/portal/core"
	emailsvc "github.com/cecscoop/portal/services/email"
	dummydb "github.com/cecscoop/portal/storage/database/dummy"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func (nopLogger) Fatal(msg string, _ ...interface{}) { panic(msg) }

func TestDispatchPending(t *testing.T) {
	conf := &core.Config{
		TestMode: true,
		Notifier: core.NotifierConfig{PollInterval: time.Minute, BatchSize: 10},
	}
	db := dummydb.NewDB()
	repo := dummydb.NewCoopRepository(db)
	emailsvc.ClearSentMessages()

	d := NewDispatcher(dummydb.NewOutbox(db), emailsvc.NewConsoleServiceMock(conf), nopLogger{}, conf)
	ctx := context.Background()

	ok := core.NewEvent(core.EventStudentSelected, "stud@test.test", "Co-op Selection", "Congratulations!")
	noRecipient := core.NewEvent(core.EventStudentSelected, "", "Co-op Selection", "Congratulations!")
	require.NoError(t, repo.StageEvent(ctx, ok))
	require.NoError(t, repo.StageEvent(ctx, noRecipient))

	d.DispatchPending(ctx)

	require.Len(t, emailsvc.SentMessages, 1)
	msg := emailsvc.SentMessages[0]
	require.Len(t, msg.To, 1)
	assert.Equal(t, "stud@test.test", msg.To[0].Address)
	assert.Equal(t, "Co-op Selection", msg.Subject)

	byID := make(map[string]core.Event, 2)
	for _, evt := range db.Events() {
		byID[evt.ID] = evt
	}
	assert.Equal(t, core.EventSent, byID[ok.ID].Status)
	assert.True(t, byID[ok.ID].SentAt.Valid)
	assert.Equal(t, core.EventFailed, byID[noRecipient.ID].Status)

	// nothing pending on the second pass
	d.DispatchPending(ctx)
	assert.Len(t, emailsvc.SentMessages, 1)
}
