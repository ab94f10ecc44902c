package worker_test

import (
	"context"
	"errors"
	"testing"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/internal/worker"
	"go-recruitment-crm/pkg/mq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockNotificationUsecase struct {
	mock.Mock
}

func (m *MockNotificationUsecase) HandleStageChanged(ctx context.Context, ev domain.StageChangedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *MockNotificationUsecase) HandleMessageSent(ctx context.Context, ev domain.MessageSentEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type fakeAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAck) Ack(bool) error { f.acked = true; return nil }
func (f *fakeAck) Nack(_ bool, requeue bool) error {
	f.nacked, f.requeue = true, requeue
	return nil
}

func TestNotificationConsumer_RoutesStageChanged(t *testing.T) {
	uc := new(MockNotificationUsecase)
	uc.On("HandleStageChanged", mock.Anything, mock.MatchedBy(func(ev domain.StageChangedEvent) bool {
		return ev.ApplicationID == "app-1" && ev.ToStage == domain.StageInterview
	})).Return(nil)

	w := worker.NewNotificationConsumer(uc)
	body := []byte(`{"application_id":"app-1","from_stage":"screening","to_stage":"interview","changed_by":"u-1"}`)

	err := w.Handle(context.Background(), domain.EventApplicationStageChanged, body)

	assert.NoError(t, err)
	uc.AssertExpectations(t)
}

func TestNotificationConsumer_RoutesMessageSent(t *testing.T) {
	uc := new(MockNotificationUsecase)
	uc.On("HandleMessageSent", mock.Anything, mock.MatchedBy(func(ev domain.MessageSentEvent) bool {
		return ev.MessageID == "m-1" && len(ev.RecipientIDs) == 2
	})).Return(nil)

	w := worker.NewNotificationConsumer(uc)
	body := []byte(`{"message_id":"m-1","recipient_ids":["a","b"]}`)

	assert.NoError(t, w.Handle(context.Background(), domain.EventMessageSent, body))
	uc.AssertExpectations(t)
}

func TestNotificationConsumer_Settling(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		body        string
		ucErr       error
		redelivered bool
		wantAck     bool
		wantRequeue bool
	}{
		{name: "unknown key is acked", key: "candidate.created", body: `{}`, wantAck: true},
		{name: "bad json is dead-lettered", key: domain.EventMessageSent, body: `{not json`},
		{name: "transient failure is requeued once", key: domain.EventMessageSent, body: `{}`, ucErr: errors.New("smtp down"), wantRequeue: true},
		{name: "failed redelivery is dead-lettered", key: domain.EventMessageSent, body: `{}`, ucErr: errors.New("smtp down"), redelivered: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockNotificationUsecase)
			uc.On("HandleMessageSent", mock.Anything, mock.Anything).Return(tt.ucErr).Maybe()

			ack := &fakeAck{}
			w := worker.NewNotificationConsumer(uc)
			mq.Settle(context.Background(), ack, tt.key, []byte(tt.body), tt.redelivered, w.HandlerFunc())

			assert.Equal(t, tt.wantAck, ack.acked)
			assert.Equal(t, !tt.wantAck, ack.nacked)
			assert.Equal(t, tt.wantRequeue, ack.requeue)
		})
	}
}
