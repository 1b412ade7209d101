package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mmunhall/dice-sack/internal/model"
	"github.com/mmunhall/dice-sack/internal/testutil"
)

type HubSuite struct {
	suite.Suite
	hub *Hub
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.hub = NewHub(testutil.NopLogger())
	go s.hub.Run()
}

func (s *HubSuite) TearDownTest() {
	s.hub.Close()
}

func (s *HubSuite) receive(sub *Subscriber) model.Event {
	select {
	case event, ok := <-sub.Events():
		s.Require().True(ok, "subscriber channel closed")
		return event
	case <-time.After(time.Second):
		s.FailNow("timed out waiting for event")
		return model.Event{}
	}
}

func (s *HubSuite) assertClosed(sub *Subscriber) {
	select {
	case _, ok := <-sub.Events():
		s.False(ok)
	case <-time.After(time.Second):
		s.FailNow("subscriber channel was not closed")
	}
}

func (s *HubSuite) TestNotifyReachesEverySubscriber() {
	a := s.hub.Subscribe("a")
	b := s.hub.Subscribe("b")

	s.hub.Notify(model.Event{Type: model.EventDieRolled, DieID: "die-1"})

	s.Equal(model.EventDieRolled, s.receive(a).Type)
	event := s.receive(b)
	s.Equal(model.EventDieRolled, event.Type)
	s.Equal("die-1", event.DieID)
}

func (s *HubSuite) TestEventsArriveInOrder() {
	sub := s.hub.Subscribe("tui")

	s.hub.Notify(model.Event{Type: model.EventAnimationStarted})
	s.hub.Notify(model.Event{Type: model.EventAnimationStep})
	s.hub.Notify(model.Event{Type: model.EventAnimationFinished})

	s.Equal(model.EventAnimationStarted, s.receive(sub).Type)
	s.Equal(model.EventAnimationStep, s.receive(sub).Type)
	s.Equal(model.EventAnimationFinished, s.receive(sub).Type)
}

func (s *HubSuite) TestSubscriberCount() {
	a := s.hub.Subscribe("a")
	s.hub.Subscribe("b")
	s.Eventually(func() bool { return s.hub.SubscriberCount() == 2 }, time.Second, time.Millisecond)

	s.hub.Unsubscribe(a)
	s.Eventually(func() bool { return s.hub.SubscriberCount() == 1 }, time.Second, time.Millisecond)
}

func (s *HubSuite) TestUnsubscribeClosesChannel() {
	sub := s.hub.Subscribe("a")
	s.hub.Unsubscribe(sub)
	s.assertClosed(sub)

	// A second unsubscribe is harmless
	s.hub.Unsubscribe(sub)
}

func (s *HubSuite) TestFullSubscriberDropsInsteadOfBlocking() {
	slow := s.hub.Subscribe("slow")
	fast := s.hub.Subscribe("fast")

	for i := 0; i < sendBufferSize+10; i++ {
		s.hub.Notify(model.Event{Type: model.EventAnimationStep})
		// Each delivery to the fast subscriber proves the loop handled the event
		s.receive(fast)
	}

	s.hub.Notify(model.Event{Type: model.EventTurnEnded})
	s.Equal(model.EventTurnEnded, s.receive(fast).Type)
	s.Len(slow.send, sendBufferSize)
}

func (s *HubSuite) TestCloseDisconnectsSubscribers() {
	a := s.hub.Subscribe("a")
	b := s.hub.Subscribe("b")

	s.hub.Close()
	s.hub.Close()

	s.assertClosed(a)
	s.assertClosed(b)
}

func (s *HubSuite) TestUseAfterCloseDoesNotBlock() {
	s.hub.Close()

	s.hub.Notify(model.Event{Type: model.EventDieRolled})
	sub := s.hub.Subscribe("late")
	s.assertClosed(sub)
	s.hub.Unsubscribe(sub)
}

func (s *HubSuite) TestNotifierFuncAdapter() {
	var got []model.EventType
	var n model.Notifier = model.NotifierFunc(func(e model.Event) { got = append(got, e.Type) })
	n.Notify(model.Event{Type: model.EventHistoryCleared})
	s.Equal([]model.EventType{model.EventHistoryCleared}, got)
}
