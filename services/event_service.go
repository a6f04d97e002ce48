package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"chat-session/eventbus"
	"chat-session/events"
	"chat-session/logger"
	"chat-session/models"
)

const (
	eventSource        = "chat-service"
	eventVersion       = "1.0"
	eventPublishWindow = 5 * time.Second
)

// EventService 채팅 라이프사이클 이벤트 발행 서비스
// nil 이거나 bus 가 없으면 아무 것도 발행하지 않는다.
type EventService struct {
	bus   eventbus.EventBus
	topic string
}

// NewEventService 새로운 이벤트 서비스 생성
func NewEventService(bus eventbus.EventBus, topic string) *EventService {
	return &EventService{bus: bus, topic: topic}
}

func newBaseEvent(t events.EventType) events.BaseEvent {
	return events.BaseEvent{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
	}
}

// PublishSessionCreated 세션 생성 이벤트 발행
func (s *EventService) PublishSessionCreated(ctx context.Context, session models.Session) {
	s.publish(ctx, events.SessionCreatedEvent{
		BaseEvent: newBaseEvent(events.SessionCreated),
		SessionID: session.ID,
		Name:      session.Name,
	})
}

// PublishSessionRenamed 세션 이름 변경 이벤트 발행
func (s *EventService) PublishSessionRenamed(ctx context.Context, session models.Session) {
	s.publish(ctx, events.SessionRenamedEvent{
		BaseEvent: newBaseEvent(events.SessionRenamed),
		SessionID: session.ID,
		Name:      session.Name,
	})
}

// PublishSessionDeleted 세션 삭제 이벤트 발행
func (s *EventService) PublishSessionDeleted(ctx context.Context, sessionID string) {
	s.publish(ctx, events.SessionDeletedEvent{
		BaseEvent: newBaseEvent(events.SessionDeleted),
		SessionID: sessionID,
	})
}

// PublishMessageAnswered 응답 저장 완료 이벤트 발행
func (s *EventService) PublishMessageAnswered(ctx context.Context, prompt, response models.Message) {
	s.publish(ctx, events.MessageAnsweredEvent{
		BaseEvent:         newBaseEvent(events.MessageAnswered),
		SessionID:         prompt.SessionID,
		PromptMessageID:   prompt.ID,
		ResponseMessageID: response.ID,
		PromptTokens:      prompt.Tokens,
		ResponseTokens:    response.Tokens,
	})
}

// publish 는 실패해도 호출한 작업을 실패시키지 않는다. 오류는 로그로만 남긴다.
func (s *EventService) publish(ctx context.Context, event interface{}) {
	if s == nil || s.bus == nil {
		return
	}

	data, eventType, err := events.SerializeEvent(event)
	if err != nil {
		logger.Log.Errorf("event serialize failed: %v", err)
		return
	}

	evt, err := eventbus.NewJSONEvent(uuid.New().String(), string(eventType), json.RawMessage(data))
	if err != nil {
		logger.Log.Errorf("event envelope failed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishWindow)
	defer cancel()
	if err := s.bus.Publish(ctx, s.topic, evt); err != nil {
		logger.WarnWithFields("event publish failed", logger.Fields{
			"event_type": string(eventType),
			"topic":      s.topic,
			"error":      err.Error(),
		})
	}
}
