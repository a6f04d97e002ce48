package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	SessionCreated  EventType = "session.created"
	SessionRenamed  EventType = "session.renamed"
	SessionDeleted  EventType = "session.deleted"
	MessageAnswered EventType = "message.answered"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// SessionCreatedEvent 새 채팅 세션 생성 이벤트
type SessionCreatedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

// SessionRenamedEvent 세션 이름 변경 이벤트 (사용자 변경/자동 요약 모두 포함)
type SessionRenamedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

// SessionDeletedEvent 세션 및 메시지 삭제 이벤트
type SessionDeletedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
}

// MessageAnsweredEvent 프롬프트에 대한 응답 저장 완료 이벤트
type MessageAnsweredEvent struct {
	BaseEvent
	SessionID         string `json:"session_id"`
	PromptMessageID   string `json:"prompt_message_id"`
	ResponseMessageID string `json:"response_message_id"`
	PromptTokens      int    `json:"prompt_tokens"`
	ResponseTokens    int    `json:"response_tokens"`
}

// SerializeEvent 이벤트를 JSON으로 직렬화하고 타입 정보 반환
func SerializeEvent(event interface{}) ([]byte, EventType, error) {
	var eventType EventType

	switch e := event.(type) {
	case SessionCreatedEvent:
		eventType = e.Type
	case SessionRenamedEvent:
		eventType = e.Type
	case SessionDeletedEvent:
		eventType = e.Type
	case MessageAnsweredEvent:
		eventType = e.Type
	default:
		return nil, "", fmt.Errorf("unknown event type: %T", event)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal event: %w", err)
	}

	return data, eventType, nil
}

// DeserializeEvent 이벤트 타입에 따라 적절한 구조체로 역직렬화
func DeserializeEvent(eventType EventType, data []byte) (interface{}, error) {
	var event interface{}

	switch eventType {
	case SessionCreated:
		event = &SessionCreatedEvent{}
	case SessionRenamed:
		event = &SessionRenamedEvent{}
	case SessionDeleted:
		event = &SessionDeletedEvent{}
	case MessageAnswered:
		event = &MessageAnsweredEvent{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return event, nil
}
