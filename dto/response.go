package dto

// ErrorResponseDTO는 공통 에러 응답 형식을 통일하기 위한 DTO이다.
type ErrorResponseDTO struct {
	Error string `json:"error" example:"session_not_found"`
}

// HealthResponseDTO is returned by GET /health.
// CompletionQuotaRemaining is today's remaining model calls, -1 when there is no daily cap.
type HealthResponseDTO struct {
	Status                   string `json:"status" example:"ok"`
	Store                    string `json:"store" example:"mongo"`
	CompletionQuotaRemaining *int   `json:"completion_quota_remaining,omitempty" example:"940"`
	Error                    string `json:"error,omitempty"`
}
