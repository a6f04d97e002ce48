package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-session/dto"
	"chat-session/services"
)

// ListSessionsHandler godoc
// @Summary      List chat sessions
// @Description  Reloads the session list from storage and returns it
// @Tags         sessions
// @Produce      json
// @Success      200  {array}   dto.SessionDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /sessions [get]
func ListSessionsHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.ListSessions(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSessionDTOs(items))
	}
}

// CreateSessionHandler godoc
// @Summary      Create a chat session
// @Description  Creates a session named "New Chat"
// @Tags         sessions
// @Produce      json
// @Success      201  {object}  dto.SessionDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /sessions [post]
func CreateSessionHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := svc.CreateSession(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.NewSessionDTO(session))
	}
}

// RenameSessionHandler godoc
// @Summary      Rename a chat session
// @Tags         sessions
// @Accept       json
// @Param        id    path  string                       true  "Session ID"
// @Param        body  body  dto.RenameSessionRequestDTO  true  "New name"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /sessions/{id} [patch]
func RenameSessionHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.RenameSessionRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, err)
			return
		}
		if err := svc.RenameSession(c.Request.Context(), c.Param("id"), req.Name); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DeleteSessionHandler godoc
// @Summary      Delete a chat session
// @Description  Deletes the session and all of its messages
// @Tags         sessions
// @Param        id  path  string  true  "Session ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /sessions/{id} [delete]
func DeleteSessionHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// SummarizeSessionNameHandler godoc
// @Summary      Name a session from a prompt
// @Description  Asks the model for a one or two word label and renames the session to it
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "Session ID"
// @Param        body  body  dto.SummarizeNameRequestDTO  true  "Prompt to summarize"
// @Success      200  {object}  dto.SummarizeNameResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      429  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /sessions/{id}/summarize-name [post]
func SummarizeSessionNameHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SummarizeNameRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, err)
			return
		}
		name, err := svc.SummarizeSessionName(c.Request.Context(), c.Param("id"), req.Prompt)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.SummarizeNameResponseDTO{Name: name})
	}
}
