package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-session/dto"
	"chat-session/services"
)

// ListMessagesHandler godoc
// @Summary      List messages of a session
// @Description  Returns the full history, loading it from storage on first access
// @Tags         messages
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {array}   dto.MessageDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /sessions/{id}/messages [get]
func ListMessagesHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, err := svc.GetMessages(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewMessageDTOs(messages))
	}
}

// AskHandler godoc
// @Summary      Ask the assistant
// @Description  Sends the prompt with the recent conversation and stores both the prompt and the reply
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "Session ID"
// @Param        body  body  dto.AskRequestDTO  true  "Prompt"
// @Success      200  {object}  dto.AskResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      429  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /sessions/{id}/ask [post]
func AskHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.AskRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, err)
			return
		}
		response, err := svc.Ask(c.Request.Context(), c.Param("id"), req.Prompt)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.AskResponseDTO{Response: response})
	}
}
