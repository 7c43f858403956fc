package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reviewrise/reviewrise-backend/internal/utils"
)

// currentUserID pulls the authenticated user's id out of the gin
// context. Sends a 401 and returns false if it is missing or malformed.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		utils.SendUnauthorized(c, "Invalid session")
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses a :param path segment as a UUID.
func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		utils.SendValidationError(c, "Invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}
