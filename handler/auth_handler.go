package handler

import (
	"errors"
	"log"

	"maplenotes/dto"
	"maplenotes/repository"
	"maplenotes/usecase"
	"maplenotes/utils"

	"github.com/gin-gonic/gin"
)

// SignupHandler creates an account. A taken username reports 400, the
// same status as a missing field.
func SignupHandler(c *gin.Context, users *usecase.UserService) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing credentials")
		return
	}

	user, err := users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			utils.BadRequest(c, "Username already taken")
			return
		}
		log.Printf("Signup failed for %q: %v", req.Username, err)
		utils.InternalError(c, "Failed to create user")
		return
	}

	utils.Created(c, dto.ToAuthResponse(user))
}

func LoginHandler(c *gin.Context, users *usecase.UserService) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	user, err := users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			utils.Unauthorized(c, "Invalid credentials")
			return
		}
		log.Printf("Login failed for %q: %v", req.Username, err)
		utils.InternalError(c, "Failed to log in")
		return
	}

	utils.Success(c, dto.ToAuthResponse(user))
}
