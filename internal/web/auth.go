package web

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/brewshelf/brewshelf/internal/identity"
	"github.com/brewshelf/brewshelf/internal/session"
)

// restoreSession adopts a bearer token from a request arriving while the
// observer is anonymous, the server-side equivalent of the client resuming a
// stored session at startup. A token the provider rejects is ignored and the
// request proceeds anonymously.
func (s *server) restoreSession(c *gin.Context) {
	if s.observer.State() != session.StateAnonymous {
		c.Next()
		return
	}
	token := bearerToken(c)
	if token == "" {
		c.Next()
		return
	}
	user, err := s.provider.CurrentUser(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, identity.ErrUnauthorized) {
			log.Printf("web: restore session: %v", err)
		}
		c.Next()
		return
	}
	s.observer.SignedIn(&identity.Session{
		Token: oauth2.Token{AccessToken: token},
		User:  user,
	})
	c.Next()
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

type sessionView struct {
	State session.State  `json:"state"`
	User  *identity.User `json:"user,omitempty"`
}

func (s *server) handleSession(c *gin.Context) {
	view := sessionView{State: s.observer.State()}
	if cur := s.observer.Current(); cur != nil {
		u := cur.User
		view.User = &u
	}
	c.JSON(http.StatusOK, view)
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (s *server) handleSignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if err := s.provider.SignUp(c.Request.Context(), req.Email, req.Password); err != nil {
		apiError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "check your email to confirm the account"})
}

func (s *server) handleSignIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if !s.observer.BeginSignIn() {
		apiError(c, http.StatusConflict, errors.New("a session is already active"))
		return
	}
	sess, err := s.provider.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.observer.SignInFailed()
		if errors.Is(err, identity.ErrUnauthorized) {
			apiError(c, http.StatusUnauthorized, err)
		} else {
			apiError(c, http.StatusBadGateway, err)
		}
		return
	}
	// Fires the signed-in edge, which migrates local brews synchronously
	// before the response goes out.
	s.observer.SignedIn(sess)
	c.JSON(http.StatusOK, gin.H{
		"user":        sess.User,
		"accessToken": sess.Token.AccessToken,
	})
}

func (s *server) handleSignOut(c *gin.Context) {
	if cur := s.observer.Current(); cur != nil {
		// Token revocation is best effort; the local sign-out proceeds
		// regardless.
		if err := s.provider.SignOut(c.Request.Context(), cur.Token.AccessToken); err != nil {
			log.Printf("web: provider sign-out: %v", err)
		}
	}
	s.observer.SignedOut()
	c.Status(http.StatusNoContent)
}

type recoverRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (s *server) handleRecover(c *gin.Context) {
	var req recoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if err := s.provider.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		apiError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "password reset email sent"})
}

type recoverySessionRequest struct {
	AccessToken string `json:"accessToken" binding:"required"`
}

// handleRecoverySession adopts the token carried by a password-recovery link
// and fires the recovery event, so the follow-up password update can run
// against an authenticated session.
func (s *server) handleRecoverySession(c *gin.Context) {
	var req recoverySessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusUnprocessableEntity, err)
		return
	}
	user, err := s.provider.CurrentUser(c.Request.Context(), req.AccessToken)
	if err != nil {
		if errors.Is(err, identity.ErrUnauthorized) {
			apiError(c, http.StatusUnauthorized, err)
		} else {
			apiError(c, http.StatusBadGateway, err)
		}
		return
	}
	s.observer.PasswordRecovery(&identity.Session{
		Token: oauth2.Token{AccessToken: req.AccessToken},
		User:  user,
	})
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type passwordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

func (s *server) handleUpdatePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusUnprocessableEntity, err)
		return
	}
	cur := s.observer.Current()
	if cur == nil {
		apiError(c, http.StatusUnauthorized, identity.ErrUnauthorized)
		return
	}
	if err := s.provider.UpdatePassword(c.Request.Context(), cur.Token.AccessToken, req.Password); err != nil {
		if errors.Is(err, identity.ErrUnauthorized) {
			apiError(c, http.StatusUnauthorized, err)
		} else {
			apiError(c, http.StatusBadGateway, err)
		}
		return
	}
	c.Status(http.StatusNoContent)
}
