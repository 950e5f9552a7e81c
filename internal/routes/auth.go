// Session handling and account routes.
//
// The session is a signed JWT in a cookie, bound to the admin account and
// revocable server-side through the nonce store. Every protected route
// goes through RequireAdmin, which redirects to the login page before any
// store work happens.
package routes

import (
	"errors"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"visitorlog/internal/auth"
	"visitorlog/internal/config"
	"visitorlog/internal/email"
	"visitorlog/internal/storage"
)

const SESSION_COOKIE_NAME = "session"

// Mailer is used for credential-change notifications. Optional; a nil
// mailer (or one without SMTP config) drops the notification.
var Mailer *email.Client

// sessionTTLSeconds converts the configured session TTL to seconds for
// the cookie max-age.
func sessionTTLSeconds() int {
	return int(config.Cfg.SessionTTL) * 60
}

// setSessionCookie sets the session cookie to expire with the token.
func setSessionCookie(c *gin.Context, token string) {
	secure := c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
	c.SetCookie(SESSION_COOKIE_NAME, token, sessionTTLSeconds(), "/", "", secure, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie(SESSION_COOKIE_NAME, "", -1, "/", "", false, true)
}

// newSession issues a session token for the account and sets the cookie.
func newSession(c *gin.Context, username string) error {
	claim, err := auth.NewSessionClaim(c.Request.Context(), username, config.Cfg.SessionTTL)
	if err != nil {
		return err
	}
	token, err := auth.GenerateJWT(claim, config.Cfg.Secret)
	if err != nil {
		return err
	}
	setSessionCookie(c, token)
	return nil
}

// AuthMiddleware decodes the session cookie, if any, and sets the
// account identity in the context. It never rejects by itself; gating
// happens in RequireAdmin.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SESSION_COOKIE_NAME)
		if err == nil && token != "" {
			claims, err := auth.DecodeSessionJWT(c.Request.Context(), token, config.Cfg.Secret)
			if err != nil {
				slog.Debug("Invalid session token", "error", err)
			} else {
				c.Set("username", claims.Username)
				c.Set("admin", claims.Admin)
			}
		}
		c.Next()
	}
}

// RequireAdmin gates every mutating or data-revealing route. A request
// without a live admin session is redirected to the login page and does
// no further work.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("admin") {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func AuthRoutes(r *gin.Engine) {
	r.GET("/login", func(c *gin.Context) {
		HTML(c, http.StatusOK, "login.html.tmpl", gin.H{"Error": nil})
	})

	r.POST("/login", func(c *gin.Context) {
		username := strings.TrimSpace(c.PostForm("username"))
		password := c.PostForm("password")

		admin, err := getStorage(c).GetAdmin(c.Request.Context(), username)
		if err != nil && !errors.Is(err, storage.ErrAdminNotFound) {
			// Store failure, not a credential problem
			AbortWithError(c, err)
			return
		}
		if err == nil {
			err = auth.CheckPassword(admin.PasswordHash, password)
		}
		if err != nil {
			// Same message whether the account or the password was wrong
			slog.Warn("Failed login attempt", "username", username)
			HTML(c, http.StatusUnauthorized, "login.html.tmpl", gin.H{
				"Error": GetErrorMessage(ErrInvalidCredentials),
			})
			return
		}

		if err := newSession(c, admin.Username); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/dashboard")
	})

	r.GET("/register", func(c *gin.Context) {
		HTML(c, http.StatusOK, "register.html.tmpl", gin.H{"Error": nil})
	})

	r.POST("/register", func(c *gin.Context) {
		username := strings.TrimSpace(c.PostForm("username"))
		password := c.PostForm("password")

		if username == "" || password == "" {
			HTML(c, http.StatusBadRequest, "register.html.tmpl", gin.H{
				"Error": "Username and password are required",
			})
			return
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		err = getStorage(c).CreateAdmin(c.Request.Context(), storage.Admin{
			Username:     username,
			PasswordHash: hash,
		})
		if err == storage.ErrAdminExists {
			HTML(c, http.StatusConflict, "register.html.tmpl", gin.H{
				"Error": GetErrorMessage(storage.ErrAdminExists),
			})
			return
		}
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Redirect(http.StatusFound, "/login")
	})

	r.GET("/reset", func(c *gin.Context) {
		HTML(c, http.StatusOK, "reset.html.tmpl", gin.H{"Error": nil, "Success": nil})
	})

	// Resetting requires proof of the current credential; knowing a
	// username alone is not enough.
	r.POST("/reset", func(c *gin.Context) {
		username := strings.TrimSpace(c.PostForm("username"))
		currentPassword := c.PostForm("currentPassword")
		newPassword := c.PostForm("newPassword")

		if username == "" || newPassword == "" {
			HTML(c, http.StatusBadRequest, "reset.html.tmpl", gin.H{
				"Error": "Username and new password are required", "Success": nil,
			})
			return
		}

		store := getStorage(c)
		admin, err := store.GetAdmin(c.Request.Context(), username)
		if err != nil && !errors.Is(err, storage.ErrAdminNotFound) {
			AbortWithError(c, err)
			return
		}
		if err == nil {
			err = auth.CheckPassword(admin.PasswordHash, currentPassword)
		}
		if err != nil {
			slog.Warn("Failed password reset attempt", "username", username)
			HTML(c, http.StatusUnauthorized, "reset.html.tmpl", gin.H{
				"Error": GetErrorMessage(ErrInvalidCredentials), "Success": nil,
			})
			return
		}

		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if err := store.UpdateAdminPassword(c.Request.Context(), username, hash); err != nil {
			AbortWithError(c, err)
			return
		}

		notifyCredentialChange(username)

		HTML(c, http.StatusOK, "reset.html.tmpl", gin.H{
			"Error": nil, "Success": "Password updated successfully",
		})
	})

	r.GET("/logout", func(c *gin.Context) {
		token, err := c.Cookie(SESSION_COOKIE_NAME)
		if err == nil {
			claims, err := auth.DecodeSessionJWT(c.Request.Context(), token, config.Cfg.Secret)
			if err == nil {
				auth.RevokeSession(c.Request.Context(), claims)
			}
		}
		clearSessionCookie(c)
		c.Redirect(http.StatusFound, "/login")
	})
}

// notifyCredentialChange mails the operator address when a credential is
// replaced. Failures are logged, not surfaced; the reset already happened.
func notifyCredentialChange(username string) {
	if Mailer == nil || !Mailer.Enabled() {
		return
	}

	msg := &email.Message{
		To:      []string{config.Cfg.Email.From},
		Subject: "Visitor log admin credential changed",
		HTML:    "<p>The password for admin account <b>" + html.EscapeString(username) + "</b> was changed.</p>",
	}
	if err := Mailer.Send(msg); err != nil {
		slog.Error("Failed to send credential change notification", "error", err, "username", username)
	}
}
