package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/hupe1980/folio/artifact"
	"github.com/hupe1980/folio/chat"
	"github.com/hupe1980/folio/content"
	"github.com/hupe1980/folio/mail"
	"github.com/labstack/echo/v5"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(c *echo.Context) error {
	if s.deps.Chat == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "chat is not configured")
	}
	if s.deps.Chat.DemoMode() {
		return c.NoContent(http.StatusNoContent)
	}

	req := c.Request()
	body, err := io.ReadAll(io.LimitReader(req.Body, s.opts.MaxBodyBytes))
	if err != nil {
		body = nil
	}
	msgs := chat.ParseMessages(body)

	ctx, cancel := context.WithTimeout(req.Context(), s.opts.MaxDuration)
	defer cancel()

	resp, err := s.deps.Chat.Stream(ctx, msgs)
	if err != nil {
		return c.String(http.StatusInternalServerError, chat.ErrorMessage(err))
	}

	w := NewDataStreamWriter(c.Response(), chat.ErrorMessage)
	if err := w.WriteAll(resp.Events); err != nil {
		s.opts.Logger.Warn("chat.stream.aborted",
			"request_id", req.Header.Get(RequestIDHeader),
			"error", err.Error(),
		)
	}
	return nil
}

func (s *Server) handleStars(c *echo.Context) error {
	stars := 0
	if s.deps.Stars != nil {
		stars = s.deps.Stars.Stars(c.Request().Context())
	}
	return c.JSON(http.StatusOK, map[string]int{"stars": stars})
}

func (s *Server) handleConfirmationEmail(c *echo.Context) error {
	var conf mail.Confirmation
	body := io.LimitReader(c.Request().Body, s.opts.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&conf); err != nil {
		s.opts.Logger.Warn("mail.request.invalid", "error", err.Error())
		return c.JSON(http.StatusInternalServerError, errorBody{Error: "Internal server error"})
	}
	if !conf.Valid() {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Missing required fields"})
	}
	if s.deps.Mailer == nil {
		return c.JSON(http.StatusInternalServerError, errorBody{
			Error:   "Email sending failed",
			Details: mail.ErrNotConfigured.Error(),
		})
	}

	if err := s.deps.Mailer.SendConfirmation(c.Request().Context(), conf); err != nil {
		s.opts.Logger.Error("mail.send.failed", "error", err.Error())
		return c.JSON(http.StatusInternalServerError, errorBody{
			Error:   "Email sending failed",
			Details: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Confirmation email sent successfully"})
}

func (s *Server) handleProfile(c *echo.Context) error {
	if s.deps.Content == nil {
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	}
	p, err := s.deps.Content.Profile(c.Request().Context())
	if err != nil {
		return contentError(err, "profile")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleResume(c *echo.Context) error {
	if s.deps.Content == nil {
		return echo.NewHTTPError(http.StatusNotFound, "resume not found")
	}
	r, err := s.deps.Content.ActiveResume(c.Request().Context())
	if err != nil {
		return contentError(err, "resume")
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) handleProjects(c *echo.Context) error {
	if s.deps.Content == nil {
		return c.JSON(http.StatusOK, []content.Project{})
	}
	projects, err := s.deps.Content.Projects(c.Request().Context())
	if err != nil {
		return contentError(err, "projects")
	}
	if projects == nil {
		projects = []content.Project{}
	}
	return c.JSON(http.StatusOK, projects)
}

func (s *Server) handleSkills(c *echo.Context) error {
	if s.deps.Content == nil {
		return c.JSON(http.StatusOK, []content.Skill{})
	}
	skills, err := s.deps.Content.Skills(c.Request().Context())
	if err != nil {
		return contentError(err, "skills")
	}
	if skills == nil {
		skills = []content.Skill{}
	}
	return c.JSON(http.StatusOK, skills)
}

// handleResumeDownload serves the stored resume artifact, falling back to a
// redirect to the active resume's public URL.
func (s *Server) handleResumeDownload(c *echo.Context) error {
	ctx := c.Request().Context()

	if s.deps.Artifacts != nil {
		a, err := s.deps.Artifacts.Get(ctx, s.opts.ResumeKey)
		switch {
		case err == nil:
			contentType := a.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			h := c.Response().Header()
			h.Set("Content-Disposition", "attachment; filename="+strconv.Quote(path.Base(a.Key)))
			h.Set("Content-Length", strconv.Itoa(len(a.Data)))
			return c.Blob(http.StatusOK, contentType, a.Data)
		case !errors.Is(err, artifact.ErrNotFound):
			s.opts.Logger.Error("resume.download.failed", "key", s.opts.ResumeKey, "error", err.Error())
			return echo.NewHTTPError(http.StatusInternalServerError, "resume unavailable")
		}
	}

	if s.deps.Content == nil {
		return echo.NewHTTPError(http.StatusNotFound, "resume not found")
	}
	r, err := s.deps.Content.ActiveResume(ctx)
	if err != nil {
		return contentError(err, "resume")
	}
	if r.FileURL == "" {
		return echo.NewHTTPError(http.StatusNotFound, "resume not found")
	}
	return c.Redirect(http.StatusFound, r.FileURL)
}

func contentError(err error, what string) error {
	if errors.Is(err, content.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, what+" not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
