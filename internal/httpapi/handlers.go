package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"codeberg.org/snonux/fanyi/internal"
	"codeberg.org/snonux/fanyi/internal/translation"
	"codeberg.org/snonux/fanyi/internal/youdao"
)

type chooseRequest struct {
	Name string `json:"name"`
	Args string `json:"args"`
}

type translateRequest struct {
	Text string `json:"text"`
	From string `json:"from"`
	To   string `json:"to"`
}

type translateResponse struct {
	Provider string         `json:"provider"`
	Text     string         `json:"text"`
	Result   *youdao.Result `json:"result,omitempty"`
}

func (s *Server) handleHealth(c echo.Context) error {
	data := map[string]any{
		"service": "fanyi",
		"version": internal.Version,
	}
	if p, err := s.host.Provider(); err == nil {
		data["provider"] = p.Name()
	}
	return success(c, data)
}

func (s *Server) handleAPIs(c echo.Context) error {
	return success(c, map[string]any{
		"items": s.host.SupportAPIs(),
	})
}

func (s *Server) handleChoose(c echo.Context) error {
	var req chooseRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return failValidation(c, map[string]string{"name": "is required"})
	}

	if err := s.host.ChooseAPI(c.Request().Context(), req.Name, req.Args); err != nil {
		return s.failFromError(c, "choose api", err)
	}

	s.logger.Info().Str("provider", req.Name).Msg("provider chosen")
	return success(c, map[string]any{
		"provider": req.Name,
	})
}

func (s *Server) handleLangs(c echo.Context) error {
	langs, err := s.host.SupportLang()
	if err != nil {
		return s.failFromError(c, "support lang", err)
	}
	return success(c, map[string]any{
		"items": langs,
	})
}

func (s *Server) handleTranslate(c echo.Context) error {
	var req translateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if req.Text == "" {
		return failValidation(c, map[string]string{"text": "is required"})
	}

	p, err := s.host.Provider()
	if err != nil {
		return s.failFromError(c, "translate", err)
	}

	ctx := c.Request().Context()
	resp := translateResponse{Provider: p.Name()}

	// The youdao provider also exposes the structured dictionary entry
	if y, ok := p.(*translation.Youdao); ok {
		result, err := y.TranslateResult(ctx, req.Text, req.From, req.To)
		if err != nil {
			return s.failFromError(c, "translate", err)
		}
		resp.Text = result.String()
		resp.Result = result
		return success(c, resp)
	}

	text, err := p.Translate(ctx, req.Text, req.From, req.To)
	if err != nil {
		return s.failFromError(c, "translate", err)
	}
	resp.Text = text
	return success(c, resp)
}

// failFromError maps host errors to response codes. Anything not caused by
// the caller is an upstream failure.
func (s *Server) failFromError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, translation.ErrNoProvider):
		return fail(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, translation.ErrUnknownProvider),
		errors.Is(err, translation.ErrInvalidArgs),
		errors.Is(err, youdao.ErrEmptyText):
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	}

	s.logger.Error().Err(err).Str("op", op).Msg("upstream call failed")
	return fail(c, http.StatusBadGateway, err.Error(), nil)
}
