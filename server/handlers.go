package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/ZaguanLabs/lingo"
	"github.com/ZaguanLabs/lingo/provider"
	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

type translateRequest struct {
	Messages       *lingo.MessageMap `json:"messages"`
	TargetLanguage string            `json:"targetLanguage"`
	Context        string            `json:"context"`
	Provider       string            `json:"provider"`
	Model          string            `json:"model"`
	APIKey         string            `json:"apiKey"`
}

type reviseRequest struct {
	Messages   *lingo.MessageMap `json:"messages"`
	ErrorTypes []string          `json:"errorTypes"`
	Context    string            `json:"context"`
	Provider   string            `json:"provider"`
	Model      string            `json:"model"`
	APIKey     string            `json:"apiKey"`
}

type adviseRequest struct {
	URL        string   `json:"url"`
	ErrorTypes []string `json:"errorTypes"`
	Model      string   `json:"model"`
	APIKey     string   `json:"apiKey"`
}

type verifyRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
}

// badRequest is a validation failure reported as 400.
type badRequest string

func (e badRequest) Error() string {
	return string(e)
}

func (s *Server) translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest("invalid request body: "+err.Error()))
		return
	}
	if req.Messages == nil {
		s.fail(c, badRequest("messages is required"))
		return
	}
	if req.TargetLanguage == "" {
		s.fail(c, badRequest("targetLanguage is required"))
		return
	}

	target, err := s.target(req.Provider, req.Model, req.APIKey)
	if err != nil {
		s.fail(c, err)
		return
	}
	inv, err := s.newInvoker(c.Request.Context(), target)
	if err != nil {
		s.fail(c, err)
		return
	}

	logger := s.logger.WithFields(log.Fields{"provider": target.Provider, "lang": req.TargetLanguage})
	out, err := s.engine(inv, logger).Translate(c.Request.Context(), req.Messages, lingo.TranslateOptions{
		TargetLang: req.TargetLanguage,
		Context:    req.Context,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": out})
}

func (s *Server) revise(c *gin.Context) {
	var req reviseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest("invalid request body: "+err.Error()))
		return
	}
	if req.Messages == nil {
		s.fail(c, badRequest("messages is required"))
		return
	}
	types, err := lingo.ParseErrorTypes(req.ErrorTypes, lingo.RevisionErrorTypes)
	if err != nil {
		s.fail(c, err)
		return
	}

	target, err := s.target(req.Provider, req.Model, req.APIKey)
	if err != nil {
		s.fail(c, err)
		return
	}
	inv, err := s.newInvoker(c.Request.Context(), target)
	if err != nil {
		s.fail(c, err)
		return
	}

	logger := s.logger.WithField("provider", target.Provider)
	suggestions, err := s.engine(inv, logger).Revise(c.Request.Context(), req.Messages, lingo.ReviseOptions{
		ErrorTypes: types,
		Context:    req.Context,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": nonNil(suggestions)})
}

func (s *Server) advise(c *gin.Context) {
	engine, req, opts, ok := s.adviseSetup(c)
	if !ok {
		return
	}

	suggestions, err := engine.AdviseWebsite(c.Request.Context(), req.URL, opts)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": nonNil(suggestions)})
}

// adviseStream writes one suggestion per line. Once the first byte is sent
// the status is fixed, so later failures become a final error line.
func (s *Server) adviseStream(c *gin.Context) {
	engine, req, opts, ok := s.adviseSetup(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	for suggestion, err := range engine.AdviseWebsiteStream(c.Request.Context(), req.URL, opts) {
		if err != nil {
			s.logger.WithError(err).WithField("url", req.URL).Error("advice stream failed")
			writeLine(c, gin.H{"error": err.Error()})
			return
		}
		if !writeLine(c, suggestion) {
			return
		}
	}
}

func (s *Server) adviseSetup(c *gin.Context) (*lingo.Engine, adviseRequest, lingo.AdviseOptions, bool) {
	var req adviseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest("invalid request body: "+err.Error()))
		return nil, req, lingo.AdviseOptions{}, false
	}
	if !validPageURL(req.URL) {
		s.fail(c, badRequest("url must be an absolute http(s) URL"))
		return nil, req, lingo.AdviseOptions{}, false
	}
	types, err := lingo.ParseErrorTypes(req.ErrorTypes, lingo.WebsiteErrorTypes)
	if err != nil {
		s.fail(c, err)
		return nil, req, lingo.AdviseOptions{}, false
	}

	model := req.Model
	if model == "" {
		model = s.cfg.GeminiModel
	}
	target, err := s.target(string(provider.NameGemini), model, req.APIKey)
	if err != nil {
		s.fail(c, err)
		return nil, req, lingo.AdviseOptions{}, false
	}
	inv, err := s.newInvoker(c.Request.Context(), target)
	if err != nil {
		s.fail(c, err)
		return nil, req, lingo.AdviseOptions{}, false
	}

	engine := s.engine(inv, s.logger.WithField("url", req.URL))
	return engine, req, lingo.AdviseOptions{ErrorTypes: types}, true
}

func (s *Server) verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest("invalid request body: "+err.Error()))
		return
	}

	valid := false
	if name, err := provider.ParseName(req.Provider); err == nil {
		valid = s.verifyKey(c.Request.Context(), name, req.APIKey)
	}

	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

// target resolves the provider and key for a request. Gemini requests
// without a key use the configured one.
func (s *Server) target(name, model, apiKey string) (provider.Target, error) {
	p := provider.NameGemini
	if name != "" {
		parsed, err := provider.ParseName(name)
		if err != nil {
			return provider.Target{}, err
		}
		p = parsed
	}

	if apiKey == "" && p == provider.NameGemini {
		apiKey = s.cfg.GeminiAPIKey
		if model == "" {
			model = s.cfg.GeminiModel
		}
	}
	if apiKey == "" {
		return provider.Target{}, badRequest("apiKey is required")
	}

	return provider.Target{Provider: p, Model: model, APIKey: apiKey}, nil
}

// fail maps err to a status code and writes {"error": ...}.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var (
		bad      badRequest
		cfgErr   *lingo.ConfigError
		limitErr *lingo.RateLimitError
		fetchErr *lingo.FetchError
	)
	switch {
	case errors.As(err, &bad), errors.As(err, &cfgErr):
		status = http.StatusBadRequest
	case errors.As(err, &limitErr):
		status = http.StatusTooManyRequests
	case errors.As(err, &fetchErr):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).Error("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func writeLine(c *gin.Context, v any) bool {
	line, err := json.Marshal(v)
	if err != nil {
		return false
	}
	if _, err := c.Writer.Write(append(line, '\n')); err != nil {
		return false
	}
	c.Writer.Flush()
	return true
}

func validPageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func nonNil(s []lingo.Suggestion) []lingo.Suggestion {
	if s == nil {
		return []lingo.Suggestion{}
	}
	return s
}
