package backend

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jo-hoe/cozymind/internal/backend/session"
	"github.com/jo-hoe/cozymind/internal/backend/storage"
	"github.com/jo-hoe/cozymind/internal/core"
)

const uploadBodyLimit = "20M"

type APIService struct {
	coreService  *core.CoreService
	secureCookie bool
}

type urlResponse struct {
	URL string `json:"url"`
}

type afterImageResponse struct {
	AfterImageURL string `json:"after_image_url"`
}

type idResponse struct {
	ID string `json:"id"`
}

type generateInitialAfterRequest struct {
	BeforeImageURL string `json:"before_image_url" validate:"required"`
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		coreService:  coreService,
		secureCookie: strings.HasPrefix(config.PublicBaseURL, "https://"),
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET("/probe", s.probeHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET(storage.PublicPathPrefix+"/:bucket/*", s.objectHandler)

	api := e.Group("/api")
	api.POST("/upload", s.uploadHandler, middleware.BodyLimit(uploadBodyLimit))
	api.POST("/generateInitialAfter", s.generateInitialAfterHandler)
	api.POST("/generateAfterProductList", s.generateAfterProductListHandler)
	api.POST("/saveResult", s.saveResultHandler)
	api.GET("/getResult", s.getResultHandler)
	api.GET("/getResults", s.getResultsHandler)

	api.POST("/auth/signup", s.signUpHandler)
	api.POST("/auth/login", s.loginHandler)
	api.POST("/auth/logout", s.logoutHandler)
}

func (s *APIService) probeHandler(ctx echo.Context) error {
	if err := s.coreService.Ping(ctx.Request().Context()); err != nil {
		slog.Error("probeHandler: dependency unavailable", "status", http.StatusServiceUnavailable, "error", err)
		return ctx.String(http.StatusServiceUnavailable, "unavailable")
	}
	return ctx.String(http.StatusOK, "ok")
}

func (s *APIService) objectHandler(ctx echo.Context) error {
	bucket := ctx.Param("bucket")
	path := ctx.Param("*")
	object, err := s.coreService.GetObject(bucket, path)
	if err != nil {
		return s.errorResponse(ctx, "objectHandler", err)
	}
	ctx.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	ctx.Response().Header().Set(echo.HeaderXContentTypeOptions, "nosniff")
	return ctx.Blob(http.StatusOK, object.ContentType, object.Data)
}

func (s *APIService) uploadHandler(ctx echo.Context) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return s.errorResponse(ctx, "uploadHandler", badRequest("file is required"))
	}

	src, err := file.Open()
	if err != nil {
		return s.errorResponse(ctx, "uploadHandler", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error("uploadHandler: failed to close uploaded file reader", "error", cerr, "filename", file.Filename)
		}
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		return s.errorResponse(ctx, "uploadHandler", err)
	}

	url, err := s.coreService.UploadImage(ctx.Request().Context(), file.Filename, data)
	if err != nil {
		return s.errorResponse(ctx, "uploadHandler", err)
	}
	return ctx.JSON(http.StatusOK, urlResponse{URL: url})
}

func (s *APIService) generateInitialAfterHandler(ctx echo.Context) error {
	var request generateInitialAfterRequest
	if err := s.bindAndValidate(ctx, &request); err != nil {
		return s.errorResponse(ctx, "generateInitialAfterHandler", err)
	}

	url, err := s.coreService.GenerateInitialAfter(ctx.Request().Context(), request.BeforeImageURL)
	if err != nil {
		return s.errorResponse(ctx, "generateInitialAfterHandler", err)
	}
	return ctx.JSON(http.StatusOK, afterImageResponse{AfterImageURL: url})
}

func (s *APIService) generateAfterProductListHandler(ctx echo.Context) error {
	var request core.GenerateAfterProductListRequest
	if err := s.bindAndValidate(ctx, &request); err != nil {
		return s.errorResponse(ctx, "generateAfterProductListHandler", err)
	}

	response, err := s.coreService.GenerateAfterProductList(ctx.Request().Context(), request)
	if err != nil {
		return s.errorResponse(ctx, "generateAfterProductListHandler", err)
	}
	return ctx.JSON(http.StatusOK, response)
}

// saveResultHandler checks the session before looking at the body.
func (s *APIService) saveResultHandler(ctx echo.Context) error {
	userID, err := s.sessionUserID(ctx)
	if err != nil {
		return s.errorResponse(ctx, "saveResultHandler", err)
	}
	if userID == "" {
		return s.errorResponse(ctx, "saveResultHandler", core.ErrUnauthorized)
	}

	var request core.SaveResultRequest
	if err := s.bindAndValidate(ctx, &request); err != nil {
		return s.errorResponse(ctx, "saveResultHandler", err)
	}

	id, err := s.coreService.SaveResult(ctx.Request().Context(), userID, request)
	if err != nil {
		return s.errorResponse(ctx, "saveResultHandler", err)
	}
	return ctx.JSON(http.StatusOK, idResponse{ID: id})
}

func (s *APIService) getResultHandler(ctx echo.Context) error {
	userID, err := s.sessionUserID(ctx)
	if err != nil {
		return s.errorResponse(ctx, "getResultHandler", err)
	}

	result, err := s.coreService.GetResult(ctx.Request().Context(), userID, ctx.QueryParam("id"))
	if err != nil {
		return s.errorResponse(ctx, "getResultHandler", err)
	}
	return ctx.JSON(http.StatusOK, result)
}

func (s *APIService) getResultsHandler(ctx echo.Context) error {
	userID, err := s.sessionUserID(ctx)
	if err != nil {
		return s.errorResponse(ctx, "getResultsHandler", err)
	}

	results, err := s.coreService.ListResults(ctx.Request().Context(), userID, ctx.QueryParam("user_id"))
	if err != nil {
		return s.errorResponse(ctx, "getResultsHandler", err)
	}
	return ctx.JSON(http.StatusOK, results)
}

func (s *APIService) signUpHandler(ctx echo.Context) error {
	var credentials core.Credentials
	if err := s.bindAndValidate(ctx, &credentials); err != nil {
		return s.errorResponse(ctx, "signUpHandler", err)
	}

	result, err := s.coreService.SignUp(ctx.Request().Context(), credentials)
	if err != nil {
		return s.errorResponse(ctx, "signUpHandler", err)
	}
	s.setSessionCookie(ctx, result.Token, s.coreService.SessionTTLSeconds())
	return ctx.JSON(http.StatusOK, result)
}

func (s *APIService) loginHandler(ctx echo.Context) error {
	var credentials core.Credentials
	if err := s.bindAndValidate(ctx, &credentials); err != nil {
		return s.errorResponse(ctx, "loginHandler", err)
	}

	result, err := s.coreService.SignIn(ctx.Request().Context(), credentials)
	if err != nil {
		return s.errorResponse(ctx, "loginHandler", err)
	}
	s.setSessionCookie(ctx, result.Token, s.coreService.SessionTTLSeconds())
	return ctx.JSON(http.StatusOK, result)
}

func (s *APIService) logoutHandler(ctx echo.Context) error {
	token := session.TokenFromRequest(ctx.Request())
	if err := s.coreService.SignOut(ctx.Request().Context(), token); err != nil {
		return s.errorResponse(ctx, "logoutHandler", err)
	}
	s.setSessionCookie(ctx, "", -1)
	return ctx.NoContent(http.StatusNoContent)
}

// sessionUserID returns the user of the request session, or "" without a valid session.
func (s *APIService) sessionUserID(ctx echo.Context) (string, error) {
	token := session.TokenFromRequest(ctx.Request())
	if token == "" {
		return "", nil
	}
	userID, err := s.coreService.Authenticate(ctx.Request().Context(), token)
	if errors.Is(err, core.ErrUnauthorized) {
		return "", nil
	}
	return userID, err
}

func (s *APIService) setSessionCookie(ctx echo.Context, token string, maxAge int) {
	ctx.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *APIService) bindAndValidate(ctx echo.Context, target any) error {
	if err := ctx.Bind(target); err != nil {
		return badRequest("received malformed request body")
	}
	if err := ctx.Validate(target); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return badRequest(httpErr.Message)
		}
		return badRequest(err.Error())
	}
	return nil
}
