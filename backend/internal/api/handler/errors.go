package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"team-planner/backend/internal/service"
	apperrors "team-planner/backend/pkg/errors"
	"team-planner/backend/pkg/response"
)

// handleError 将业务错误映射为 HTTP 状态码与错误码
// 先匹配具体业务错误，再按 pkg/errors 中的分类兜底
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPlanning),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidStatus):
		response.ErrorWithDetails(c, http.StatusBadRequest, 30001, "Données de planning invalides", err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		response.ErrorWithDetails(c, http.StatusBadRequest, 21001, "Échec de l'inscription", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 21002, "Email ou mot de passe incorrect")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "Profil utilisateur non trouvé")

	case errors.Is(err, apperrors.ErrInvalidInput):
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "Paramètres invalides", err.Error())
	case errors.Is(err, apperrors.ErrUnauthenticated):
		response.Unauthorized(c, 10002, "Token invalide ou expiré")
	case errors.Is(err, apperrors.ErrForbidden):
		response.Forbidden(c, 10003, "Accès refusé")
	case errors.Is(err, apperrors.ErrNotFound):
		response.NotFound(c, 20001, "Ressource introuvable")
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		_ = c.Error(err)
		response.ServiceUnavailable(c)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
