package scheduling

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/application/scheduling/dto"
	"github.com/coachhub/coachhub/internal/application/scheduling/usecases"
	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

type ConnectCalcomExecutor interface {
	Execute(ctx context.Context, cmd usecases.ConnectCalcomCommand) (*dto.IntegrationDTO, error)
}

type StartCalendlyConnectExecutor interface {
	Execute(ctx context.Context, userID string) (*usecases.StartCalendlyConnectResult, error)
}

type CompleteCalendlyConnectExecutor interface {
	Execute(ctx context.Context, cmd usecases.CompleteCalendlyConnectCommand) (*dto.IntegrationDTO, error)
}

type ListIntegrationsExecutor interface {
	Execute(ctx context.Context, userID string) ([]*dto.IntegrationDTO, error)
}

type DisconnectIntegrationExecutor interface {
	Execute(ctx context.Context, userID, providerName string) error
}

// IntegrationHandler serves calendar provider connections.
type IntegrationHandler struct {
	connectCalcomUC    ConnectCalcomExecutor
	startCalendlyUC    StartCalendlyConnectExecutor
	completeCalendlyUC CompleteCalendlyConnectExecutor
	listUC             ListIntegrationsExecutor
	disconnectUC       DisconnectIntegrationExecutor
	frontendURL        string
	logger             logger.Interface
}

func NewIntegrationHandler(
	connectCalcomUC ConnectCalcomExecutor,
	startCalendlyUC StartCalendlyConnectExecutor,
	completeCalendlyUC CompleteCalendlyConnectExecutor,
	listUC ListIntegrationsExecutor,
	disconnectUC DisconnectIntegrationExecutor,
	frontendURL string,
	logger logger.Interface,
) *IntegrationHandler {
	return &IntegrationHandler{
		connectCalcomUC:    connectCalcomUC,
		startCalendlyUC:    startCalendlyUC,
		completeCalendlyUC: completeCalendlyUC,
		listUC:             listUC,
		disconnectUC:       disconnectUC,
		frontendURL:        strings.TrimRight(frontendURL, "/"),
		logger:             logger,
	}
}

// ConnectCalcom provisions a managed Cal.com user for the coach
// @Summary Connect Cal.com
// @Tags Integrations
// @Produce json
// @Success 201 {object} utils.APIResponse{data=dto.IntegrationDTO}
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /integrations/calcom [post]
func (h *IntegrationHandler) ConnectCalcom(c *gin.Context) {
	userID, _, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.connectCalcomUC.Execute(c.Request.Context(), usecases.ConnectCalcomCommand{UserID: userID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Cal.com connected successfully")
}

// StartCalendlyConnect handles GET /integrations/calendly/connect
func (h *IntegrationHandler) StartCalendlyConnect(c *gin.Context) {
	userID, _, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.startCalendlyUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CalendlyCallback handles GET /integrations/calendly/callback. The state
// parameter identifies the coach, so the route is public.
func (h *IntegrationHandler) CalendlyCallback(c *gin.Context) {
	result, err := h.completeCalendlyUC.Execute(c.Request.Context(), usecases.CompleteCalendlyConnectCommand{
		State: c.Query("state"),
		Code:  c.Query("code"),
		Error: c.Query("error"),
	})

	if h.frontendURL == "" {
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Calendly connected successfully", result)
		return
	}

	q := url.Values{}
	if err != nil {
		h.logger.Warnw("calendly connect failed", "error", err)
		q.Set("calendly", "error")
		q.Set("reason", callbackReason(err))
	} else {
		q.Set("calendly", "connected")
	}
	c.Redirect(http.StatusFound, h.frontendURL+"/settings/integrations?"+q.Encode())
}

// callbackReason exposes only the type of application errors to the browser.
func callbackReason(err error) string {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return string(appErr.Type)
	}
	return "internal_error"
}

// List handles GET /integrations
func (h *IntegrationHandler) List(c *gin.Context) {
	userID, _, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Disconnect handles DELETE /integrations/:provider
func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	userID, _, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.disconnectUC.Execute(c.Request.Context(), userID, c.Param("provider")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
