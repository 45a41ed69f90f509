package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/attendoapp/attendo/core"
	chatsvc "github.com/attendoapp/attendo/services/chat"
)

type chatApi struct {
	svc      chatsvc.Service
	validate *validator.Validate
}

func registerChatAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc chatsvc.Service, validate *validator.Validate) {
	api := chatApi{
		svc:      svc,
		validate: validate,
	}
	g.POST("/chat", api.ask, jwt)
}

// ask proxies a prompt to the generative-text API. Replies have no effect on
// the attendance accounting.
func (api *chatApi) ask(ctx echo.Context) error {
	var data ChatRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	reply, err := api.svc.Ask(ctx.Request().Context(), data.Prompt)
	if err != nil {
		if errors.Cause(err) == chatsvc.ErrEmptyReply {
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "asking assistant")
	}
	return ctx.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

type (
	ChatRequest struct {
		Prompt string `json:"prompt" validate:"required"`
	}

	ChatResponse struct {
		Reply string `json:"reply"`
	}
)

func (cr *ChatRequest) Validate(validate *validator.Validate) error {
	cr.Prompt = core.CleanString(cr.Prompt)
	return validate.Struct(cr)
}
