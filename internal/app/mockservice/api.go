package mockservice

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/pactforge/pact-consumer/internal/app/httpresponse"
	"github.com/pactforge/pact-consumer/internal/app/pactconsumer"
)

type newPactRequest struct {
	Consumer string `json:"consumer"`
	Provider string `json:"provider"`
}

type newMessageRequest struct {
	Pact        string `json:"pact"`
	Description string `json:"description"`
}

type handleResponse struct {
	Handle string `json:"handle"`
}

type descriptionRequest struct {
	Handle      string `json:"handle"`
	Description string `json:"description"`
}

type statusRequest struct {
	Handle string `json:"handle"`
	Status int    `json:"status"`
}

type headerRequest struct {
	Handle string `json:"handle"`
	Name   string `json:"name"`
	Value  string `json:"value"`
	Index  int    `json:"index"`
}

type bodyRequest struct {
	Handle      string `json:"handle"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

type metadataRequest struct {
	Pact      string `json:"pact"`
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Value     string `json:"value"`
}

type writePactRequest struct {
	Pact      string `json:"pact"`
	Dir       string `json:"dir"`
	Overwrite bool   `json:"overwrite"`
}

// SetupRoutes registers the admin API for the mock message service on e.
// Requests that name a directory-less pact write fall back to defaultPactDir.
func SetupRoutes(e *echo.Echo, service *Service, defaultPactDir string) {
	api := api{service: service, pactDir: defaultPactDir}

	e.GET("/ready", api.readyHandler)
	e.POST("/pacts", api.newPactHandler)
	e.POST("/pacts/metadata", api.metadataHandler)
	e.POST("/pacts/write", api.writePactHandler)
	e.POST("/messages", api.newMessageHandler)
	e.POST("/messages/description", api.descriptionHandler)
	e.GET("/messages/reify", api.reifyHandler)
	e.POST("/interactions/status", api.statusHandler)
	e.POST("/interactions/headers", api.headerHandler)
	e.POST("/interactions/body", api.bodyHandler)
}

type api struct {
	service *Service
	pactDir string
}

func (a *api) readyHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (a *api) newPactHandler(c echo.Context) error {
	req := newPactRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to parse pact request. %s", err.Error()))
	}

	handle, err := a.service.NewPact(req.Consumer, req.Provider)
	if err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to create pact. %s", err.Error()))
	}

	return c.JSON(http.StatusOK, handleResponse{Handle: string(handle)})
}

func (a *api) newMessageHandler(c echo.Context) error {
	req := newMessageRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to parse message request. %s", err.Error()))
	}

	handle, err := a.service.NewMessage(pactconsumer.PactHandle(req.Pact), req.Description)
	if err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to create message. %s", err.Error()))
	}

	log.Infof("created message '%s'", req.Description)
	return c.JSON(http.StatusOK, handleResponse{Handle: string(handle)})
}

func (a *api) descriptionHandler(c echo.Context) error {
	req := descriptionRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to parse description request. %s", err.Error()))
	}

	if err := a.service.SetDescription(pactconsumer.Handle(req.Handle), req.Description); err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to set description. %s", err.Error()))
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *api) statusHandler(c echo.Context) error {
	req := statusRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to parse status request. %s", err.Error()))
	}

	if err := a.service.SetStatus(pactconsumer.Handle(req.Handle), req.Status); err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to set status. %s", err.Error()))
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *api) headerHandler(c echo.Context) error {
	req := headerRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to parse header request. %s", err.Error()))
	}

	if err := a.service.SetHeader(pactconsumer.Handle(req.Handle), req.Name, req.Value, req.Index); err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to set header. %s", err.Error()))
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *api) bodyHandler(c echo.Context) error {
	req := bodyRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to parse body request. %s", err.Error()))
	}

	if err := a.service.SetBody(pactconsumer.Handle(req.Handle), req.ContentType, req.Body); err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to set body. %s", err.Error()))
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *api) metadataHandler(c echo.Context) error {
	req := metadataRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to parse metadata request. %s", err.Error()))
	}

	if err := a.service.SetMetadata(pactconsumer.PactHandle(req.Pact), req.Namespace, req.Name, req.Value); err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to set metadata. %s", err.Error()))
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *api) reifyHandler(c echo.Context) error {
	handle := c.QueryParam("handle")

	reified, err := a.service.Reify(pactconsumer.Handle(handle))
	if err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to reify message. %s", err.Error()))
	}
	return c.Blob(http.StatusOK, mediaTypeJSON, []byte(reified))
}

func (a *api) writePactHandler(c echo.Context) error {
	req := writePactRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to parse write request. %s", err.Error()))
	}

	dir := req.Dir
	if dir == "" {
		dir = a.pactDir
	}

	if err := a.service.WritePactFile(pactconsumer.PactHandle(req.Pact), dir, req.Overwrite); err != nil {
		return c.JSON(http.StatusInternalServerError, httpresponse.Errorf("unable to write pact file. %s", err.Error()))
	}
	return c.NoContent(http.StatusNoContent)
}
