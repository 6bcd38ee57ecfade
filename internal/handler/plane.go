package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/skylane/flight-seat-booking/internal/clock"
	"github.com/skylane/flight-seat-booking/internal/model"
	"github.com/skylane/flight-seat-booking/internal/repository"
)

// PlaneHandler implements the admin CRUD surface for aircraft
// configurations.
type PlaneHandler struct {
	Planes *repository.PlaneRepo
	Clock  clock.Clock
	Log    *logrus.Logger
}

type planeRequest struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// Create registers a plane layout.  Dimensions are fixed after creation
// as far as existing flights are concerned; their seat maps were
// snapshotted at flight creation.
func (h *PlaneHandler) Create(c echo.Context) error {
	var req planeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == "" || req.Rows <= 0 || req.Columns <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Name, rows, and columns are required."})
	}

	p := &model.Plane{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Rows:      req.Rows,
		Columns:   req.Columns,
		CreatedAt: h.Clock.Now(),
	}
	if err := h.Planes.Create(c.Request().Context(), p); err != nil {
		h.Log.WithError(err).Error("create plane")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create plane"})
	}
	h.Log.WithField("plane_id", p.ID).Info("plane created")
	return c.JSON(http.StatusCreated, echo.Map{"message": "Plane created", "planeId": p.ID})
}

// List returns every plane.
func (h *PlaneHandler) List(c echo.Context) error {
	planes, err := h.Planes.List(c.Request().Context())
	if err != nil {
		h.Log.WithError(err).Error("list planes")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list planes"})
	}
	if planes == nil {
		planes = []model.Plane{}
	}
	return c.JSON(http.StatusOK, planes)
}

// Get returns one plane by ID.
func (h *PlaneHandler) Get(c echo.Context) error {
	p, err := h.Planes.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPlaneNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Plane not found"})
		}
		h.Log.WithError(err).Error("get plane")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load plane"})
	}
	return c.JSON(http.StatusOK, p)
}

type planeUpdateRequest struct {
	Name    *string `json:"name"`
	Rows    *int    `json:"rows"`
	Columns *int    `json:"columns"`
}

// Update partially updates a plane.  Existing flights keep the seat map
// they were created with.
func (h *PlaneHandler) Update(c echo.Context) error {
	var req planeUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if (req.Rows != nil && *req.Rows <= 0) || (req.Columns != nil && *req.Columns <= 0) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows and columns must be positive"})
	}

	err := h.Planes.Update(c.Request().Context(), c.Param("id"), repository.PlaneUpdate{
		Name:    req.Name,
		Rows:    req.Rows,
		Columns: req.Columns,
	})
	if err != nil {
		if errors.Is(err, repository.ErrPlaneNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Plane not found"})
		}
		h.Log.WithError(err).Error("update plane")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update plane"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Plane updated"})
}

// Delete removes a plane configuration.
func (h *PlaneHandler) Delete(c echo.Context) error {
	if err := h.Planes.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrPlaneNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Plane not found"})
		}
		h.Log.WithError(err).Error("delete plane")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete plane"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Plane deleted"})
}
