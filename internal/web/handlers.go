package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brewshelf/brewshelf/internal/abv"
	"github.com/brewshelf/brewshelf/internal/brew"
	"github.com/brewshelf/brewshelf/internal/catalog"
	"github.com/brewshelf/brewshelf/internal/models"
	"github.com/brewshelf/brewshelf/internal/store"
	"github.com/brewshelf/brewshelf/internal/tracker"
)

// brewView is a tracked brew plus its live countdown: fermenting brews count
// down to the recommended conditioning date, conditioning brews to the
// conditioning end date.
type brewView struct {
	brew.TrackedBrew
	Countdown *brew.Countdown `json:"countdown,omitempty"`
}

func (s *server) brewView(b brew.TrackedBrew) brewView {
	v := brewView{TrackedBrew: b}
	switch b.Status {
	case brew.StatusFermenting:
		if expiry, ok := brew.RecommendedConditioningDate(&b); ok {
			cd := brew.Until(s.now(), expiry)
			v.Countdown = &cd
		}
	case brew.StatusConditioning:
		if expiry, ok := brew.ConditioningEndDate(&b); ok {
			cd := brew.Until(s.now(), expiry)
			v.Countdown = &cd
		}
	}
	return v
}

func (s *server) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": catalog.Products})
}

func (s *server) handleListBrews(c *gin.Context) {
	brews := s.tracker.Brews()
	views := make([]brewView, len(brews))
	for i, b := range brews {
		views[i] = s.brewView(b)
	}
	c.JSON(http.StatusOK, gin.H{"brews": views})
}

type createBrewRequest struct {
	ProductID        string `json:"productId" binding:"required"`
	IsCustom         bool   `json:"isCustom"`
	KegColor         string `json:"kegColor"`
	KegNickname      string `json:"kegNickname"`
	BrewingDays      int    `json:"brewingDays"`
	ConditioningDays int    `json:"conditioningDays"`
}

func (s *server) handleCreateBrew(c *gin.Context) {
	var req createBrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusUnprocessableEntity, err)
		return
	}
	b, err := s.tracker.AddBrew(c.Request.Context(), tracker.AddOpts{
		ProductID:        req.ProductID,
		IsCustom:         req.IsCustom,
		KegColor:         req.KegColor,
		KegNickname:      req.KegNickname,
		BrewingDays:      req.BrewingDays,
		ConditioningDays: req.ConditioningDays,
	})
	if err != nil {
		switch {
		case errors.Is(err, tracker.ErrUnknownProduct):
			apiError(c, http.StatusUnprocessableEntity, err)
		case errors.Is(err, tracker.ErrAuthRequired):
			apiError(c, http.StatusUnauthorized, err)
		default:
			apiError(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusCreated, s.brewView(b))
}

func (s *server) handleStartBrewing(c *gin.Context) {
	trackingID := c.Param("trackingId")
	if err := s.tracker.StartBrewing(c.Request.Context(), trackingID); err != nil {
		s.transitionError(c, err)
		return
	}
	s.respondBrew(c, trackingID)
}

type conditionRequest struct {
	Confirm bool `json:"confirm"`
}

func (s *server) handleStartConditioning(c *gin.Context) {
	trackingID := c.Param("trackingId")
	var req conditionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apiError(c, http.StatusUnprocessableEntity, err)
			return
		}
	}
	err := s.tracker.StartConditioning(c.Request.Context(), trackingID, req.Confirm)
	if err != nil {
		var early *brew.EarlyConditioningError
		if errors.As(err, &early) {
			c.JSON(http.StatusConflict, gin.H{
				"error":           early.Error(),
				"recommendedDate": early.Recommended,
			})
			return
		}
		s.transitionError(c, err)
		return
	}
	s.respondBrew(c, trackingID)
}

func (s *server) handleDeleteBrew(c *gin.Context) {
	if err := s.tracker.Remove(c.Request.Context(), c.Param("trackingId")); err != nil {
		apiError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// transitionError maps lifecycle errors to status codes.
func (s *server) transitionError(c *gin.Context, err error) {
	var invalid *brew.InvalidTransitionError
	switch {
	case errors.Is(err, store.ErrNotFound):
		apiError(c, http.StatusNotFound, err)
	case errors.As(err, &invalid):
		apiError(c, http.StatusUnprocessableEntity, err)
	default:
		apiError(c, http.StatusInternalServerError, err)
	}
}

// respondBrew returns the named brew's current view after a mutation.
func (s *server) respondBrew(c *gin.Context, trackingID string) {
	for _, b := range s.tracker.Brews() {
		if b.TrackingID == trackingID {
			c.JSON(http.StatusOK, s.brewView(b))
			return
		}
	}
	apiError(c, http.StatusNotFound, store.ErrNotFound)
}

func (s *server) handleListCustomBrews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"customBrews": s.tracker.CustomBrews()})
}

type customBrewRequest struct {
	Name               string  `json:"name" binding:"required"`
	Description        string  `json:"description"`
	Style              string  `json:"style"`
	ABV                float64 `json:"abv"`
	BrewingDays        int     `json:"brewingDays" binding:"required,min=1"`
	ConditioningDays   int     `json:"conditioningDays" binding:"required,min=1"`
	BackgroundGradient string  `json:"backgroundGradient"`
}

func (r customBrewRequest) model() models.CustomBrew {
	return models.CustomBrew{
		Name:               r.Name,
		Description:        r.Description,
		Style:              r.Style,
		ABV:                r.ABV,
		BrewingDays:        r.BrewingDays,
		ConditioningDays:   r.ConditioningDays,
		BackgroundGradient: r.BackgroundGradient,
	}
}

func (s *server) handleCreateCustomBrew(c *gin.Context) {
	var req customBrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusUnprocessableEntity, err)
		return
	}
	cb, err := s.tracker.AddCustomBrew(c.Request.Context(), req.model())
	if err != nil {
		s.customBrewError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cb)
}

func (s *server) handleUpdateCustomBrew(c *gin.Context) {
	var req customBrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusUnprocessableEntity, err)
		return
	}
	cb := req.model()
	cb.ID = c.Param("id")
	if err := s.tracker.UpdateCustomBrew(c.Request.Context(), cb); err != nil {
		s.customBrewError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) handleDeleteCustomBrew(c *gin.Context) {
	if err := s.tracker.DeleteCustomBrew(c.Request.Context(), c.Param("id")); err != nil {
		s.customBrewError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) customBrewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tracker.ErrAuthRequired):
		apiError(c, http.StatusUnauthorized, err)
	case errors.Is(err, tracker.ErrTooManyCustomBrews), errors.Is(err, store.ErrCustomBrewInUse):
		apiError(c, http.StatusConflict, err)
	case errors.Is(err, store.ErrNotFound):
		apiError(c, http.StatusNotFound, err)
	default:
		apiError(c, http.StatusInternalServerError, err)
	}
}

type abvRequest struct {
	LMEKg        float64 `json:"lmeKg"`
	VolumeL      float64 `json:"volumeL"`
	FinalGravity float64 `json:"finalGravity"`
}

type abvResponse struct {
	GravityPoints   float64 `json:"gravityPoints"`
	OriginalGravity float64 `json:"originalGravity"`
	ABV             float64 `json:"abv"`
}

func (s *server) handleEstimateABV(c *gin.Context) {
	var req abvRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if req.VolumeL <= 0 {
		apiError(c, http.StatusUnprocessableEntity, errors.New("volumeL must be positive"))
		return
	}
	r := abv.Estimate(req.LMEKg, req.VolumeL, req.FinalGravity)
	c.JSON(http.StatusOK, abvResponse{
		GravityPoints:   r.GravityPoints,
		OriginalGravity: r.OriginalGravity,
		ABV:             r.ABV,
	})
}
