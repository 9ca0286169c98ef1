package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourhub/internal/models"
	"tourhub/internal/store"
)

// bindOnto decodes the request body over rec, keeping its id and timestamps.
func bindOnto(c *gin.Context, rec any, base *models.Base) error {
	keep := *base
	if err := c.ShouldBindJSON(rec); err != nil {
		return invalidBody(err)
	}
	*base = keep
	return nil
}

func segmentFilter(c *gin.Context) (store.SegmentFilter, bool) {
	var f store.SegmentFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		respondError(c, invalidBody(err))
		return f, false
	}
	return f, true
}

// ListFlights handles GET /flights.
func (ctl *Controller) ListFlights(c *gin.Context) {
	f, ok := segmentFilter(c)
	if !ok {
		return
	}
	out, err := ctl.store.FetchFlights(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": out})
}

func (ctl *Controller) CreateFlight(c *gin.Context) {
	var f models.FlightCoordination
	if err := bindOnto(c, &f, &f.Base); err != nil {
		respondError(c, err)
		return
	}
	if err := ctl.travel.CreateFlight(c.Request.Context(), &f); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"flight": f})
}

func (ctl *Controller) UpdateFlight(c *gin.Context) {
	f, err := ctl.travel.UpdateFlight(c.Request.Context(), c.Param("id"), func(f *models.FlightCoordination) error {
		return bindOnto(c, f, &f.Base)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flight": f})
}

func (ctl *Controller) DeleteFlight(c *gin.Context) {
	if err := ctl.travel.DeleteFlight(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Flight deleted"})
}

// ListTransportation handles GET /transportation.
func (ctl *Controller) ListTransportation(c *gin.Context) {
	f, ok := segmentFilter(c)
	if !ok {
		return
	}
	out, err := ctl.store.FetchTransportation(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transportation": out})
}

func (ctl *Controller) CreateTransportation(c *gin.Context) {
	var v models.GroundTransportationCoordination
	if err := bindOnto(c, &v, &v.Base); err != nil {
		respondError(c, err)
		return
	}
	if err := ctl.travel.CreateTransportation(c.Request.Context(), &v); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transportation": v})
}

func (ctl *Controller) UpdateTransportation(c *gin.Context) {
	v, err := ctl.travel.UpdateTransportation(c.Request.Context(), c.Param("id"), func(v *models.GroundTransportationCoordination) error {
		return bindOnto(c, v, &v.Base)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transportation": v})
}

func (ctl *Controller) DeleteTransportation(c *gin.Context) {
	if err := ctl.travel.DeleteTransportation(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transportation deleted"})
}

// ListLodging handles GET /lodging.
func (ctl *Controller) ListLodging(c *gin.Context) {
	f, ok := segmentFilter(c)
	if !ok {
		return
	}
	out, err := ctl.store.FetchLodgingBookings(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lodging": out})
}

func (ctl *Controller) CreateLodging(c *gin.Context) {
	var b models.LodgingBooking
	if err := bindOnto(c, &b, &b.Base); err != nil {
		respondError(c, err)
		return
	}
	if err := ctl.travel.CreateLodgingBooking(c.Request.Context(), &b); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lodging": b})
}

func (ctl *Controller) UpdateLodging(c *gin.Context) {
	b, err := ctl.travel.UpdateLodgingBooking(c.Request.Context(), c.Param("id"), func(b *models.LodgingBooking) error {
		return bindOnto(c, b, &b.Base)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lodging": b})
}

func (ctl *Controller) DeleteLodging(c *gin.Context) {
	if err := ctl.travel.DeleteLodgingBooking(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lodging booking deleted"})
}
