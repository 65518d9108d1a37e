package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/vlai-dev123/Climate-data-api/internal/store"
)

// NewRouter builds the gin engine with all API routes registered.
func NewRouter(st store.Store) *gin.Engine {
	router := gin.Default()

	v1 := router.Group("/api/v1")
	{
		v1.POST("/emissions/upload", UploadEmissions(st))
		v1.GET("/facilities/:facility_id/emissions", GetFacilityEmissions(st))
	}
	router.GET("/healthz", Health(st))

	return router
}
