package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HanSolo4203/RSA-v4/internal/catalog"
	"github.com/HanSolo4203/RSA-v4/internal/export"
	"github.com/HanSolo4203/RSA-v4/internal/orders"
)

// registerAdminRoutes wires the back-office surface. Authentication is left
// to the gateway in front of this service.
func registerAdminRoutes(r *gin.Engine, catalogStore *catalog.Store, orderStore *orders.Store, admin *orders.Admin) {
	g := r.Group("/admin")

	g.GET("/services", func(c *gin.Context) {
		services, err := catalogStore.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog_unavailable", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"services": services})
	})

	g.POST("/services", func(c *gin.Context) {
		var req struct {
			Name          string   `json:"name" binding:"required"`
			Description   string   `json:"description"`
			PricePerItem  *float64 `json:"pricePerItem"`
			PricePerPound *float64 `json:"pricePerPound"`
			IsActive      *bool    `json:"isActive"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		svc := catalog.Service{
			Name:          req.Name,
			Description:   req.Description,
			PricePerItem:  req.PricePerItem,
			PricePerPound: req.PricePerPound,
			IsActive:      true,
		}
		if req.IsActive != nil {
			svc.IsActive = *req.IsActive
		}
		created, err := catalogStore.Create(c.Request.Context(), svc)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "store_write_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, created)
	})

	g.PATCH("/services/:id", func(c *gin.Context) {
		var patch catalog.Patch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		err := catalogStore.Update(c.Request.Context(), c.Param("id"), patch)
		if errors.Is(err, catalog.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "service_not_found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "store_write_failed", "detail": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	})

	// archive, not delete: services referenced by order lines must survive
	g.DELETE("/services/:id", func(c *gin.Context) {
		err := catalogStore.Archive(c.Request.Context(), c.Param("id"))
		if errors.Is(err, catalog.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "service_not_found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "store_write_failed", "detail": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	})

	g.GET("/requests", func(c *gin.Context) {
		filter, ok := filterFromQuery(c)
		if !ok {
			return
		}
		list, err := orderStore.List(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "store_read_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"requests": list, "count": len(list)})
	})

	g.GET("/requests/:id", func(c *gin.Context) {
		ctx := c.Request.Context()
		order, err := orderStore.Get(ctx, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "store_read_failed", "detail": err.Error()})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "request_not_found"})
			return
		}
		lines, err := orderStore.LinesByOrder(ctx, order.ID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "store_read_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"request": order, "lines": lines})
	})

	g.PATCH("/requests/:id", func(c *gin.Context) {
		var req struct {
			Status        *string `json:"status"`
			InternalNotes *string `json:"internalNotes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		update := orders.UpdateRequest{InternalNotes: req.InternalNotes}
		if req.Status != nil {
			status := orders.Status(*req.Status)
			if !orders.ValidStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status"})
				return
			}
			update.Status = &status
		}
		order, err := admin.UpdateOne(c.Request.Context(), c.Param("id"), update)
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "request_not_found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "store_write_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"request": order})
	})

	g.POST("/requests/batch-status", func(c *gin.Context) {
		var req struct {
			OrderIDs      []string `json:"orderIds" binding:"required,min=1"`
			Status        string   `json:"status" binding:"required"`
			InternalNotes *string  `json:"internalNotes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		status := orders.Status(req.Status)
		if !orders.ValidStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status"})
			return
		}

		res := admin.BatchUpdate(c.Request.Context(), req.OrderIDs, status, req.InternalNotes)

		failed := make([]gin.H, 0, len(res.Failed))
		for _, f := range res.Failed {
			failed = append(failed, gin.H{"id": f.ID, "error": f.Err.Error()})
		}
		code := http.StatusOK
		if len(res.Failed) > 0 {
			code = http.StatusMultiStatus
		}
		c.JSON(code, gin.H{"succeeded": res.Succeeded, "failed": failed})
	})

	g.GET("/requests/export", func(c *gin.Context) {
		filter, ok := filterFromQuery(c)
		if !ok {
			return
		}
		list, err := orderStore.List(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "store_read_failed", "detail": err.Error()})
			return
		}
		out, err := export.ToCSV(list)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export_failed", "detail": err.Error()})
			return
		}
		filename := "requests-" + time.Now().UTC().Format("2006-01-02") + ".csv"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "text/csv", []byte(out))
	})
}

func filterFromQuery(c *gin.Context) (orders.Filter, bool) {
	var f orders.Filter
	if v := c.Query("status"); v != "" {
		status := orders.Status(v)
		if !orders.ValidStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status"})
			return f, false
		}
		f.Status = &status
	}
	f.PickupFrom = c.Query("from")
	f.PickupTo = c.Query("to")
	return f, true
}
