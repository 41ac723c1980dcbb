package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HanSolo4203/RSA-v4/internal/catalog"
	"github.com/HanSolo4203/RSA-v4/internal/idempotency"
	"github.com/HanSolo4203/RSA-v4/internal/metrics"
	"github.com/HanSolo4203/RSA-v4/internal/notify"
	"github.com/HanSolo4203/RSA-v4/internal/orders"
	"github.com/HanSolo4203/RSA-v4/internal/pricing"
	"github.com/HanSolo4203/RSA-v4/internal/validation"
)

// RegisterRoutes wires the customer and admin surface onto the router.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	logger := cfg.logger()

	catalogStore := catalog.NewStore(cfg.DynamoDBClient, cfg.ServicesTable)
	orderStore := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable, cfg.OrderLinesTable)
	recorder := metrics.NewRecorder(cfg.CloudWatchClient, cfg.MetricsNamespace, logger)
	notifier := notify.NewPublisher(cfg.SQSClient, cfg.QueueURL)

	var idempStore *idempotency.Store
	if cfg.IdempotencyTable != "" {
		idempStore = idempotency.NewStore(cfg.DynamoDBClient, cfg.IdempotencyTable, cfg.TTLWindow)
	}

	workflow := orders.NewWorkflow(orderStore, catalogStore, recorder, logger)
	admin := orders.NewAdmin(orderStore, notifier, recorder, logger)

	r.GET("/services", func(c *gin.Context) {
		services, err := catalogStore.ListActive(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog_unavailable", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"services": services})
	})

	r.POST("/requests", submitRequest(workflow, idempStore))

	registerAdminRoutes(r, catalogStore, orderStore, admin)
}

func submitRequest(workflow *orders.Workflow, idempStore *idempotency.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var draft validation.OrderDraft
		if err := validation.BindJSON(c, &draft); err != nil {
			// BindJSON already wrote a 400
			return
		}

		// Optional idempotency key: lets a UI retry replay the stored
		// response instead of creating a duplicate order.
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey != "" && idempStore != nil {
			created, err := idempStore.CreateIfNotExists(ctx, idempKey, "")
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
				return
			}
			if !created {
				replayIdempotent(c, idempStore, idempKey)
				return
			}
		}

		res := workflow.Submit(ctx, draft)

		switch res.State {
		case orders.StateRejected:
			if res.FieldErrors != nil {
				if idempKey != "" && idempStore != nil {
					_ = idempStore.MarkFailed(ctx, idempKey, "validation_failed")
				}
				c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "fields": res.FieldErrors})
				return
			}
			if idempKey != "" && idempStore != nil {
				_ = idempStore.MarkFailed(ctx, idempKey, fmt.Sprintf("store_write_failed: %v", res.Err))
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "store_write_failed", "detail": res.Err.Error()})

		case orders.StatePartiallyFailed:
			// The order exists with lines missing: the caller must be told
			// exactly which order so they do not blindly resubmit.
			body := gin.H{
				"error":    "partial_submission",
				"order_id": res.OrderID,
				"detail":   "your request was saved but some selected services may be missing; please contact us instead of resubmitting",
				"line_ids": res.LineIDs,
			}
			if idempKey != "" && idempStore != nil {
				// Mark DONE so a retry replays this outcome rather than
				// creating a second order.
				raw, _ := json.Marshal(body)
				_ = idempStore.MarkDone(ctx, idempKey, string(raw), http.StatusInternalServerError)
			}
			c.JSON(http.StatusInternalServerError, body)

		case orders.StateCommitted:
			body := gin.H{
				"order_id":             res.OrderID,
				"status":               string(orders.StatusPending),
				"total_estimated_cost": pricing.RoundCurrency(res.Quote.Total),
				"line_ids":             res.LineIDs,
			}
			if idempKey != "" && idempStore != nil {
				raw, _ := json.Marshal(body)
				_ = idempStore.MarkDone(ctx, idempKey, string(raw), http.StatusCreated)
			}
			c.Header("Location", fmt.Sprintf("/admin/requests/%s", res.OrderID))
			c.JSON(http.StatusCreated, body)
		}
	}
}

// replayIdempotent answers a duplicate submission from the stored record.
func replayIdempotent(c *gin.Context, idempStore *idempotency.Store, key string) {
	rec, err := idempStore.Get(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_record_missing"})
		return
	}
	switch rec.Status {
	case idempotency.StatusDone:
		if rec.ResponseBody != "" {
			c.Data(rec.ResponseStatus, "application/json", []byte(rec.ResponseBody))
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": rec.OrderID})
	case idempotency.StatusInProgress:
		c.JSON(http.StatusAccepted, gin.H{"message": "request already in progress"})
	case idempotency.StatusFailed:
		// let the client retry with a fresh key
		c.JSON(http.StatusConflict, gin.H{"error": "previous_attempt_failed", "note": rec.Note})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown_idempotency_status"})
	}
}
