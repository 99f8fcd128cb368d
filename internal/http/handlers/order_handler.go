package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"orderly/internal/domain"
	applog "orderly/internal/log"
	"orderly/internal/repos"
	"orderly/internal/services"
	"orderly/internal/validate"
)

// OrderHandler serves the panel's JSON API.
type OrderHandler struct {
	Panel   *services.PanelService
	Reports *services.ReportService
}

// GET /api/orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	status, ok := validate.StatusFilter(c.Query("status"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}
	category, ok := validate.CategoryFilter(c.Query("category"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid category")
	}
	from, okFrom := validate.Day(c.Query("from"))
	to, okTo := validate.Day(c.Query("to"))
	if !okFrom || !okTo {
		return jsonError(c, fiber.StatusBadRequest, "dates must be YYYY-MM-DD")
	}

	orders, err := h.Panel.ListOrders(c.UserContext(), repos.OrderFilter{
		Status:   status,
		Category: category,
		From:     from,
		To:       to,
		Limit:    validate.Limit(c.Query("limit")),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// GET /api/orders/:id
func (h *OrderHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.OrderID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid order id")
	}
	o, err := h.Panel.OrderDetail(c.UserContext(), id)
	if errors.Is(err, repos.ErrNotFound) {
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"order": o})
}

type statusBody struct {
	Status string `json:"status" form:"status"`
}

// POST /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.OrderID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid order id")
	}
	var body statusBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	status, ok := validate.Status(body.Status)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "status", "order_id": id})
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}

	counts, err := h.Panel.MutateStatus(c.UserContext(), id, status)
	switch {
	case errors.Is(err, repos.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "order not found")
	case errors.Is(err, domain.ErrInvalidStatus):
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	case err != nil:
		return err
	}
	applog.Audit(c, "orders.status.update", map[string]any{"order_id": id, "status": string(status)})
	return c.JSON(fiber.Map{"success": true, "new_status": status, "stats": counts})
}

// DELETE /api/orders/:id
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.OrderID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid order id")
	}
	counts, err := h.Panel.RemoveOrder(c.UserContext(), id)
	if err != nil {
		return err
	}
	applog.Audit(c, "orders.delete", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"success": true, "stats": counts})
}

// GET /api/stats
func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	st, err := h.Panel.Stats(c.UserContext())
	if err != nil {
		return err
	}
	if c.Query("days") != "" {
		days := validate.Days(c.Query("days"), services.DefaultSeriesDays, services.MaxSeriesDays)
		if st.Series, err = h.Reports.DailySeries(c.UserContext(), domain.MerchantID, days); err != nil {
			return err
		}
	}
	return c.JSON(st)
}

// GET /api/stats/daily
func (h *OrderHandler) DailyStats(c *fiber.Ctx) error {
	days := validate.Days(c.Query("days"), services.DefaultSeriesDays, services.MaxSeriesDays)
	rows, err := h.Reports.DailyStats(c.UserContext(), domain.MerchantID, days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"daily": rows})
}

// GET /api/orders/new/count
func (h *OrderHandler) NewCount(c *fiber.Ctx) error {
	n, err := h.Panel.NewOrdersCount(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": n})
}
