package handlers

import (
	"github.com/gofiber/fiber/v2"

	"orderly/internal/domain"
	applog "orderly/internal/log"
	"orderly/internal/repos"
	"orderly/internal/services"
)

type AdminHandler struct {
	Panel     *services.PanelService
	Merchants *repos.MerchantRepo
}

// GET /
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	stats, err := h.Panel.Stats(ctx)
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the dashboard"})
	}
	orders, err := h.Panel.ListOrders(ctx, repos.OrderFilter{Limit: 100})
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	merchant, err := h.Merchants.Get(ctx, domain.MerchantID)
	if err != nil {
		applog.Warn(c, "admin.merchant.load.fail", err, nil)
	}
	return render(c, "dashboard", fiber.Map{
		"Stats":    stats,
		"Orders":   orders,
		"Merchant": merchant,
		"Statuses": domain.Statuses,
	})
}
